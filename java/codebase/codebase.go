// Package codebase keeps the analyzed state of a tree of Java sources and
// serves it to the language server. Each file is parsed and entered on its
// own; a file is analyzed again only when its content fingerprint changes.
package codebase

import (
	"context"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/javafront/config"
	"github.com/dhamidi/javafront/java/diag"
	"github.com/dhamidi/javafront/java/enter"
	"github.com/dhamidi/javafront/java/frontend"
	"github.com/dhamidi/javafront/java/position"
	"github.com/dhamidi/javafront/java/source"
	"github.com/dhamidi/javafront/java/tree"
)

var log = commonlog.GetLogger("javafront.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	cfg     *config.Config
	index   enter.MapIndex
	files   map[string]*FileInfo
}

// FileInfo is the analysis of one source file. Unit and Envs are nil when
// the parser itself failed; Err says why.
type FileInfo struct {
	Path        string
	Source      *source.File
	Unit        *tree.CompilationUnit
	Envs        *enter.Envs
	Diagnostics []diag.Diagnostic
	Err         error
}

func New(rootDir string, cfg *config.Config) *Codebase {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Codebase{
		rootDir: rootDir,
		cfg:     cfg,
		index:   enter.IndexFromConfig(cfg),
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *config.Config {
	return c.cfg
}

// ScanAll analyzes every .java file below the root directory, skipping
// hidden directories. Files are analyzed in parallel, at most
// cfg.WorkerCount() at a time.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.javaFiles()
	if err != nil {
		return err
	}
	return c.ScanFiles(ctx, paths)
}

// ScanFiles analyzes paths in parallel. The first error cancels the rest.
func (c *Codebase) ScanFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.WorkerCount())
	for _, path := range paths {
		g.Go(func() error {
			_, err := c.ScanFile(ctx, path)
			return err
		})
	}
	err := g.Wait()
	log.Debugf("scanned %d files under %s", len(paths), c.rootDir)
	return err
}

func (c *Codebase) javaFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if source.KindOf(path) == source.KindSource {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (c *Codebase) ScanFile(ctx context.Context, path string) (*FileInfo, error) {
	src, err := source.Read(path, source.WithChecks(c.cfg.Checks))
	if err != nil {
		return nil, err
	}
	info, _, err := c.update(ctx, src)
	return info, err
}

// UpdateFile analyzes content as the new text of path. It reports whether
// the file changed; unchanged content returns the previous analysis.
func (c *Codebase) UpdateFile(ctx context.Context, path string, content []byte) (*FileInfo, bool, error) {
	return c.update(ctx, source.New(path, content, source.WithChecks(c.cfg.Checks)))
}

func (c *Codebase) update(ctx context.Context, src *source.File) (*FileInfo, bool, error) {
	c.mu.RLock()
	prev := c.files[src.Name]
	idx := c.indexLocked(src.Name)
	c.mu.RUnlock()

	if prev != nil && prev.Source.ID() == src.ID() {
		return prev, false, nil
	}

	info, err := c.analyze(ctx, src, idx)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.files[src.Name] = info
	c.mu.Unlock()
	log.Debugf("analyzed %s (%s): %d diagnostics", src.Name, src.Fingerprint(), len(info.Diagnostics))
	return info, true, nil
}

// indexLocked returns the configured index extended with the top-level
// types of every other analyzed file.
func (c *Codebase) indexLocked(except string) enter.MapIndex {
	idx := maps.Clone(c.index)
	if idx == nil {
		idx = enter.MapIndex{}
	}
	for path, f := range c.files {
		if path != except && f.Unit != nil {
			enter.IndexUnits(idx, f.Unit)
		}
	}
	return idx
}

// analyze parses and enters src. Only cancellation is returned as an
// error; everything else ends up in the FileInfo.
func (c *Codebase) analyze(ctx context.Context, src *source.File, idx enter.PackageIndex) (*FileInfo, error) {
	info := &FileInfo{Path: src.Name, Source: src}
	var collector diag.Collector

	unit, err := frontend.Parse(ctx, src, &collector,
		frontend.WithTabs(c.cfg.ExpandTabs), frontend.WithChecks(c.cfg.Checks))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		info.Err = err
		return info, nil
	}
	info.Unit = unit

	envs, err := enter.Enter(unit,
		enter.WithIndex(idx),
		enter.WithListener(src, &collector),
		enter.WithTabs(c.cfg.ExpandTabs),
		enter.WithChecks(c.cfg.Checks))
	info.Envs, info.Err = envs, err
	info.Diagnostics = collector.Diagnostics()
	return info, nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the analyzed paths, sorted.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.files))
}

// Diagnostics returns the diagnostics of every file, ordered by file and
// position. Files the parser failed on contribute nothing.
func (c *Codebase) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, path := range c.Paths() {
		if f := c.GetFile(path); f != nil {
			out = append(out, f.Diagnostics...)
		}
	}
	return out
}

// FindClass returns the top-level or member class called name, searching
// files in path order.
func (c *Codebase) FindClass(name string) (*FileInfo, *tree.ClassDef) {
	for _, path := range c.Paths() {
		f := c.GetFile(path)
		if f == nil || f.Unit == nil {
			continue
		}
		var found *tree.ClassDef
		tree.Inspect(f.Unit, func(n tree.Node) bool {
			if found != nil {
				return false
			}
			if class, ok := n.(*tree.ClassDef); ok && class.Name == name {
				found = class
				return false
			}
			switch n.(type) {
			case *tree.CompilationUnit, *tree.ClassDef:
				return true
			}
			return false
		})
		if found != nil {
			return f, found
		}
	}
	return nil, nil
}

// Offset converts a zero-based line and character, as editors send them,
// to a byte offset in f. Characters count bytes; tabs are not expanded.
// Positions past the end of a line clamp to the line end.
func (c *Codebase) Offset(f *FileInfo, line, character int) int {
	lm := f.Source.LineMap(false)
	l := line + position.FirstLine
	if l > lm.LineCount() {
		return len(f.Source.Content)
	}
	pos := lm.Position(l, character+position.FirstColumn)
	end := len(f.Source.Content)
	if l < lm.LineCount() {
		end = lm.StartPosition(l+1) - 1
	}
	return min(pos, end)
}
