// Package source holds the files the front end reads: their content, a
// stable identifier and the line maps built over them.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/dhamidi/javafront/java/position"
)

var ErrUnsupportedFile = errors.New("unsupported file kind")

type Kind int

const (
	KindSource Kind = iota
	KindClass
	KindHTML
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindClass:
		return "class"
	case KindHTML:
		return "html"
	default:
		return "other"
	}
}

// KindOf classifies a file by its extension.
func KindOf(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".java":
		return KindSource
	case ".class":
		return KindClass
	case ".html", ".htm":
		return KindHTML
	default:
		return KindOther
	}
}

// File is an immutable source buffer. Line maps are built on first use and
// shared by every caller.
type File struct {
	Name    string
	Kind    Kind
	Content []byte

	id     uint64
	checks bool

	plainOnce sync.Once
	plain     position.LineMap
	tabsOnce  sync.Once
	tabs      position.LineMap
}

type Option func(*File)

// WithChecks enables invariant checks when building the line maps.
func WithChecks(enabled bool) Option {
	return func(f *File) {
		f.checks = enabled
	}
}

func New(name string, content []byte, opts ...Option) *File {
	f := &File{
		Name:    name,
		Kind:    KindOf(name),
		Content: content,
		id:      xxh3.Hash(content),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Read loads a Java source file from disk.
func Read(path string, opts ...Option) (*File, error) {
	if KindOf(path) != KindSource {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(path, content, opts...), nil
}

// ID is the xxh3 fingerprint of the content. Files with the same content
// share an ID.
func (f *File) ID() uint64 { return f.id }

// Fingerprint renders ID as hex.
func (f *File) Fingerprint() string { return fmt.Sprintf("%016x", f.id) }

func (f *File) String() string { return f.Name }

// LineMap returns the line map of the whole file, expanding tabs to
// position.TabInc if expandTabs is set.
func (f *File) LineMap(expandTabs bool) position.LineMap {
	if expandTabs {
		f.tabsOnce.Do(func() {
			f.tabs = position.Build(f.Content, len(f.Content), true, position.WithChecks(f.checks))
		})
		return f.tabs
	}
	f.plainOnce.Do(func() {
		f.plain = position.Build(f.Content, len(f.Content), false, position.WithChecks(f.checks))
	})
	return f.plain
}

// Line returns the text of line n without its terminator.
func (f *File) Line(lm position.LineMap, n int) string {
	start := lm.StartPosition(n)
	end := len(f.Content)
	if n < lm.LineCount() {
		end = lm.StartPosition(n + 1)
	}
	return strings.TrimRight(string(f.Content[start:end]), "\r\n")
}
