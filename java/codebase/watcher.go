package codebase

import (
	"context"
	"os"
	"sync"
	"time"
)

// ChangeFunc is called after the watcher re-analyzes a file. info is nil
// when the file was removed.
type ChangeFunc func(path string, info *FileInfo)

// FileWatcher polls the codebase root and keeps the analysis in step with
// the files on disk.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	onChange     ChangeFunc
	modTimes     map[string]time.Time

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewFileWatcher(c *Codebase, interval time.Duration, onChange ChangeFunc) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		pollInterval: interval,
		onChange:     onChange,
		modTimes:     make(map[string]time.Time),
		done:         make(chan struct{}),
	}
}

func (w *FileWatcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Stop ends polling and waits for the current pass to finish.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
	})
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll makes one pass over the root: new and modified files are scanned,
// vanished ones removed.
func (w *FileWatcher) Poll(ctx context.Context) {
	paths, err := w.codebase.javaFiles()
	if err != nil {
		log.Warningf("watching %s: %s", w.codebase.RootDir(), err)
		return
	}
	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		current[path] = true
		last, known := w.modTimes[path]
		if known && !stat.ModTime().After(last) {
			continue
		}
		w.modTimes[path] = stat.ModTime()
		info, err := w.codebase.ScanFile(ctx, path)
		if err != nil {
			log.Warningf("scanning %s: %s", path, err)
			continue
		}
		if known && w.onChange != nil {
			w.onChange(path, info)
		}
	}
	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			if w.onChange != nil {
				w.onChange(path, nil)
			}
		}
	}
}
