// Package watcher reports source changes so that builds can be re-run.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never watched.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const eventBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// Start may be called once per root; all roots share one event stream.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent
	once      sync.Once
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	return &Watcher{
		fsWatcher: w,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventBuffer),
	}, nil
}

// Start watches root and every directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range directories(filepath.FromSlash(root)) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}
	w.once.Do(func() {
		go w.process(ctx)
	})
	return nil
}

// Stop releases the watcher. The event stream ends once pending events are drained.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns the stream of changes.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields root and every directory below it that is not skipped.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) process(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			op, ok := convert(event.Op)
			if !ok {
				continue
			}

			select {
			case w.events <- ports.WatchEvent{Path: filepath.ToSlash(event.Name), Operation: op}:
			case <-ctx.Done():
				return
			}

			if op == ports.OpCreate {
				w.watchNew(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

// watchNew adds a directory created after Start.
func (w *Watcher) watchNew(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skipDirectories[info.Name()] {
		return
	}
	for dir := range directories(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

func convert(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
