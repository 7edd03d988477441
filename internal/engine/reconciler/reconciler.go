// Package reconciler removes files and directories from an output tree that the current
// build did not declare.
package reconciler

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Reconciler collects stale entries of an output tree and deletes them.
type Reconciler struct {
	walker ports.Walker
	logger ports.Logger
	diag   bool
	limit  int

	root  string
	files []string
	dirs  []string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDiagnostics logs every deletion.
func WithDiagnostics(enabled bool) Option {
	return func(r *Reconciler) {
		r.diag = enabled
	}
}

// WithLimit overrides the maximum number of entries deleted in one run.
func WithLimit(limit int) Option {
	return func(r *Reconciler) {
		r.limit = limit
	}
}

// New creates a Reconciler.
func New(walker ports.Walker, logger ports.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		walker: walker,
		logger: logger,
		limit:  domain.MaxReconcileDeletions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scan walks root and queues every entry that live does not declare.
// A directory is stale when live has no directory at its place; its contents are then all stale.
// A file is stale when live has no file leaf at its place.
func (r *Reconciler) Scan(root string, live *domain.TargetNode) error {
	r.root = root
	var errs []error
	for entry, err := range r.walker.Walk(root) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		node := live.Lookup(strings.Split(entry.Rel, "/"))
		switch {
		case entry.Dir && !node.IsDir():
			r.dirs = append(r.dirs, entry.Path)
		case !entry.Dir && !node.IsFile():
			r.files = append(r.files, entry.Path)
		}
	}
	return errors.Join(errs...)
}

// Pending returns the queued files and directories.
func (r *Reconciler) Pending() (files, dirs []string) {
	return slices.Clone(r.files), slices.Clone(r.dirs)
}

// Reconcile deletes the queued files, then the queued directories deepest first.
// Nothing is deleted when more entries are queued than the limit allows.
// It returns the number of entries deleted.
func (r *Reconciler) Reconcile() (int, error) {
	total := len(r.files) + len(r.dirs)
	if total > r.limit {
		return 0, zerr.With(zerr.With(zerr.Wrap(domain.ErrTooManyDeletions, r.root), "queued", total), "limit", r.limit)
	}

	deleted := 0
	for _, f := range r.files {
		if err := remove(f); err != nil {
			return deleted, err
		}
		r.logDeletion(f)
		deleted++
	}

	for _, d := range slices.Backward(r.dirs) {
		if err := remove(d); err != nil {
			return deleted, err
		}
		r.logDeletion(d)
		deleted++
	}

	r.files, r.dirs = nil, nil
	return deleted, nil
}

func (r *Reconciler) logDeletion(path string) {
	if r.diag {
		r.logger.Info(relative(r.root, path) + ": delete")
	}
}

func remove(path string) error {
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to delete stale output"), "path", path)
	}
	return nil
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
