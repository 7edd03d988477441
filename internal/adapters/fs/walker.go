package fs

import (
	"errors"
	iofs "io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Walker = (*Walker)(nil)

// Walker provides directory walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk yields every entry below root in lexical pre-order.
// A missing root yields nothing. Symbolic links are reported as files and not followed.
func (w *Walker) Walk(root string) iter.Seq2[ports.Entry, error] {
	return func(yield func(ports.Entry, error) bool) {
		_ = filepath.WalkDir(filepath.FromSlash(root), func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				if d == nil && errors.Is(err, iofs.ErrNotExist) {
					return nil
				}
				walkErr := zerr.With(zerr.Wrap(err, "failed to read directory"), "path", path)
				if !yield(ports.Entry{Path: filepath.ToSlash(path)}, walkErr) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, relErr := filepath.Rel(filepath.FromSlash(root), path)
			if relErr != nil || rel == "." {
				return nil //nolint:nilerr // the root itself is not an entry
			}

			entry := ports.Entry{
				Path: filepath.ToSlash(path),
				Rel:  filepath.ToSlash(rel),
				Dir:  d.IsDir(),
			}
			if !yield(entry, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
