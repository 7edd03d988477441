// Package statestore persists the incremental build state as a JSON file.
package statestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StateStore = (*Store)(nil)

// Store implements ports.StateStore using one JSON file per build.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load reads the state file at path. A missing or empty file yields nil, nil.
func (s *Store) Load(path string) (*domain.StateFile, error) {
	path = filepath.Clean(filepath.FromSlash(path))

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateRead.Error()), "path", path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	state := domain.NewStateFile()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStateUnmarshal.Error()), "path", path)
	}
	return state, nil
}

// Save writes state to path through a temporary file so readers never observe a partial write.
func (s *Store) Save(path string, state *domain.StateFile) error {
	path = filepath.Clean(filepath.FromSlash(path))

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStateMarshal.Error())
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWrite.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStateWrite.Error()), "path", path)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStateWrite.Error()), "path", path)
	}

	//nolint:gosec // State is not secret
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStateWrite.Error()), "path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStateWrite.Error()), "path", path)
	}
	return nil
}
