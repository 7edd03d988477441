package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// HashFile computes the XXHash of a file's content.
func HashFile(path string) (uint64, error) {
	f, err := os.Open(filepath.FromSlash(path)) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hasher.Sum64(), nil
}

// WriteFile writes data to path, creating parent directories.
// With compare set, an existing file holding the same content is left untouched.
// It reports whether the file was written.
func WriteFile(path string, data []byte, compare bool) (bool, error) {
	if compare && sameContent(path, data) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filepath.FromSlash(path)), domain.DirPerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}

	//nolint:gosec // Output files are meant to be world readable
	if err := os.WriteFile(filepath.FromSlash(path), data, domain.FilePerm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return true, nil
}

func sameContent(path string, data []byte) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil || !info.Mode().IsRegular() || info.Size() != int64(len(data)) {
		return false
	}
	existing, err := HashFile(path)
	return err == nil && existing == xxhash.Sum64(data)
}

// CopyFile copies src to dst, creating parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(filepath.FromSlash(src)) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	if err := os.MkdirAll(filepath.Dir(filepath.FromSlash(dst)), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dst)
	}

	//nolint:gosec // Output files are meant to be world readable
	out, err := os.OpenFile(filepath.FromSlash(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "path", dst)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	return nil
}

// ReadFile reads path, reporting a missing file as an error carrying the path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.FromSlash(path)) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, "file not found"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// Touch sets the access and modification times of path to t.
func Touch(path string, t time.Time) error {
	if err := os.Chtimes(filepath.FromSlash(path), t, t); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to touch file"), "path", path)
	}
	return nil
}
