package fs

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/zerr"
)

// IsUpToDate reports whether dst exists and is strictly newer than every source.
// Empty source names are ignored. A missing source makes dst stale, as does an equal timestamp.
func IsUpToDate(dst string, sources ...string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat output"), "path", dst)
	}

	for _, src := range sources {
		if src == "" {
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return false, nil
			}
			return false, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", src)
		}
		if !info.ModTime().Before(dstInfo.ModTime()) {
			return false, nil
		}
	}
	return true, nil
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ModTimeMillis returns the modification time of path in milliseconds since the epoch.
func ModTimeMillis(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime().UnixMilli(), nil
}
