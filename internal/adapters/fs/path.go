// Package fs provides file system adapters for resolving, walking, and writing build files.
package fs

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

// Join joins path segments into an absolute, cleaned, slash-separated path.
// The rightmost absolute segment becomes the base; without one the working directory is used.
// Empty segments are ignored.
func Join(segments ...string) string {
	base := ""
	rest := segments
	for i := len(segments) - 1; i >= 0; i-- {
		if isAbs(segments[i]) {
			base = segments[i]
			rest = segments[i+1:]
			break
		}
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "/"
		}
		base = wd
	}

	parts := make([]string, 0, len(rest)+1)
	parts = append(parts, filepath.ToSlash(base))
	for _, s := range rest {
		if s != "" {
			parts = append(parts, filepath.ToSlash(s))
		}
	}
	return path.Join(parts...)
}

func isAbs(p string) bool {
	return p != "" && (filepath.IsAbs(p) || strings.HasPrefix(filepath.ToSlash(p), "/"))
}

// IsGlob reports whether s contains glob syntax.
func IsGlob(s string) bool {
	return strings.ContainsAny(s, domain.GlobChars)
}

// Rel returns target relative to base as a slash-separated path.
// Targets outside base are returned with leading "../" elements.
func Rel(base, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// Within reports whether p is dir or lies below dir.
func Within(dir, p string) bool {
	dir = strings.TrimSuffix(dir, "/")
	return p == dir || strings.HasPrefix(p, dir+"/")
}

// Segments splits the part of p below dir into its path elements.
// It returns false when p does not lie below dir.
func Segments(dir, p string) ([]string, bool) {
	dir = strings.TrimSuffix(dir, "/")
	if !strings.HasPrefix(p, dir+"/") {
		return nil, false
	}
	rest := strings.Trim(p[len(dir)+1:], "/")
	if rest == "" {
		return nil, false
	}
	return strings.Split(rest, "/"), true
}

// RenameExtension replaces the extension of fn with ext, which includes the leading dot.
func RenameExtension(fn, ext string) string {
	return strings.TrimSuffix(fn, path.Ext(fn)) + ext
}
