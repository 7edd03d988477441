package fs

import (
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver implements the Resolver interface using doublestar globbing.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Glob expands patterns relative to cwd.
// Plain paths are taken as-is, glob patterns are expanded, and "!" patterns remove the
// already collected files they match, compared on their cwd-relative path.
// Only existing regular files are returned, sorted.
func (r *Resolver) Glob(cwd string, patterns []string) ([]string, error) {
	cwd = Join(cwd)
	files := make([]string, 0, len(patterns))
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, pattern := range patterns {
		switch {
		case strings.HasPrefix(pattern, "!"):
			exclude := pattern[1:]
			if !doublestar.ValidatePattern(exclude) {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlob, pattern), "cwd", cwd)
			}
			files = slices.DeleteFunc(files, func(f string) bool {
				matched, _ := doublestar.Match(exclude, Rel(cwd, f))
				if matched {
					delete(seen, f)
				}
				return matched
			})
		case !IsGlob(pattern):
			add(Join(cwd, pattern))
		default:
			matches, err := expand(Join(cwd, pattern))
			if err != nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlob, pattern), "cwd", cwd)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	files = slices.DeleteFunc(files, func(f string) bool {
		info, err := os.Stat(f)
		return err != nil || !info.Mode().IsRegular()
	})
	slices.Sort(files)
	return files, nil
}

// expand globs an absolute pattern from its longest literal directory prefix.
func expand(pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Join(base, m))
	}
	return out, nil
}
