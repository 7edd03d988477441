package buildctx

import (
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// userSuffix marks a local override of a source file.
const userSuffix = ".user"

// Source is a resolved source file with the name it gets below a destination directory.
type Source struct {
	Path       string
	TargetName string
}

// Dst returns the destination of item.
// An empty destination or one ending with "/" is a directory and the result ends with "/".
// A file destination requires the item to have a single literal source.
func (b *Build) Dst(item domain.BuildItem) (string, error) {
	if item.Dst == "" || strings.HasSuffix(item.Dst, "/") {
		return strings.TrimSuffix(fs.Join(b.DstPath, item.Dst), "/") + "/", nil
	}
	if _, ok := item.Src.Literal(); !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "dst must be a directory"), "dst", item.Dst)
	}
	return fs.Join(b.DstPath, item.Dst), nil
}

// Glob resolves patterns relative to cwd, warning when nothing matches.
func (b *Build) Glob(cwd string, patterns ...string) ([]string, error) {
	files, err := b.svc.Resolver.Glob(cwd, patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		quoted := make([]string, len(patterns))
		for i, p := range patterns {
			quoted[i] = "'" + p + "'"
		}
		b.LogWarning("glob has no files cwd='" + cwd + "', pattern=[" + strings.Join(quoted, ", ") + "]")
	}
	return files, nil
}

// Src resolves the filters of spec against base.
// Every match must lie below its filter's base directory.
func (b *Build) Src(base string, spec domain.SourceSpec) ([]Source, error) {
	var out []Source
	for _, f := range spec.Filters {
		cwd := base
		if f.Base != "" {
			resolved, err := b.ResolvePath(base, f.Base)
			if err != nil {
				return nil, err
			}
			cwd = resolved
		}
		cwd = strings.TrimSuffix(cwd, "/")

		target := f.Target
		if target != "" && !strings.HasSuffix(target, "/") {
			target += "/"
		}

		files, err := b.Glob(cwd, f.Pattern...)
		if err != nil {
			return nil, err
		}
		for _, name := range files {
			segments, ok := fs.Segments(cwd, name)
			if !ok {
				return nil, zerr.With(zerr.Wrap(domain.ErrSourceOutsideBase, name), "base", cwd)
			}
			out = append(out, Source{Path: name, TargetName: target + strings.Join(segments, "/")})
		}
	}
	return out, nil
}

// ItemFiles expands item into the file items owned by task.
// rename, when set, maps the target name of every file placed in a destination directory.
func (b *Build) ItemFiles(task string, item domain.BuildItem, rename func(string) string) ([]domain.FileItem, error) {
	dst, err := b.Dst(item)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(dst, "/") {
		literal, _ := item.Src.Literal()
		src, err := b.ResolvePath(b.SrcPath, literal)
		if err != nil {
			return nil, err
		}
		return []domain.FileItem{{
			SrcFile:    userOverride(src, item),
			DstFile:    dst,
			TargetName: dst,
			Owner:      task,
		}}, nil
	}

	sources, err := b.Src(b.SrcPath, item.Src)
	if err != nil {
		return nil, err
	}
	items := make([]domain.FileItem, 0, len(sources))
	for _, s := range sources {
		name := s.TargetName
		if rename != nil {
			name = rename(name)
		}
		items = append(items, domain.FileItem{
			SrcFile:    userOverride(s.Path, item),
			DstFile:    dst + name,
			TargetName: name,
			Owner:      task,
		})
	}
	return items, nil
}

// FileItems expands items into file items owned by task, sorted by destination.
func (b *Build) FileItems(task string, items []domain.BuildItem, rename func(string) string) ([]domain.FileItem, error) {
	var out []domain.FileItem
	for _, item := range items {
		files, err := b.ItemFiles(task, item, rename)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	SortFileItems(out)
	return out, nil
}

// SortFileItems orders items by destination file.
func SortFileItems(items []domain.FileItem) {
	slices.SortFunc(items, func(a, b domain.FileItem) int {
		return strings.Compare(a.DstFile, b.DstFile)
	})
}

func userOverride(src string, item domain.BuildItem) string {
	if item.AllowUserOverride && fs.IsFile(src+userSuffix) {
		return src + userSuffix
	}
	return src
}
