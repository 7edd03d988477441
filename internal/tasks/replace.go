package tasks

import (
	"context"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
	"go.trai.ch/zerr"
)

// Replace copies source files while substituting literal text.
type Replace struct {
	Items []domain.ReplaceItem
}

type replaceFile struct {
	domain.FileItem
	replace []domain.Replacer
	// files holds the resolved path of every Replacer.ToFile, indexed like replace.
	files []string
}

// Name returns the task name.
func (Replace) Name() string { return ReplaceName }

// Run rewrites every destination whose source, replacement files or replacers changed.
func (r Replace) Run(ctx context.Context, b *buildctx.Build) error {
	var files []replaceFile
	for _, item := range r.Items {
		if len(item.Replace) == 0 {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "replace list missing"), "dst", item.Dst)
		}

		toFiles := make([]string, len(item.Replace))
		for i, rep := range item.Replace {
			if rep.ToFile == "" {
				continue
			}
			p, err := b.ResolvePath(b.SrcPath, rep.ToFile)
			if err != nil {
				return err
			}
			toFiles[i] = p
		}

		items, err := b.ItemFiles(ReplaceName, item.BuildItem, nil)
		if err != nil {
			return err
		}
		for _, f := range items {
			files = append(files, replaceFile{FileItem: f, replace: item.Replace, files: toFiles})
		}
	}
	slices.SortFunc(files, func(a, c replaceFile) int {
		return strings.Compare(a.DstFile, c.DstFile)
	})

	prev := b.State(ReplaceName).Index()
	next := &domain.TaskState{}
	var work []replaceFile

	for _, f := range files {
		if err := b.DefineDstFile(f.DstFile); err != nil {
			return err
		}
		options, err := domain.Snapshot(f.replace)
		if err != nil {
			return err
		}
		rec := domain.Record{
			Dst:          f.DstFile,
			Src:          []string{f.SrcFile},
			Dependencies: dependencies(f.files),
			Options:      options,
		}
		next.Add(rec)
		if !current(b, prev, rec) {
			work = append(work, f)
		}
	}

	buildctx.Parallel(ctx, b, work, replaceLimit, func(_ context.Context, f replaceFile) error {
		b.LogBuildFile(ReplaceName, f.DstFile)
		return replaceOne(f)
	})

	b.SetState(ReplaceName, next)
	return nil
}

func replaceOne(f replaceFile) error {
	data, err := fs.ReadFile(f.SrcFile)
	if err != nil {
		return err
	}

	text := string(data)
	for i, rep := range f.replace {
		to := rep.To
		if f.files[i] != "" {
			content, err := fs.ReadFile(f.files[i])
			if err != nil {
				return err
			}
			to = string(content)
		}
		text = strings.ReplaceAll(text, rep.From, to)
	}

	_, err = fs.WriteFile(f.DstFile, []byte(text), false)
	return err
}

func dependencies(files []string) []string {
	var deps []string
	for _, f := range files {
		if f != "" && !slices.Contains(deps, f) {
			deps = append(deps, f)
		}
	}
	return deps
}
