package tasks

import (
	"bytes"
	"context"
	"strings"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
	"go.trai.ch/zerr"
)

// Concat joins the sources of each item, in order, into one destination file.
type Concat struct {
	Items []domain.ConcatItem
}

type concatJob struct {
	dst       string
	sources   []string
	separator string
}

func (j concatJob) Identity() string { return j.dst }

type concatOptions struct {
	Separator string `json:"separator"`
}

// Name returns the task name.
func (Concat) Name() string { return ConcatName }

// Run rebuilds every destination whose source list, separator or sources changed.
func (c Concat) Run(ctx context.Context, b *buildctx.Build) error {
	prev := b.State(ConcatName).Index()
	next := &domain.TaskState{}
	var work []concatJob

	for _, item := range c.Items {
		if item.Dst == "" || strings.HasSuffix(item.Dst, "/") {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "concat dst must be a file"), "dst", item.Dst)
		}
		dst := fs.Join(b.DstPath, item.Dst)

		found, err := b.Src(b.SrcPath, item.Src)
		if err != nil {
			return err
		}
		sources := make([]string, len(found))
		for i, s := range found {
			sources[i] = s.Path
		}

		if err := b.DefineDstFile(dst); err != nil {
			return err
		}
		options, err := domain.Snapshot(concatOptions{Separator: item.Separator})
		if err != nil {
			return err
		}
		rec := domain.Record{Dst: dst, Src: sources, Options: options}
		next.Add(rec)
		if !current(b, prev, rec) {
			work = append(work, concatJob{dst: dst, sources: sources, separator: item.Separator})
		}
	}

	buildctx.Parallel(ctx, b, work, concatLimit, func(_ context.Context, j concatJob) error {
		b.LogBuildFile(ConcatName, j.dst)
		return concatOne(j)
	})

	b.SetState(ConcatName, next)
	return nil
}

func concatOne(j concatJob) error {
	var buf bytes.Buffer
	for i, src := range j.sources {
		if i > 0 {
			buf.WriteString(j.separator)
		}
		data, err := fs.ReadFile(src)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	_, err := fs.WriteFile(j.dst, buf.Bytes(), false)
	return err
}
