package tasks

import (
	"context"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

// Copy copies source files to the destination directory.
type Copy struct {
	Items []domain.BuildItem
}

// Name returns the task name.
func (Copy) Name() string { return CopyName }

// Run copies every source newer than its destination.
func (c Copy) Run(ctx context.Context, b *buildctx.Build) error {
	files, err := b.FileItems(CopyName, c.Items, nil)
	if err != nil {
		return err
	}

	prev := b.State(CopyName).Index()
	next := &domain.TaskState{}
	var work []domain.FileItem

	for _, f := range files {
		if err := b.DefineDstFile(f.DstFile); err != nil {
			return err
		}
		rec := domain.Record{Dst: f.DstFile, Src: []string{f.SrcFile}}
		next.Add(rec)
		if !current(b, prev, rec) {
			work = append(work, f)
		}
	}

	buildctx.Parallel(ctx, b, work, copyLimit, func(_ context.Context, f domain.FileItem) error {
		b.LogBuildFile(CopyName, f.DstFile)
		return fs.CopyFile(f.SrcFile, f.DstFile)
	})

	b.SetState(CopyName, next)
	return nil
}
