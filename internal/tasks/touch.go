package tasks

import (
	"context"
	"time"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

// Touch sets the modification time of matching destination files to now.
type Touch struct {
	Patterns []string
}

// Name returns the task name.
func (Touch) Name() string { return TouchName }

// Run touches every file matched in the destination directory.
func (t Touch) Run(_ context.Context, b *buildctx.Build) error {
	files, err := b.Glob(b.DstPath, t.Patterns...)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, f := range files {
		b.LogBuildFile(TouchName, f)
		if err := fs.Touch(f, now); err != nil {
			b.LogError(err)
		}
	}
	return nil
}
