package buildctx_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/buildctx"
	"go.uber.org/mock/gomock"
)

func TestRunTask_ErrorIsCounted(t *testing.T) {
	b, buf := newBuild(t, domain.GlobalConfig{})

	b.RunTask(context.Background(), taskFunc{name: "copy", run: func(context.Context, *buildctx.Build) error {
		return errors.New("boom")
	}})
	b.RunTask(context.Background(), taskFunc{name: "touch", run: func(context.Context, *buildctx.Build) error {
		return nil
	}})

	assert.Equal(t, 1, b.Errors())
	assert.Contains(t, buf.String(), "copy failed: boom")
}

func TestRunTask_PanicIsCounted(t *testing.T) {
	b, buf := newBuild(t, domain.GlobalConfig{})

	b.RunTask(context.Background(), taskFunc{name: "replace", run: func(context.Context, *buildctx.Build) error {
		panic("nil map")
	}})

	assert.Equal(t, 1, b.Errors())
	assert.Contains(t, buf.String(), "replace failed: panic: nil map")
}

func TestRunTask_Telemetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	met := mocks.NewMockMetrics(ctrl)

	cached := mocks.NewMockVertex(ctrl)
	built := mocks.NewMockVertex(ctrl)
	failed := mocks.NewMockVertex(ctrl)

	gomock.InOrder(
		tel.EXPECT().Record(gomock.Any(), "touch").Return(context.Background(), cached),
		cached.EXPECT().Cached(),
		cached.EXPECT().Complete(nil),
	)
	tel.EXPECT().Record(gomock.Any(), "copy").Return(context.Background(), built)
	built.EXPECT().Complete(nil)
	tel.EXPECT().Record(gomock.Any(), "replace").Return(context.Background(), failed)
	failed.EXPECT().Log(domain.LogLevelError, gomock.Any())
	failed.EXPECT().Complete(gomock.Not(gomock.Nil()))

	met.EXPECT().ObserveTask("touch", gomock.Any(), domain.TaskOutcomeCached)
	met.EXPECT().AddBuiltFiles("touch", 0)
	met.EXPECT().ObserveTask("copy", gomock.Any(), domain.TaskOutcomeBuilt)
	met.EXPECT().AddBuiltFiles("copy", 2)
	met.EXPECT().ObserveTask("replace", gomock.Any(), domain.TaskOutcomeFailed)
	met.EXPECT().AddBuiltFiles("replace", 0)

	root := t.TempDir()
	var buf bytes.Buffer
	svc := services(&buf)
	svc.Telemetry = tel
	svc.Metrics = met

	b, err := buildctx.New(domain.GlobalConfig{RootPath: root, DstPath: "dst"}, svc)
	require.NoError(t, err)

	ctx := context.Background()
	b.RunTask(ctx, taskFunc{name: "touch", run: func(context.Context, *buildctx.Build) error { return nil }})
	b.RunTask(ctx, taskFunc{name: "copy", run: func(_ context.Context, b *buildctx.Build) error {
		b.LogBuildFile("copy", b.DstPath+"/a")
		b.LogBuildFile("copy", b.DstPath+"/b")
		return nil
	}})
	b.RunTask(ctx, taskFunc{name: "replace", run: func(context.Context, *buildctx.Build) error {
		return errors.New("missing replace list")
	}})

	assert.Equal(t, 1, b.Errors())
}

type item string

func (i item) Identity() string { return string(i) }

func TestParallel(t *testing.T) {
	b, buf := newBuild(t, domain.GlobalConfig{})

	var ran atomic.Int32
	failed := buildctx.Parallel(context.Background(), b, []item{"a.scss", "b.scss", "c.scss"}, 2,
		func(_ context.Context, it item) error {
			ran.Add(1)
			if it == "b.scss" {
				return errors.New("undefined variable")
			}
			return nil
		})

	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, 1, b.Errors())
	assert.Contains(t, buf.String(), "b.scss: build handler failed: undefined variable")
}

func TestSaveStateAndCheckTarget(t *testing.T) {
	b, _ := newBuild(t, domain.GlobalConfig{})
	writeTree(t, b.DstPath, "keep.js", "stale.js", "old/x.js")

	require.NoError(t, b.DefineDstFile(b.DstPath+"/keep.js"))
	b.SaveState()
	b.CheckTarget()

	assert.FileExists(t, filepath.Join(b.DstPath, "keep.js"))
	assert.FileExists(t, b.StateFile)
	assert.NoFileExists(t, filepath.Join(b.DstPath, "stale.js"))
	assert.NoDirExists(t, filepath.Join(b.DstPath, "old"))
	assert.Zero(t, b.Errors())
}

func TestCheckTarget_SafetyValve(t *testing.T) {
	b, buf := newBuild(t, domain.GlobalConfig{})
	files := make([]string, 0, domain.MaxReconcileDeletions)
	for i := range domain.MaxReconcileDeletions {
		files = append(files, fmt.Sprintf("gen/f%04d.js", i))
	}
	writeTree(t, b.DstPath, files...)

	b.CheckTarget()

	assert.Contains(t, buf.String(), "Cleanup of target failed")
	assert.Contains(t, buf.String(), "too many files to cleanup")
	assert.DirExists(t, filepath.Join(b.DstPath, "gen"))
	assert.Zero(t, b.Errors())
}
