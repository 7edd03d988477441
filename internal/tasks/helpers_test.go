package tasks_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/statestore"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

// writeFiles writes path/content pairs below root, back-dated so that outputs written
// during the test are strictly newer.
func writeFiles(t *testing.T, root string, pairs ...string) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	for i := 0; i+1 < len(pairs); i += 2 {
		p := filepath.Join(root, filepath.FromSlash(pairs[i]))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(pairs[i+1]), 0o600))
		require.NoError(t, os.Chtimes(p, past, past))
	}
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.FromSlash(p))
	require.NoError(t, err)
	return string(data)
}

func future(t *testing.T, p string) {
	t.Helper()
	ts := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.FromSlash(p), ts, ts))
}

// build runs tasks the way the application does and returns the finished build.
func build(t *testing.T, cfg domain.GlobalConfig, tasks ...buildctx.Task) (*buildctx.Build, string) {
	t.Helper()
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	if cfg.SrcPath == "" {
		cfg.SrcPath = "src"
	}
	if cfg.DstPath == "" {
		cfg.DstPath = "dst"
	}
	b, err := buildctx.New(cfg, buildctx.Services{
		Logger:   lg,
		Store:    statestore.NewStore(),
		Resolver: fs.NewResolver(),
		Walker:   fs.NewWalker(),
	})
	require.NoError(t, err)

	for _, task := range tasks {
		b.RunTask(context.Background(), task)
	}
	if b.Errors() == 0 {
		b.SaveState()
		b.CheckTarget()
	}
	return b, buf.String()
}

func ptr[T any](v T) *T { return &v }
