package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.BuildOptions) error
	watchFunc func(ctx context.Context, opts app.BuildOptions, window time.Duration) error
	cleanFunc func(ctx context.Context, opts app.BuildOptions) error
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.BuildOptions, window time.Duration) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts, window)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.BuildOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

type fakeLog struct {
	verbose bool
	file    string
}

func (f *fakeLog) SetVerbose(v bool) { f.verbose = v }

func (f *fakeLog) SetFile(path string) error {
	f.file = path
	return nil
}

type fakeMetrics struct {
	path string
	err  error
}

func (f *fakeMetrics) WriteFile(path string) error {
	f.path = path
	return f.err
}

func execute(t *testing.T, cli *commands.CLI, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("defaults leave the build file alone", func(t *testing.T) {
		var captured app.BuildOptions
		cli := commands.New(&mockApp{buildFunc: func(_ context.Context, opts app.BuildOptions) error {
			captured = opts
			return nil
		}})

		_, err := execute(t, cli, "build")
		require.NoError(t, err)
		assert.Equal(t, "kiln.yaml", captured.ConfigPath)
		assert.Equal(t, domain.Overrides{}, captured.Overrides)
	})

	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.BuildOptions
		cli := commands.New(&mockApp{buildFunc: func(_ context.Context, opts app.BuildOptions) error {
			captured = opts
			return nil
		}})

		_, err := execute(t, cli, "build", "-c", "site.yaml", "--rebuild", "--release=false", "--flavor", "mobile", "--diag-output")
		require.NoError(t, err)
		assert.Equal(t, "site.yaml", captured.ConfigPath)
		assert.True(t, captured.Overrides.Rebuild)
		assert.True(t, captured.Overrides.DiagOutput)
		require.NotNil(t, captured.Overrides.Release)
		assert.False(t, *captured.Overrides.Release)
		require.NotNil(t, captured.Overrides.Flavor)
		assert.Equal(t, "mobile", *captured.Overrides.Flavor)
	})

	t.Run("configuration sets flavor and mode", func(t *testing.T) {
		var captured app.BuildOptions
		cli := commands.New(&mockApp{buildFunc: func(_ context.Context, opts app.BuildOptions) error {
			captured = opts
			return nil
		}})

		_, err := execute(t, cli, "build", "--configuration", "Mobile-Release")
		require.NoError(t, err)
		require.NotNil(t, captured.Overrides.Release)
		assert.True(t, *captured.Overrides.Release)
		require.NotNil(t, captured.Overrides.Flavor)
		assert.Equal(t, "Mobile", *captured.Overrides.Flavor)
	})

	t.Run("rejects an unknown configuration", func(t *testing.T) {
		cli := commands.New(&mockApp{buildFunc: func(context.Context, app.BuildOptions) error {
			panic("should not be called")
		}})

		_, err := execute(t, cli, "build", "--configuration", "Mobile-Profile")
		require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		cli := commands.New(&mockApp{buildFunc: func(context.Context, app.BuildOptions) error {
			return domain.ErrBuildFailed
		}})

		_, err := execute(t, cli, "build")
		require.ErrorIs(t, err, domain.ErrBuildFailed)
	})
}

func TestCommands_HostFlags(t *testing.T) {
	log := &fakeLog{}
	m := &fakeMetrics{}
	cli := commands.New(&mockApp{}, commands.WithLogger(log), commands.WithMetrics(m))

	_, err := execute(t, cli, "build", "--debug", "--log-file", "kiln.log", "--metrics-file", "kiln.prom")
	require.NoError(t, err)
	assert.True(t, log.verbose)
	assert.Equal(t, "kiln.log", log.file)
	assert.Equal(t, "kiln.prom", m.path)
}

func TestCommands_MetricsWrittenOnFailure(t *testing.T) {
	m := &fakeMetrics{err: errors.New("read-only file system")}
	cli := commands.New(&mockApp{buildFunc: func(context.Context, app.BuildOptions) error {
		return domain.ErrBuildFailed
	}}, commands.WithMetrics(m))

	_, err := execute(t, cli, "build", "--metrics-file", "kiln.prom")
	require.ErrorIs(t, err, domain.ErrBuildFailed, "the build error wins over the export error")
	assert.Equal(t, "kiln.prom", m.path)

	cli = commands.New(&mockApp{}, commands.WithMetrics(m))
	_, err = execute(t, cli, "build", "--metrics-file", "kiln.prom")
	require.ErrorContains(t, err, "read-only file system")
}

func TestCommands_Watch(t *testing.T) {
	var window time.Duration
	var captured app.BuildOptions
	cli := commands.New(&mockApp{watchFunc: func(_ context.Context, opts app.BuildOptions, w time.Duration) error {
		captured, window = opts, w
		return nil
	}})

	_, err := execute(t, cli, "watch", "--debounce", "1s", "--release")
	require.NoError(t, err)
	assert.Equal(t, time.Second, window)
	require.NotNil(t, captured.Overrides.Release)
	assert.True(t, *captured.Overrides.Release)
}

func TestCommands_Clean(t *testing.T) {
	var captured app.BuildOptions
	cli := commands.New(&mockApp{cleanFunc: func(_ context.Context, opts app.BuildOptions) error {
		captured = opts
		return nil
	}})

	_, err := execute(t, cli, "clean", "--config", "other.yaml")
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", captured.ConfigPath)
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	out, err := execute(t, cli, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kiln version "+build.Version)
}
