package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Debug("hidden detail")
	lg.Info("some message")
	lg.Warn("some warning")

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "some message")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "some warning")
}

func TestLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	lg.SetVerbose(true)

	lg.Debug("dist/app.js: delete")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "dist/app.js: delete")

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("quiet")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	err := zerr.With(zerr.Wrap(os.ErrPermission, "failed to write file"), "path", "/dist/a.js")
	lg.Error(err)
	lg.Error(nil)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "failed to write file: permission denied")
	assert.Contains(t, out, "path=/dist/a.js")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("level=ERROR")))
}

func TestLogger_SetFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "kiln.log")

	lg := logger.New()
	lg.SetOutput(&buf)
	require.NoError(t, lg.SetFile(path))

	lg.Info("to both sinks")
	require.NoError(t, lg.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both sinks")
	assert.Contains(t, buf.String(), "to both sinks")

	lg.Info("stderr only")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stderr only")
}
