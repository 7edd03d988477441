package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
)

func TestIsUpToDate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src.txt", "dep.txt", "dst.txt")
	src := filepath.Join(root, "src.txt")
	dep := filepath.Join(root, "dep.txt")
	dst := filepath.Join(root, "dst.txt")

	old := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, os.Chtimes(src, old, old))
	require.NoError(t, os.Chtimes(dep, old, old))
	require.NoError(t, os.Chtimes(dst, newer, newer))

	ok, err := fs.IsUpToDate(dst, src, "", dep)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fs.IsUpToDate(filepath.Join(root, "missing"), src)
	require.NoError(t, err)
	assert.False(t, ok, "missing destination is stale")

	ok, err = fs.IsUpToDate(dst, src, filepath.Join(root, "gone.txt"))
	require.NoError(t, err)
	assert.False(t, ok, "missing source is stale")

	require.NoError(t, os.Chtimes(dep, newer, newer))
	ok, err = fs.IsUpToDate(dst, src, dep)
	require.NoError(t, err)
	assert.False(t, ok, "equal timestamps are stale")

	ok, err = fs.IsUpToDate(dst)
	require.NoError(t, err)
	assert.True(t, ok, "no sources")
}

func TestModTimeMillis(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")
	stamp := time.UnixMilli(1_700_000_000_123)
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.txt"), stamp, stamp))

	ms, err := fs.ModTimeMillis(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000_123), ms)

	_, err = fs.ModTimeMillis(filepath.Join(root, "b.txt"))
	require.Error(t, err)

	assert.True(t, fs.IsFile(filepath.Join(root, "a.txt")))
	assert.False(t, fs.IsFile(root))
}
