package reconciler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o600))
	}
}

func liveTree(t *testing.T, paths ...string) *domain.TargetNode {
	t.Helper()
	tree := domain.NewTargetTree()
	for _, p := range paths {
		segs, ok := fs.Segments("/", "/"+p)
		require.True(t, ok)
		require.NoError(t, tree.Define(segs))
	}
	return tree
}

func TestReconciler_DeletesStaleEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	root := filepath.ToSlash(t.TempDir())
	writeTree(t, root, "keep.js", "old.js", "js/app.js", "js/stale.js", "gone/x/y.js")

	r := reconciler.New(fs.NewWalker(), logger)
	require.NoError(t, r.Scan(root, liveTree(t, "keep.js", "js/app.js")))

	files, dirs := r.Pending()
	assert.Equal(t, []string{root + "/gone/x/y.js", root + "/js/stale.js", root + "/old.js"}, files)
	assert.Equal(t, []string{root + "/gone", root + "/gone/x"}, dirs)

	deleted, err := r.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)

	assert.FileExists(t, filepath.Join(root, "keep.js"))
	assert.FileExists(t, filepath.Join(root, "js", "app.js"))
	assert.NoFileExists(t, filepath.Join(root, "old.js"))
	assert.NoFileExists(t, filepath.Join(root, "js", "stale.js"))
	assert.NoDirExists(t, filepath.Join(root, "gone"))
}

func TestReconciler_FileReplacedByDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	root := filepath.ToSlash(t.TempDir())
	writeTree(t, root, "app/index.js")

	// "app" is declared as a file now, so the directory and its contents are stale.
	r := reconciler.New(fs.NewWalker(), logger)
	require.NoError(t, r.Scan(root, liveTree(t, "app")))

	files, dirs := r.Pending()
	assert.Equal(t, []string{root + "/app/index.js"}, files)
	assert.Equal(t, []string{root + "/app"}, dirs)
}

func TestReconciler_DirectoryReplacedByFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	root := filepath.ToSlash(t.TempDir())
	writeTree(t, root, "app")

	r := reconciler.New(fs.NewWalker(), logger)
	require.NoError(t, r.Scan(root, liveTree(t, "app/index.js")))

	files, dirs := r.Pending()
	assert.Equal(t, []string{root + "/app"}, files)
	assert.Empty(t, dirs)
}

func TestReconciler_SafetyValve(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	writeTree(t, root, "a", "b", "c", "d")

	r := reconciler.New(fs.NewWalker(), logger, reconciler.WithLimit(3))
	require.NoError(t, r.Scan(root, domain.NewTargetTree()))

	deleted, err := r.Reconcile()
	require.ErrorIs(t, err, domain.ErrTooManyDeletions)
	assert.Zero(t, deleted)
	assert.FileExists(t, filepath.Join(root, "a"))
}

func TestReconciler_ExactlyAtLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	writeTree(t, root, "a", "b", "c")

	r := reconciler.New(fs.NewWalker(), logger, reconciler.WithLimit(3))
	require.NoError(t, r.Scan(root, domain.NewTargetTree()))

	deleted, err := r.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
}

func TestReconciler_DiagnosticsLogDeletions(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info("old.js: delete").Times(1)
	logger.EXPECT().Info("css: delete").Times(1)

	root := t.TempDir()
	writeTree(t, root, "old.js")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "css"), 0o750))

	r := reconciler.New(fs.NewWalker(), logger, reconciler.WithDiagnostics(true))
	require.NoError(t, r.Scan(root, domain.NewTargetTree()))

	_, err := r.Reconcile()
	require.NoError(t, err)
}

func TestReconciler_MissingRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	r := reconciler.New(fs.NewWalker(), logger)
	require.NoError(t, r.Scan(filepath.Join(t.TempDir(), "missing"), domain.NewTargetTree()))

	deleted, err := r.Reconcile()
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
