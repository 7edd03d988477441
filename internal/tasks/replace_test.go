package tasks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/tasks"
)

func replaceTask(version string) tasks.Replace {
	return tasks.Replace{Items: []domain.ReplaceItem{{
		BuildItem: domain.BuildItem{Src: domain.Patterns("*.html")},
		Replace: []domain.Replacer{
			{From: "{{version}}", To: version},
			{From: "{{footer}}", ToFile: "partials/footer.txt"},
		},
	}}}
}

func TestReplace(t *testing.T) {
	root := filepath.ToSlash(t.TempDir())
	writeFiles(t, root+"/src",
		"index.html", "<p>{{version}}</p>{{footer}}<i>{{version}}</i>",
		"partials/footer.txt", "(c) kiln",
	)
	cfg := domain.GlobalConfig{RootPath: root}

	b, _ := build(t, cfg, replaceTask("1.0"))
	require.Zero(t, b.Errors())
	assert.Equal(t, "<p>1.0</p>(c) kiln<i>1.0</i>", readFile(t, root+"/dst/index.html"))

	// Unchanged inputs and options leave the destination alone.
	require.NoError(t, os.WriteFile(root+"/dst/index.html", []byte("tampered"), 0o600))
	build(t, cfg, replaceTask("1.0"))
	assert.Equal(t, "tampered", readFile(t, root+"/dst/index.html"))

	// Changed replacer options rebuild.
	build(t, cfg, replaceTask("2.0"))
	assert.Equal(t, "<p>2.0</p>(c) kiln<i>2.0</i>", readFile(t, root+"/dst/index.html"))

	// A newer replacement file rebuilds.
	require.NoError(t, os.WriteFile(root+"/dst/index.html", []byte("tampered"), 0o600))
	require.NoError(t, os.WriteFile(root+"/src/partials/footer.txt", []byte("(c) 2026"), 0o600))
	future(t, root+"/src/partials/footer.txt")
	build(t, cfg, replaceTask("2.0"))
	assert.Equal(t, "<p>2.0</p>(c) 2026<i>2.0</i>", readFile(t, root+"/dst/index.html"))
}

func TestReplace_MissingReplaceList(t *testing.T) {
	root := filepath.ToSlash(t.TempDir())
	writeFiles(t, root+"/src", "index.html", "x")

	b, logs := build(t, domain.GlobalConfig{RootPath: root}, tasks.Replace{Items: []domain.ReplaceItem{{
		BuildItem: domain.BuildItem{Src: domain.Patterns("index.html")},
	}}})
	assert.Equal(t, 1, b.Errors())
	assert.Contains(t, logs, "replace failed")
	assert.Contains(t, logs, "replace list missing")
}
