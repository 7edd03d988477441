package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullDocument(t *testing.T) {
	path := writeConfig(t, `
global:
  src_path: src
  dst_path: dist
  release: true
  flavor: mobile
  paths:
    lib: node_modules/lib
  sourcemap_path: ts
  sourcemap_inlinesrc: false
concat:
  - src: [js/a.js, js/b.js]
    dst: js/bundle.js
    separator: "\n"
replace:
  - src: "*.html"
    replace:
      - {from: "{{version}}", to: "1.0"}
      - {from: "{{footer}}", to_file: partials/footer.html}
copy:
  - src: img/**/*
    dst: img/
  - src:
      base: $lib/dist
      pattern: ["*.js", "!*.min.js"]
      target: vendor
    allow_user_override: true
  - src:
      - {base: fonts, pattern: "*.woff2"}
      - {base: icons, pattern: "*.svg", target: icons}
manifest:
  - dst: offline.appcache
    cache: ["**/*.js", "**/*.css"]
touch: "*.html"
`)
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	specs, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	spec := specs[0]

	g := spec.Global
	assert.Equal(t, filepath.ToSlash(filepath.Dir(path)), g.RootPath)
	assert.Equal(t, "src", g.SrcPath)
	assert.Equal(t, "dist", g.DstPath)
	require.NotNil(t, g.Release)
	assert.True(t, *g.Release)
	require.NotNil(t, g.Flavor)
	assert.Equal(t, "mobile", *g.Flavor)
	assert.Nil(t, g.Lint)
	assert.Equal(t, map[string]string{"lib": "node_modules/lib"}, g.Paths)
	require.NotNil(t, g.SourceMapInlineSource)
	assert.False(t, *g.SourceMapInlineSource)

	require.Len(t, spec.Concat, 1)
	assert.Equal(t, domain.Patterns("js/a.js", "js/b.js"), spec.Concat[0].Src)
	assert.Equal(t, "\n", spec.Concat[0].Separator)

	require.Len(t, spec.Replace, 1)
	assert.Equal(t, []domain.Replacer{
		{From: "{{version}}", To: "1.0"},
		{From: "{{footer}}", ToFile: "partials/footer.html"},
	}, spec.Replace[0].Replace)

	require.Len(t, spec.Copy, 3)
	assert.Equal(t, domain.BuildItem{Src: domain.Patterns("img/**/*"), Dst: "img/"}, spec.Copy[0])
	assert.Equal(t, domain.BuildItem{
		Src: domain.SourceSpec{Filters: []domain.SrcFilter{
			{Base: "$lib/dist", Pattern: []string{"*.js", "!*.min.js"}, Target: "vendor"},
		}},
		AllowUserOverride: true,
	}, spec.Copy[1])
	assert.Equal(t, []domain.SrcFilter{
		{Base: "fonts", Pattern: []string{"*.woff2"}},
		{Base: "icons", Pattern: []string{"*.svg"}, Target: "icons"},
	}, spec.Copy[2].Src.Filters)

	assert.Equal(t, []domain.ManifestItem{{Dst: "offline.appcache", Cache: []string{"**/*.js", "**/*.css"}}}, spec.Manifest)
	assert.Equal(t, []string{"*.html"}, spec.Touch)
}

func TestLoad_MultipleDocuments(t *testing.T) {
	path := writeConfig(t, `
global:
  root_path: web
  dst_path: out
copy:
  - src: "*"
---
global:
  root_path: /srv/site
  dst_path: out
touch: ["*.html"]
`)
	ctrl := gomock.NewController(t)
	specs, err := config.NewLoader(mocks.NewMockLogger(ctrl)).Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, filepath.ToSlash(filepath.Join(filepath.Dir(path), "web")), specs[0].Global.RootPath)
	assert.Equal(t, "/srv/site", specs[1].Global.RootPath)
}

func TestLoad_WarnsOnEmptyBuild(t *testing.T) {
	path := writeConfig(t, "global:\n  dst_path: out\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	specs, err := config.NewLoader(log).Load(path)
	require.NoError(t, err)
	assert.Len(t, specs, 1)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing dst", "global:\n  src_path: src\n", domain.ErrMissingDstPath.Error()},
		{"unknown field", "global:\n  dst_path: out\n  dstpath: x\n", domain.ErrConfigRead.Error()},
		{"mixed src", "global:\n  dst_path: out\ncopy:\n  - src: [a, {pattern: b}]\n", "invalid src"},
		{"bad src", "global:\n  dst_path: out\ncopy:\n  - src: [[a]]\n", "invalid src"},
		{"replace without list", "global:\n  dst_path: out\nreplace:\n  - src: a\n", "replace list missing"},
		{"manifest without dst", "global:\n  dst_path: out\nmanifest:\n  - cache: a\n", "manifest dst missing"},
		{"no documents", "# nothing\n", "build file declares no build"},
		{"malformed", "global: [\n", domain.ErrConfigRead.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			_, err := config.NewLoader(mocks.NewMockLogger(ctrl)).Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := config.NewLoader(mocks.NewMockLogger(ctrl)).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}
