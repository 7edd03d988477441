package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestWatchPaths(t *testing.T) {
	specs := []domain.BuildSpec{
		{Global: domain.GlobalConfig{RootPath: "/site", DstPath: "public"}},
		{Global: domain.GlobalConfig{RootPath: "/site", DstPath: "admin/public", StateFile: "cache/admin.state"}},
	}

	roots, outputs := watchPaths(specs)
	assert.Equal(t, []string{"/site"}, roots)
	assert.Equal(t, []string{"/site/public", "/site/admin/public", "/site/cache/admin.state"}, outputs)

	assert.True(t, below("/site/public/js/app.js", outputs))
	assert.True(t, below("/site/cache/admin.state", outputs))
	assert.False(t, below("/site/publicity/x", outputs))
	assert.False(t, below("/site/src/index.html", outputs))
}
