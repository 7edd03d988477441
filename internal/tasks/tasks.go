// Package tasks implements the transforms a build file can configure.
package tasks

import (
	"slices"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

// Task names, also used as state file keys.
const (
	ConcatName   = "concat"
	ReplaceName  = "replace"
	CopyName     = "copy"
	ManifestName = "manifest"
	TouchName    = "touch"
)

const (
	concatLimit  = 1
	replaceLimit = 4
	copyLimit    = 8
)

// FromSpec returns the tasks configured in spec, in execution order.
func FromSpec(spec domain.BuildSpec) []buildctx.Task {
	var out []buildctx.Task
	if len(spec.Concat) > 0 {
		out = append(out, Concat{Items: spec.Concat})
	}
	if len(spec.Replace) > 0 {
		out = append(out, Replace{Items: spec.Replace})
	}
	if len(spec.Copy) > 0 {
		out = append(out, Copy{Items: spec.Copy})
	}
	if len(spec.Manifest) > 0 {
		out = append(out, Manifest{Items: spec.Manifest})
	}
	if len(spec.Touch) > 0 {
		out = append(out, Touch{Patterns: spec.Touch})
	}
	return out
}

// current reports whether prev, the record of the previous run, still describes next
// and its output is strictly newer than every source and dependency.
func current(b *buildctx.Build, prev map[string]domain.Record, next domain.Record) bool {
	if b.Rebuild {
		return false
	}
	rec, ok := prev[next.Dst]
	if !ok || !rec.SameSource(next.Src...) || !slices.Equal(rec.Dependencies, next.Dependencies) {
		return false
	}
	if domain.Changed(rec.Options, next.Options) {
		return false
	}
	fresh, err := fs.IsUpToDate(next.Dst, slices.Concat(next.Src, next.Dependencies)...)
	return err == nil && fresh
}
