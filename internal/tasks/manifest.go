package tasks

import (
	"context"
	_ "crypto/sha256" // registers the digest algorithm
	"path"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

// Manifest writes offline cache manifests listing the files next to them.
type Manifest struct {
	Items []domain.ManifestItem
}

// Name returns the task name.
func (Manifest) Name() string { return ManifestName }

// Run regenerates a manifest whenever the set of cached files or their timestamps changed.
func (m Manifest) Run(_ context.Context, b *buildctx.Build) error {
	prev := b.State(ManifestName).Index()
	next := &domain.TaskState{}

	for _, item := range m.Items {
		dst := fs.Join(b.DstPath, item.Dst)
		cwd := path.Dir(dst)

		files, err := b.Glob(cwd, item.Cache...)
		if err != nil {
			return err
		}
		files = slices.DeleteFunc(files, func(f string) bool { return f == dst })

		if err := b.DefineDstFile(dst); err != nil {
			return err
		}

		rec := domain.Record{Dst: dst, Inputs: make([]domain.FileStamp, 0, len(files))}
		for _, f := range files {
			ts, err := fs.ModTimeMillis(f)
			if err != nil {
				return err
			}
			rec.Inputs = append(rec.Inputs, domain.FileStamp{Path: f, ModTime: ts})
		}
		next.Add(rec)

		old, ok := prev[dst]
		if !b.Rebuild && ok && fs.IsFile(dst) && !stampsChanged(old.Inputs, rec.Inputs) {
			continue
		}

		b.LogBuildFile(ManifestName, dst)
		if err := writeManifest(dst, cwd, files); err != nil {
			b.LogError(err)
		}
	}

	b.SetState(ManifestName, next)
	return nil
}

func stampsChanged(prev, cur []domain.FileStamp) bool {
	if len(prev) == 0 && len(cur) == 0 {
		return false
	}
	a, errA := domain.Snapshot(prev)
	c, errC := domain.Snapshot(cur)
	if errA != nil || errC != nil {
		return true
	}
	return domain.Changed(a, c)
}

// writeManifest leaves an existing manifest with identical content untouched.
func writeManifest(dst, cwd string, files []string) error {
	digester := digest.SHA256.Digester()
	names := make([]string, len(files))
	for i, f := range files {
		data, err := fs.ReadFile(f)
		if err != nil {
			return err
		}
		_, _ = digester.Hash().Write(data)
		names[i] = fs.Rel(cwd, f)
	}

	var sb strings.Builder
	sb.WriteString("CACHE MANIFEST\n\n")
	sb.WriteString("CACHE:\n")
	sb.WriteString(strings.Join(names, "\n"))
	sb.WriteString("\n\nNETWORK:\n*\n\n")
	sb.WriteString("#HASH: ")
	sb.WriteString(strings.ToUpper(digester.Digest().Encoded()))

	_, err := fs.WriteFile(dst, []byte(sb.String()), true)
	return err
}
