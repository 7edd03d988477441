// Package config provides the build file loader for kiln.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the build file looked up when none is given.
const DefaultFileName = "kiln.yaml"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
// A file may hold several documents, each describing one build.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the build file at path.
// A relative or empty root_path is resolved against the directory of the file.
func (l *Loader) Load(path string) ([]domain.BuildSpec, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, zerr.Wrap(domain.ErrConfigNotFound, path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var specs []domain.BuildSpec
	for n := 1; ; n++ {
		var doc Buildfile
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
			return nil, zerr.With(err, "document", n)
		}

		spec, err := toSpec(path, doc)
		if err != nil {
			return nil, zerr.With(zerr.With(err, "path", path), "document", n)
		}
		if spec.Empty() {
			l.Logger.Warn(fmt.Sprintf("%s: build %d configures no tasks", path, n))
		}
		specs = append(specs, spec)
	}

	if len(specs) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "build file declares no build"), "path", path)
	}
	return specs, nil
}

func toSpec(configPath string, doc Buildfile) (domain.BuildSpec, error) {
	g := doc.Global
	if g.DstPath == "" {
		return domain.BuildSpec{}, domain.ErrMissingDstPath
	}

	spec := domain.BuildSpec{
		Global: domain.GlobalConfig{
			RootPath:              resolveRoot(configPath, g.RootPath),
			SrcPath:               g.SrcPath,
			DstPath:               g.DstPath,
			StateFile:             g.StateFile,
			Rebuild:               g.Rebuild,
			Release:               g.Release,
			Flavor:                g.Flavor,
			Lint:                  g.Lint,
			DiagOutput:            g.DiagOutput,
			SourceMapPath:         g.SourceMapPath,
			SourceMapRoot:         g.SourceMapRoot,
			SourceMapInlineSource: g.SourceMapInlineSrc,
			Paths:                 g.Paths,
		},
		Touch: doc.Touch,
	}

	for _, c := range doc.Concat {
		spec.Concat = append(spec.Concat, domain.ConcatItem{BuildItem: c.toItem(), Separator: c.Separator})
	}

	for _, r := range doc.Replace {
		if len(r.Replace) == 0 {
			return domain.BuildSpec{}, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "replace list missing"), "dst", r.Dst)
		}
		item := domain.ReplaceItem{BuildItem: r.toItem()}
		for _, rep := range r.Replace {
			item.Replace = append(item.Replace, domain.Replacer{From: rep.From, To: rep.To, ToFile: rep.ToFile})
		}
		spec.Replace = append(spec.Replace, item)
	}

	for _, c := range doc.Copy {
		spec.Copy = append(spec.Copy, c.toItem())
	}

	for _, m := range doc.Manifest {
		if m.Dst == "" {
			return domain.BuildSpec{}, zerr.Wrap(domain.ErrInvalidConfig, "manifest dst missing")
		}
		spec.Manifest = append(spec.Manifest, domain.ManifestItem{Dst: m.Dst, Cache: m.Cache})
	}

	return spec, nil
}

func (d ItemDTO) toItem() domain.BuildItem {
	item := domain.BuildItem{Dst: d.Dst, AllowUserOverride: d.AllowUserOverride}
	for _, f := range d.Src.Filters {
		item.Src.Filters = append(item.Src.Filters, domain.SrcFilter{
			Base:    f.Base,
			Pattern: f.Pattern,
			Target:  f.Target,
		})
	}
	return item
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		configDir = filepath.Dir(configPath)
	}
	if configuredRoot == "" {
		return filepath.ToSlash(filepath.Clean(configDir))
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.ToSlash(filepath.Clean(configuredRoot))
	}
	return filepath.ToSlash(filepath.Clean(filepath.Join(configDir, configuredRoot)))
}
