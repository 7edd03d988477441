// Package buildctx provides the per-run build context shared by every transform task.
package buildctx

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Task is a transform run against a build.
type Task interface {
	Name() string
	Run(ctx context.Context, b *Build) error
}

// Services are the collaborators a build uses.
// Telemetry and Metrics are optional.
type Services struct {
	Logger    ports.Logger
	Store     ports.StateStore
	Resolver  ports.Resolver
	Walker    ports.Walker
	Telemetry ports.Telemetry
	Metrics   ports.Metrics
}

// Build is the context of a single build run.
// Paths are absolute, cleaned, slash-separated and have no trailing slash.
type Build struct {
	RootPath   string
	SrcPath    string
	DstPath    string
	StateFile  string
	Rebuild    bool
	Release    bool
	Flavor     string
	Lint       bool
	DiagOutput bool
	SourceMap  *domain.SourceMap
	Paths      map[string]string

	svc    Services
	errors atomic.Int64
	built  atomic.Int64
	total  atomic.Int64

	mu      sync.Mutex
	state   map[string]*domain.TaskState
	targets *domain.TargetNode
	vertex  ports.Vertex
}

// New creates a build from cfg, loading the persisted state of the previous run.
// SrcPath and DstPath must resolve below RootPath.
// The state is discarded and a full rebuild forced when the persisted global settings differ.
func New(cfg domain.GlobalConfig, svc Services) (*Build, error) {
	if cfg.DstPath == "" {
		return nil, domain.ErrMissingDstPath
	}
	if svc.Telemetry == nil {
		svc.Telemetry = telemetry.NewNoop()
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.Noop{}
	}

	root := fs.Join(cfg.RootPath)
	b := &Build{
		RootPath:   root,
		SrcPath:    fs.Join(root, cfg.SrcPath),
		DstPath:    fs.Join(root, cfg.DstPath),
		Rebuild:    cfg.Rebuild,
		DiagOutput: cfg.DiagOutput,
		Paths:      make(map[string]string, len(cfg.Paths)),
		svc:        svc,
		state:      make(map[string]*domain.TaskState),
		targets:    domain.NewTargetTree(),
	}

	if !fs.Within(root, b.SrcPath) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "src_path outside root_path"), "path", b.SrcPath)
	}
	if !fs.Within(root, b.DstPath) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "dst_path outside root_path"), "path", b.DstPath)
	}

	b.StateFile = cfg.StateFile
	if b.StateFile == "" {
		b.StateFile = b.DstPath + "/" + domain.DefaultStateFileName
	}
	b.StateFile = fs.Join(root, b.StateFile)

	if cfg.Release != nil {
		b.Release = *cfg.Release
	}
	b.Lint = b.Release
	if cfg.Lint != nil {
		b.Lint = *cfg.Lint
	}
	if cfg.Flavor != nil {
		b.Flavor = *cfg.Flavor
	}

	if cfg.SourceMapPath != "" {
		sm := &domain.SourceMap{
			Path:         fs.Join(b.SrcPath, cfg.SourceMapPath),
			Root:         cfg.SourceMapRoot,
			InlineSource: !b.Release,
		}
		if sm.Root == "" {
			sm.Root = domain.DefaultSourceMapRoot
		}
		if cfg.SourceMapInlineSource != nil {
			sm.InlineSource = *cfg.SourceMapInlineSource
		}
		b.SourceMap = sm
	}

	for alias, p := range cfg.Paths {
		b.Paths[alias] = fs.Join(root, p)
	}

	b.loadState()
	return b, nil
}

// Settings returns the snapshot of the global settings persisted with the state.
func (b *Build) Settings() domain.GlobalSettings {
	s := domain.GlobalSettings{
		Release: b.Release,
		Flavor:  b.Flavor,
		Lint:    b.Lint,
	}
	if b.SourceMap != nil {
		s.SourceMapPath = b.SourceMap.Path
		s.SourceMapRoot = b.SourceMap.Root
	}
	return s
}

func (b *Build) loadState() {
	var persisted *domain.StateFile
	if !b.Rebuild {
		loaded, err := b.svc.Store.Load(b.StateFile)
		if err != nil {
			b.svc.Logger.Warn("Reading statefile failed: " + err.Error())
		}
		persisted = loaded
	}

	var changed []string
	switch {
	case b.Rebuild:
		changed = []string{"rebuild"}
	case persisted == nil || persisted.Global == nil:
		changed = []string{"state"}
	default:
		changed = persisted.Global.Diff(b.Settings())
	}

	if len(changed) > 0 {
		b.svc.Logger.Info("Build: full rebuild (" + strings.Join(changed, ", ") + ")")
		b.Rebuild = true
		return
	}

	for name, ts := range persisted.Tasks {
		b.state[name] = ts
	}
}

// State returns the persisted state of the named task.
// It is empty while rebuilding and never nil.
func (b *Build) State(name string) *domain.TaskState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ts := b.state[name]; ts != nil {
		return ts
	}
	return &domain.TaskState{}
}

// SetState replaces the state persisted for the named task.
func (b *Build) SetState(name string, ts *domain.TaskState) {
	if ts == nil {
		ts = &domain.TaskState{}
	}
	ts.Sort()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state[name] = ts
}

// DefineDstFile declares paths as live outputs of this run.
// Paths outside the destination directory are ignored.
func (b *Build) DefineDstFile(paths ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range paths {
		if p == "" {
			continue
		}
		segments, ok := fs.Segments(b.DstPath, fs.Join(p))
		if !ok {
			continue
		}
		if err := b.targets.Define(segments); err != nil {
			return err
		}
	}
	return nil
}

// Targets returns the number of outputs declared live so far.
func (b *Build) Targets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.targets.Len()
}

// ResolveAlias expands a "$name/rest" path using the configured path aliases.
func (b *Build) ResolveAlias(p string) (string, error) {
	name, rest, _ := strings.Cut(strings.TrimPrefix(p, "$"), "/")
	base, ok := b.Paths[name]
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownAlias, "$"+name), "path", p)
	}
	if rest == "" {
		return base, nil
	}
	return base + "/" + rest, nil
}

// ResolvePath resolves p against base, expanding a leading alias.
func (b *Build) ResolvePath(base, p string) (string, error) {
	if strings.HasPrefix(p, "$") {
		return b.ResolveAlias(p)
	}
	return fs.Join(base, p), nil
}

// SourceMapURL returns the URL under which src is published in source maps.
func (b *Build) SourceMapURL(src string) string {
	if b.SourceMap == nil {
		return src
	}
	return b.SourceMap.Root + fs.Rel(b.SourceMap.Path, src)
}

// Errors returns the number of errors logged so far.
func (b *Build) Errors() int {
	return int(b.errors.Load())
}

// Built returns the number of files regenerated by all tasks so far.
func (b *Build) Built() int {
	return int(b.total.Load())
}
