package app

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Watch runs every build once and again whenever a file below a build root changes.
// Changes below a destination directory are ignored. It returns when ctx is canceled.
func (a *App) Watch(ctx context.Context, opts BuildOptions, window time.Duration) error {
	specs, err := a.load(opts)
	if err != nil {
		return err
	}

	a.report(a.Run(ctx, specs...))
	// A forced rebuild applies to the first run only.
	for i := range specs {
		specs[i].Global.Rebuild = false
	}

	roots, outputs := watchPaths(specs)
	for _, root := range roots {
		if err := a.watcher.Start(ctx, root); err != nil {
			return zerr.Wrap(err, "failed to start watcher")
		}
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	changes := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(window, func(paths []string) {
		if !slices.ContainsFunc(paths, func(p string) bool { return !below(p, outputs) }) {
			return
		}
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.services.Logger.Info("Watching for changes...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			a.report(a.Run(ctx, specs...))
		}
	}
}

// report logs a run error that was not already logged by the build.
func (a *App) report(err error) {
	if err == nil || errors.Is(err, domain.ErrBuildFailed) || errors.Is(err, context.Canceled) {
		return
	}
	a.services.Logger.Error(err)
}

// watchPaths returns the distinct build roots and the destination directories of specs.
func watchPaths(specs []domain.BuildSpec) (roots, outputs []string) {
	for _, spec := range specs {
		root := fs.Join(spec.Global.RootPath)
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
		if spec.Global.DstPath != "" {
			outputs = append(outputs, fs.Join(root, spec.Global.DstPath))
		}
		if spec.Global.StateFile != "" {
			outputs = append(outputs, fs.Join(root, spec.Global.StateFile))
		}
	}
	return roots, outputs
}

func below(p string, dirs []string) bool {
	for _, dir := range dirs {
		if p == dir || strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	return false
}
