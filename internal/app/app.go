// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/buildctx"
	"go.trai.ch/kiln/internal/tasks"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	services     buildctx.Services
	watcher      ports.Watcher
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, services buildctx.Services, watcher ports.Watcher) *App {
	if services.Telemetry == nil {
		services.Telemetry = telemetry.NewNoop()
	}
	if services.Metrics == nil {
		services.Metrics = metrics.Noop{}
	}
	return &App{
		configLoader: loader,
		services:     services,
		watcher:      watcher,
	}
}

// Components contains the initialized application components.
type Components struct {
	App       *App
	Logger    ports.Logger
	Telemetry ports.Telemetry
	Metrics   *metrics.Prometheus
}

// BuildOptions configuration for the Build and Watch methods.
type BuildOptions struct {
	// ConfigPath is the build file to load.
	ConfigPath string
	Overrides  domain.Overrides
}

// Build loads the build file and runs every build it declares.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	specs, err := a.load(opts)
	if err != nil {
		return err
	}
	return a.Run(ctx, specs...)
}

func (a *App) load(opts BuildOptions) ([]domain.BuildSpec, error) {
	specs, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	for i := range specs {
		specs[i].Global = opts.Overrides.Apply(specs[i].Global)
	}
	return specs, nil
}

// Run executes the builds in order.
// Every build runs even when an earlier one failed. The returned error wraps
// domain.ErrBuildFailed when any build logged an error.
func (a *App) Run(ctx context.Context, specs ...domain.BuildSpec) error {
	start := time.Now()
	failed := 0
	built := 0

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}
		errs, files := a.runBuild(ctx, spec)
		failed += errs
		built += files
	}

	elapsed := time.Since(start)
	a.services.Metrics.ObserveBuild(elapsed, domain.ResolveOutcome(failed, built))

	if failed > 0 {
		a.services.Logger.Info(fmt.Sprintf("Build: failed (%d errors) in %.2f sec", failed, elapsed.Seconds()))
		return zerr.With(zerr.Wrap(domain.ErrBuildFailed, fmt.Sprintf("%d errors", failed)), "errors", failed)
	}
	a.services.Logger.Info(fmt.Sprintf("Build: done in %.2f sec", elapsed.Seconds()))
	return nil
}

// runBuild runs one build and returns its error and built file counts.
func (a *App) runBuild(ctx context.Context, spec domain.BuildSpec) (int, int) {
	b, err := buildctx.New(spec.Global, a.services)
	if err != nil {
		a.services.Logger.Error(zerr.Wrap(err, "build setup failed"))
		return 1, 0
	}

	for _, task := range tasks.FromSpec(spec) {
		if ctx.Err() != nil {
			break
		}
		b.RunTask(ctx, task)
	}

	if b.Errors() == 0 && ctx.Err() == nil {
		b.SaveState()
		b.CheckTarget()
	}
	return b.Errors(), b.Built()
}

// Clean removes the destination directory of every build.
func (a *App) Clean(_ context.Context, opts BuildOptions) error {
	specs, err := a.load(opts)
	if err != nil {
		return err
	}

	var errs error
	for _, spec := range specs {
		if spec.Global.DstPath == "" {
			errs = errors.Join(errs, domain.ErrMissingDstPath)
			continue
		}
		root := fs.Join(spec.Global.RootPath)
		dst := fs.Join(root, spec.Global.DstPath)
		if !fs.Within(root, dst) {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "dst_path outside root_path"), "path", dst))
			continue
		}

		a.services.Logger.Info(fmt.Sprintf("removing %s...", dst))
		if err := os.RemoveAll(dst); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "failed to remove "+dst))
			continue
		}
		a.services.Logger.Info(fmt.Sprintf("removed %s", dst))
	}
	return errs
}
