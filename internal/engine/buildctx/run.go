package buildctx

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/reconciler"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// RunTask runs task against the build.
// An error returned by the task is logged as "<name> failed: <message>" and counted;
// it never stops the build.
func (b *Build) RunTask(ctx context.Context, task Task) {
	name := task.Name()
	start := time.Now()
	before := b.Errors()
	b.built.Store(0)

	ctx, vertex := b.svc.Telemetry.Record(ctx, name)
	b.setVertex(vertex)

	if err := runSafe(ctx, b, task); err != nil {
		b.LogError(zerr.Wrap(err, name+" failed"))
	}
	b.setVertex(nil)

	failed := b.Errors() - before
	built := int(b.built.Load())
	outcome := domain.ResolveOutcome(failed, built)

	switch outcome {
	case domain.TaskOutcomeFailed:
		vertex.Complete(zerr.With(zerr.New("task logged errors"), "errors", failed))
	case domain.TaskOutcomeCached:
		vertex.Cached()
		vertex.Complete(nil)
	default:
		vertex.Complete(nil)
	}

	b.svc.Metrics.ObserveTask(name, time.Since(start), outcome)
	b.svc.Metrics.AddBuiltFiles(name, built)
}

func runSafe(ctx context.Context, b *Build, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.New(fmt.Sprintf("panic: %v", r))
		}
	}()
	return task.Run(ctx, b)
}

// Parallel runs handler over items with at most limit in flight.
// Every failure is logged as "<identity>: build handler failed: <message>" and counted.
// It returns the number of failed items.
func Parallel[T scheduler.Item](ctx context.Context, b *Build, items []T, limit int, handler scheduler.Handler[T]) int {
	failures := scheduler.Failures(scheduler.Run(ctx, items, limit, handler))
	for _, f := range failures {
		b.LogError(zerr.Wrap(f.Err, f.Item.Identity()+": build handler failed"))
	}
	return len(failures)
}

// CheckTarget deletes the files in the destination directory that no task declared in this run.
// Failures are logged and leave the directory untouched for the next run.
func (b *Build) CheckTarget() {
	b.mu.Lock()
	live := b.targets
	b.mu.Unlock()

	r := reconciler.New(b.svc.Walker, b.svc.Logger, reconciler.WithDiagnostics(b.DiagOutput))
	if err := r.Scan(b.DstPath, live); err != nil {
		b.svc.Logger.Warn("Cleanup of target failed: " + err.Error())
		return
	}

	deleted, err := r.Reconcile()
	b.svc.Metrics.AddDeletedPaths(deleted)
	if err != nil {
		b.svc.Logger.Warn("Cleanup of target failed: " + err.Error())
	}
}

// SaveState declares the state file as live and persists the global settings with every task state.
// Failures are logged.
func (b *Build) SaveState() {
	if err := b.DefineDstFile(b.StateFile); err != nil {
		b.svc.Logger.Warn("Writing statefile failed: " + err.Error())
		return
	}

	settings := b.Settings()
	file := domain.NewStateFile()
	file.Global = &settings

	b.mu.Lock()
	for name, ts := range b.state {
		file.Tasks[name] = ts
	}
	b.mu.Unlock()

	if err := b.svc.Store.Save(b.StateFile, file); err != nil {
		b.svc.Logger.Warn("Writing statefile failed: " + err.Error())
	}
}
