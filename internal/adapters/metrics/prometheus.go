package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "kiln"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implements ports.Metrics using Prometheus collectors.
type Prometheus struct {
	reg           *prom.Registry
	taskDuration  *prom.HistogramVec
	taskOutcomes  *prom.CounterVec
	builtFiles    *prom.CounterVec
	deletedPaths  prom.Counter
	buildDuration prom.Histogram
	buildOutcomes *prom.CounterVec
}

// NewPrometheus constructs the collectors and registers them on reg, or on a fresh registry when nil.
func NewPrometheus(reg *prom.Registry) *Prometheus {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	p := &Prometheus{
		reg: reg,
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of individual task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_outcomes_total",
			Help:      "Task runs by outcome",
		}, []string{"task", "outcome"}),
		builtFiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "built_files_total",
			Help:      "Output files regenerated by task",
		}, []string{"task"}),
		deletedPaths: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_deleted_paths_total",
			Help:      "Stale output files and directories removed",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Builds by final outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(p.taskDuration, p.taskOutcomes, p.builtFiles, p.deletedPaths, p.buildDuration, p.buildOutcomes)
	return p
}

// Registry returns the registry holding the collectors.
func (p *Prometheus) Registry() *prom.Registry {
	return p.reg
}

// ObserveTask records the duration and outcome of one task run.
func (p *Prometheus) ObserveTask(task string, d time.Duration, outcome domain.TaskOutcome) {
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
	p.taskOutcomes.WithLabelValues(task, string(outcome)).Inc()
}

// AddBuiltFiles counts regenerated outputs.
func (p *Prometheus) AddBuiltFiles(task string, n int) {
	if n > 0 {
		p.builtFiles.WithLabelValues(task).Add(float64(n))
	}
}

// AddDeletedPaths counts entries removed by the reconciler.
func (p *Prometheus) AddDeletedPaths(n int) {
	if n > 0 {
		p.deletedPaths.Add(float64(n))
	}
}

// ObserveBuild records the duration and outcome of a whole build.
func (p *Prometheus) ObserveBuild(d time.Duration, outcome domain.TaskOutcome) {
	p.buildDuration.Observe(d.Seconds())
	p.buildOutcomes.WithLabelValues(string(outcome)).Inc()
}

// WriteFile writes the current values in the Prometheus text format, for node_exporter's textfile collector.
func (p *Prometheus) WriteFile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics file"), "path", path)
	}
	return nil
}
