// Package metrics records build measurements.
package metrics

import (
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Metrics = Noop{}

// Noop discards every measurement.
type Noop struct{}

// ObserveTask does nothing.
func (Noop) ObserveTask(string, time.Duration, domain.TaskOutcome) {}

// AddBuiltFiles does nothing.
func (Noop) AddBuiltFiles(string, int) {}

// AddDeletedPaths does nothing.
func (Noop) AddDeletedPaths(int) {}

// ObserveBuild does nothing.
func (Noop) ObserveBuild(time.Duration, domain.TaskOutcome) {}
