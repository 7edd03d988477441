package ports

import (
	"time"

	"go.trai.ch/kiln/internal/core/domain"
)

// Metrics records build measurements.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	ObserveTask(task string, d time.Duration, outcome domain.TaskOutcome)
	AddBuiltFiles(task string, n int)
	AddDeletedPaths(n int)
	ObserveBuild(d time.Duration, outcome domain.TaskOutcome)
}
