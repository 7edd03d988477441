package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of task runs.
type Telemetry interface {
	// Record starts a vertex for the named unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	Stdout() io.Writer
	Stderr() io.Writer
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex done, failed when err is non-nil.
	Complete(err error)
	// Cached marks the vertex as having had nothing to do.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
