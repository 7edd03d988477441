// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts recording a new vertex for a task run.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
