package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the directory walker node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ResolverNodeID is the unique identifier for the glob resolver node.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
)

func init() {
	graft.Register(graft.Node[ports.Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Resolver, error) {
			return NewResolver(), nil
		},
	})
}
