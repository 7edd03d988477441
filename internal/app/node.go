package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/statestore"         //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/buildctx"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ServicesNodeID is the unique identifier for the build services Graft node.
	ServicesNodeID graft.ID = "app.services"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[buildctx.Services]{
		ID:        ServicesNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			statestore.NodeID,
			fs.ResolverNodeID,
			fs.WalkerNodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: runServicesNode,
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			ServicesNodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			services, err := graft.Dep[buildctx.Services](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, services, w), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
			metrics.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runServicesNode(ctx context.Context) (buildctx.Services, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	store, err := graft.Dep[ports.StateStore](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	resolver, err := graft.Dep[ports.Resolver](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	walker, err := graft.Dep[ports.Walker](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	prom, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return buildctx.Services{}, err
	}

	return buildctx.Services{
		Logger:    log,
		Store:     store,
		Resolver:  resolver,
		Walker:    walker,
		Telemetry: tel,
		Metrics:   prom,
	}, nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	prom, err := graft.Dep[*metrics.Prometheus](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: tel,
		Metrics:   prom,
	}, nil
}
