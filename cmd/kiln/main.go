// Package main is the entry point for the kiln asset builder.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/cmd/kiln/commands"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	_ "go.trai.ch/kiln/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Telemetry.Close() }, nil
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 2. Interface - CLI
	var opts []commands.Option
	if sink, ok := components.Logger.(commands.LogSink); ok {
		opts = append(opts, commands.WithLogger(sink))
	}
	if components.Metrics != nil {
		opts = append(opts, commands.WithMetrics(components.Metrics))
	}
	cli := commands.New(components.App, opts...)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
