// Package scheduler runs batches of independent work items with bounded concurrency.
package scheduler

import (
	"context"
	"fmt"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Item is a unit of work with a stable name used in logs.
type Item interface {
	Identity() string
}

// Handler processes one item.
type Handler[T Item] func(ctx context.Context, item T) error

// Result is the settled outcome of one item.
type Result[T Item] struct {
	Item T
	Err  error
}

// Failed reports whether the item's handler failed.
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// Run processes items with at most limit handlers in flight and returns one result per item,
// in input order, once every item has settled.
// Items start in input order. A failing item never stops its siblings.
// Items not yet started when ctx is cancelled settle with the context error.
func Run[T Item](ctx context.Context, items []T, limit int, handler Handler[T]) []Result[T] {
	results := make([]Result[T], len(items))
	if len(items) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, item := range items {
		results[i].Item = item
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			// The slot may have been freed after cancellation.
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Err = invoke(ctx, item, handler)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// invoke runs handler, turning a panic into the item's error.
func invoke[T Item](ctx context.Context, item T, handler Handler[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.New(fmt.Sprintf("handler panicked: %v", r)), "item", item.Identity())
		}
	}()
	return handler(ctx, item)
}

// Failures returns the failed results, in input order.
func Failures[T Item](results []Result[T]) []Result[T] {
	var failed []Result[T]
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
