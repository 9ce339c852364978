// Package parallel provides the worker pool used to evaluate independent partitions concurrently.
//
// Work items are fanned out to at most numWorkers goroutines through an errgroup.
// The first failing item cancels the shared context, remaining items are skipped
// and the first error is returned to the caller.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds the number of goroutines used for parallel processing
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a new worker pool. A non-positive size uses runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
	}
}

// Workers returns the maximum number of concurrent work items
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// ForEach runs worker for every item with at most wp.Workers() items in flight.
// It returns the first error reported by a worker or by ctx.
func ForEach[T any](
	ctx context.Context,
	wp *WorkerPool,
	items []T,
	worker func(context.Context, int, T) error,
) error {
	if len(items) == 0 {
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return worker(gctx, i, item)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// ProcessIndexed executes work items in parallel while preserving order
func ProcessIndexed[T, R any](
	ctx context.Context,
	wp *WorkerPool,
	items []T,
	worker func(context.Context, int, T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, ctx.Err()
	}

	results := make([]R, len(items))
	err := ForEach(ctx, wp, items, func(ctx context.Context, index int, item T) error {
		result, err := worker(ctx, index, item)
		if err != nil {
			return err
		}
		results[index] = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
