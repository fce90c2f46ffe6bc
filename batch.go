package furthest

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FindBatch evaluates every query independently through find and collects
// the results into a Solution. Queries run in parallel, bounded by
// GOMAXPROCS; each task only reads shared state and writes to its own
// result slot. The first failing query fails the whole batch.
//
// Strategies implement their FindBatch method in terms of this helper,
// passing their single-query entry point.
func FindBatch[T comparable](ctx context.Context, find func(context.Context, T, int) ([]T, error), queries []T, k int) (Solution[T], error) {
	if len(queries) == 0 {
		return nil, ErrEmptyQuery
	}

	results := make([][]T, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			r, err := find(ctx, q, k)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	solution := make(Solution[T], len(queries))
	for i, q := range queries {
		solution[q] = results[i]
	}

	return solution, nil
}
