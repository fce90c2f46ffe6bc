// Package exact provides the full-scan exact solver for the
// k-furthest-neighbors problem. Every query evaluates the distance to all
// universe items and keeps the k greatest via bounded top-k selection.
package exact

import (
	"context"

	furthest "github.com/TheChocolateOre/furthest-items"
	"github.com/TheChocolateOre/furthest-items/topk"
)

// Compile-time check to ensure Exact satisfies the strategy contract.
var _ furthest.Strategy[int] = (*Exact[int])(nil)

// Options contains configuration options for the exact strategy.
type Options struct {
	// Logger receives debug records for queries. Defaults to a no-op
	// logger.
	Logger *furthest.Logger
}

// DefaultOptions contains the default configuration options for the exact
// strategy.
var DefaultOptions = Options{
	Logger: furthest.NoopLogger(),
}

// Exact is the brute-force strategy: no preprocessing, lazy full scans.
// The universe and the distance function are replaceable in place.
type Exact[T comparable] struct {
	universe []T
	distance furthest.DistanceFunc[T]
	logger   *furthest.Logger
}

// New creates an Exact strategy over the given universe and distance
// function, ready to accept queries.
func New[T comparable](universe []T, distance furthest.DistanceFunc[T], optFns ...func(o *Options)) (*Exact[T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(universe) == 0 {
		return nil, furthest.ErrEmptyUniverse
	}

	return &Exact[T]{
		universe: universe,
		distance: distance,
		logger:   opts.Logger.WithStrategy("exact"),
	}, nil
}

type scored[T any] struct {
	item T
	dist float32
}

// Find returns the k universe items most distant from query.
func (e *Exact[T]) Find(ctx context.Context, query T, k int) ([]T, error) {
	if k < 1 || k > len(e.universe) {
		err := &furthest.ErrInvalidK{K: k, Max: len(e.universe)}
		e.logger.LogFind(ctx, k, len(e.universe), err)
		return nil, err
	}

	candidates := make([]scored[T], len(e.universe))
	for i, item := range e.universe {
		d, err := e.distance(item, query)
		if err != nil {
			e.logger.LogFind(ctx, k, len(e.universe), err)
			return nil, err
		}
		candidates[i] = scored[T]{item: item, dist: d}
	}

	top, err := topk.MaxK(candidates, func(a, b scored[T]) bool {
		return a.dist < b.dist
	}, k)
	if err != nil {
		return nil, err
	}

	result := make([]T, len(top))
	for i, c := range top {
		result[i] = c.item
	}

	e.logger.LogFind(ctx, k, len(e.universe), nil)

	return result, nil
}

// FindBatch evaluates each query independently, in parallel.
func (e *Exact[T]) FindBatch(ctx context.Context, queries []T, k int) (furthest.Solution[T], error) {
	return furthest.FindBatch(ctx, e.Find, queries, k)
}

// Universe returns the current reference items.
func (e *Exact[T]) Universe() []T {
	return e.universe
}

// SetUniverse replaces the reference items. It takes effect on the next
// query; no precomputation is needed.
func (e *Exact[T]) SetUniverse(universe []T) error {
	if len(universe) == 0 {
		return furthest.ErrEmptyUniverse
	}
	e.universe = universe
	return nil
}

// SetDistanceFunc replaces the distance function (premetric).
func (e *Exact[T]) SetDistanceFunc(distance furthest.DistanceFunc[T]) {
	e.distance = distance
}
