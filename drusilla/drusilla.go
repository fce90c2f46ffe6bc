// Package drusilla provides a quality-guaranteed approximate solver for
// the k-furthest-neighbors problem. An offline greedy pruning pass shrinks
// the universe to a reduced candidate set whose worst-case distortion is
// controlled by the approximation level e; queries then run exactly over
// the reduced set.
//
// Preprocessing pipeline: centroid -> centered vectors -> sort by norm ->
// threshold test -> greedy pivot/project/prune loop -> inner exact search.
// Smaller e yields a larger reduced set and a tighter bound.
package drusilla

import (
	"context"
	"errors"
	"math"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	furthest "github.com/TheChocolateOre/furthest-items"
	"github.com/TheChocolateOre/furthest-items/exact"
	"github.com/TheChocolateOre/furthest-items/internal/parallel"
	"github.com/TheChocolateOre/furthest-items/topk"
	"github.com/TheChocolateOre/furthest-items/vector"
)

// Compile-time check to ensure Drusilla satisfies the strategy contract.
var _ furthest.Strategy[int] = (*Drusilla[int])(nil)

// ErrDegenerateUniverse is returned when every universe item coincides
// with the centroid. Zero-norm items cannot participate in the geometric
// pruning, so no reduced set is definable.
var ErrDegenerateUniverse = errors.New("drusilla: every item coincides with the centroid")

// Options contains configuration options for the drusilla strategy.
type Options[T comparable] struct {
	// Distance is the premetric used by the inner exact search over the
	// reduced set. Defaults to the squared Euclidean distance between the
	// vector representations of the items.
	Distance furthest.DistanceFunc[T]

	// Logger receives debug records for preprocessing and queries.
	// Defaults to a no-op logger.
	Logger *furthest.Logger
}

// DefaultOptions returns the default configuration options for the
// drusilla strategy.
func DefaultOptions[T comparable]() Options[T] {
	return Options[T]{
		Logger: furthest.NoopLogger(),
	}
}

// Drusilla shrinks the search domain to a reduced candidate set with a
// provable worst-case approximation bound, trading preprocessing cost for
// query speed. Queries delegate to an inner exact search over the reduced
// set, using original (uncentered) coordinates.
type Drusilla[T comparable] struct {
	universe []T
	toVector furthest.ToVector[T]
	e        float64
	m        int

	distance furthest.DistanceFunc[T] // nil means squared Euclidean over toVector
	logger   *furthest.Logger

	centroid []float32
	reduced  []T
	inner    *exact.Exact[T]
}

// New creates a Drusilla strategy, ready to accept queries. The reduced
// set is built here; construction cost grows as e shrinks.
//
// e is the approximation level, in (0, 1). m bounds how many items are
// harvested per pivot iteration.
func New[T comparable](ctx context.Context, universe []T, toVector furthest.ToVector[T], e float64, m int, optFns ...func(o *Options[T])) (*Drusilla[T], error) {
	opts := DefaultOptions[T]()

	for _, fn := range optFns {
		fn(&opts)
	}

	d := &Drusilla[T]{
		universe: universe,
		toVector: toVector,
		e:        e,
		m:        m,
		distance: opts.Distance,
		logger:   opts.Logger.WithStrategy("drusilla"),
	}

	if err := d.validate(); err != nil {
		return nil, err
	}
	if err := d.rebuild(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Drusilla[T]) validate() error {
	if len(d.universe) == 0 {
		return furthest.ErrEmptyUniverse
	}
	if d.e <= 0 || d.e >= 1 {
		return &furthest.ErrInvalidParam{Name: "e", Value: d.e, Reason: "must be in (0, 1)"}
	}
	if d.m < 1 {
		return &furthest.ErrInvalidParam{Name: "m", Value: d.m, Reason: "must be >= 1"}
	}
	return nil
}

type poolItem[T any] struct {
	data     T
	centered []float32
	norm     float32
}

// rebuild recomputes the centroid, the reduced set and the inner exact
// search. State is assigned only on success; a failed rebuild leaves the
// previous derived structures intact.
func (d *Drusilla[T]) rebuild(ctx context.Context) error {
	n := len(d.universe)

	vecs := make([][]float32, n)
	if err := parallel.ForEach(ctx, n, func(i int) error {
		vecs[i] = d.toVector(d.universe[i])
		return nil
	}); err != nil {
		return err
	}

	centroid, err := vector.Centroid(vecs)
	if err != nil {
		return err
	}

	centered := make([][]float32, n)
	norms := make([]float32, n)
	if err := parallel.ForEach(ctx, n, func(i int) error {
		c, err := vector.Sub(vecs[i], centroid)
		if err != nil {
			return err
		}
		centered[i] = c
		norms[i] = vector.Norm(c)
		return nil
	}); err != nil {
		return err
	}

	// Items at the centroid are directionally indistinguishable from it
	// and cannot participate in the pruning.
	pool := make([]poolItem[T], 0, n)
	for i := range d.universe {
		if norms[i] == 0 {
			continue
		}
		pool = append(pool, poolItem[T]{data: d.universe[i], centered: centered[i], norm: norms[i]})
	}
	if len(pool) == 0 {
		return ErrDegenerateUniverse
	}

	// Farthest-from-centroid first. Only deletions follow, so the first
	// remaining element stays the norm-maximum for the whole loop.
	sort.Slice(pool, func(i, j int) bool { return pool[i].norm > pool[j].norm })

	threshold := float64(pool[0].norm) * d.e / (6 + 3*d.e)

	reduced := make([]T, 0, len(pool))

	if float64(pool[len(pool)-1].norm) > threshold {
		// Economy path: even the closest-to-centroid item clears the
		// threshold, so the greedy loop would absorb everything anyway.
		for _, it := range pool {
			reduced = append(reduced, it.data)
		}
		return d.commit(ctx, centroid, reduced, 0, true)
	}

	iterations, err := d.prune(ctx, pool, threshold, &reduced)
	if err != nil {
		return err
	}

	return d.commit(ctx, centroid, reduced, iterations, false)
}

// prune runs the greedy pivot/project/prune loop over the norm-sorted pool,
// appending harvested items to reduced. Returns the number of pivot
// iterations performed.
func (d *Drusilla[T]) prune(ctx context.Context, pool []poolItem[T], threshold float64, reduced *[]T) (int, error) {
	removed := roaring.New()
	remaining := len(pool)
	first := 0
	iterations := 0

	advance := func() {
		for first < len(pool) && removed.Contains(uint32(first)) {
			first++
		}
	}

	for {
		advance()
		if first >= len(pool) || float64(pool[first].norm) <= threshold {
			break
		}

		if remaining <= d.m {
			for i := first; i < len(pool); i++ {
				if !removed.Contains(uint32(i)) {
					*reduced = append(*reduced, pool[i].data)
				}
			}
			remaining = 0
			break
		}

		pivot := pool[first]
		u := vector.Scale(pivot.centered, 1/pivot.norm)

		alive := make([]int, 0, remaining)
		for i := first; i < len(pool); i++ {
			if !removed.Contains(uint32(i)) {
				alive = append(alive, i)
			}
		}

		// Score rewards items strongly aligned with, and far along, the
		// pivot's extremal direction.
		scores := make([]float64, len(alive))
		if err := parallel.ForEach(ctx, len(alive), func(j int) error {
			it := pool[alive[j]]
			o, err := vector.Dot(it.centered, u)
			if err != nil {
				return err
			}
			// u is unit length: the orthogonal residual magnitude is
			// sqrt(|v|^2 - o^2), clamped against rounding.
			residSq := float64(it.norm)*float64(it.norm) - float64(o)*float64(o)
			if residSq < 0 {
				residSq = 0
			}
			scores[j] = math.Abs(float64(o)) - math.Sqrt(residSq)
			return nil
		}); err != nil {
			return iterations, err
		}

		js := make([]int, len(alive))
		for j := range js {
			js[j] = j
		}
		top, err := topk.MaxK(js, func(a, b int) bool { return scores[a] < scores[b] }, d.m)
		if err != nil {
			return iterations, err
		}

		for _, j := range top {
			idx := alive[j]
			*reduced = append(*reduced, pool[idx].data)
			removed.Add(uint32(idx))
		}
		remaining -= d.m
		iterations++
	}

	// Coverage step: a threshold exit with a non-empty pool moves exactly
	// one leftover item into the reduced set.
	if remaining > 0 {
		advance()
		if first < len(pool) {
			*reduced = append(*reduced, pool[first].data)
		}
	}

	return iterations, nil
}

func (d *Drusilla[T]) commit(ctx context.Context, centroid []float32, reduced []T, iterations int, economy bool) error {
	distance := d.distance
	if distance == nil {
		distance = furthest.SquaredEuclidean(d.toVector)
	}

	// The inner search runs on original coordinates; queries are passed
	// uncentered.
	inner, err := exact.New(reduced, distance)
	if err != nil {
		return err
	}

	d.centroid = centroid
	d.reduced = reduced
	d.inner = inner

	d.logger.LogPreprocess(ctx, len(d.universe),
		"reduced", len(reduced),
		"iterations", iterations,
		"economy", economy,
	)

	return nil
}

// Find returns the k reduced-set items most distant from query. It fails
// with *furthest.ErrInvalidK when k is outside [1, len(Reduced())].
func (d *Drusilla[T]) Find(ctx context.Context, query T, k int) ([]T, error) {
	return d.inner.Find(ctx, query, k)
}

// FindBatch evaluates each query independently, in parallel.
func (d *Drusilla[T]) FindBatch(ctx context.Context, queries []T, k int) (furthest.Solution[T], error) {
	return furthest.FindBatch(ctx, d.Find, queries, k)
}

// Reduced returns a copy of the reduced candidate set R. Its size is
// non-decreasing as e decreases, for a fixed universe and m.
func (d *Drusilla[T]) Reduced() []T {
	return slices.Clone(d.reduced)
}

// Centroid returns a copy of the universe centroid.
func (d *Drusilla[T]) Centroid() []float32 {
	return slices.Clone(d.centroid)
}

// SetUniverse replaces the reference items and rebuilds the reduced set.
func (d *Drusilla[T]) SetUniverse(ctx context.Context, universe []T) error {
	if len(universe) == 0 {
		return furthest.ErrEmptyUniverse
	}
	prev := d.universe
	d.universe = universe
	if err := d.rebuild(ctx); err != nil {
		d.universe = prev
		return err
	}
	return nil
}

// SetToVector replaces the item-to-vector mapping and rebuilds the
// reduced set.
func (d *Drusilla[T]) SetToVector(ctx context.Context, toVector furthest.ToVector[T]) error {
	prev := d.toVector
	d.toVector = toVector
	if err := d.rebuild(ctx); err != nil {
		d.toVector = prev
		return err
	}
	return nil
}

// SetE replaces the approximation level and rebuilds the reduced set.
func (d *Drusilla[T]) SetE(ctx context.Context, e float64) error {
	if e <= 0 || e >= 1 {
		return &furthest.ErrInvalidParam{Name: "e", Value: e, Reason: "must be in (0, 1)"}
	}
	prev := d.e
	d.e = e
	if err := d.rebuild(ctx); err != nil {
		d.e = prev
		return err
	}
	return nil
}

// SetM replaces the per-pivot harvest size and rebuilds the reduced set.
func (d *Drusilla[T]) SetM(ctx context.Context, m int) error {
	if m < 1 {
		return &furthest.ErrInvalidParam{Name: "m", Value: m, Reason: "must be >= 1"}
	}
	prev := d.m
	d.m = m
	if err := d.rebuild(ctx); err != nil {
		d.m = prev
		return err
	}
	return nil
}
