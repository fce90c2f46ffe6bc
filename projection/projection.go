// Package projection provides a randomized, single-answer (k = 1)
// approximate solver for the furthest-neighbor problem. Offline, it draws
// l random Gaussian directions and keeps, per direction, the m universe
// items with greatest scalar projection as a sorted candidate list.
// Online, a query lazily merges the list frontiers through a priority
// queue and returns the popped candidate with greatest true distance.
package projection

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	furthest "github.com/TheChocolateOre/furthest-items"
	"github.com/TheChocolateOre/furthest-items/internal/parallel"
	"github.com/TheChocolateOre/furthest-items/topk"
	"github.com/TheChocolateOre/furthest-items/vector"
)

// Compile-time check to ensure Projection satisfies the strategy contract.
var _ furthest.Strategy[int] = (*Projection[int])(nil)

// ErrSingleAnswerOnly is returned when Find is called with k != 1. The
// candidate lists only support retrieving the single furthest item.
var ErrSingleAnswerOnly = errors.New("projection: only k = 1 is supported")

// Options contains configuration options for the projection strategy.
type Options struct {
	// Rand is the source used to draw projection directions. Inject a
	// seeded source for reproducible preprocessing; the default is
	// time-seeded.
	Rand *rand.Rand

	// Logger receives debug records for preprocessing and queries.
	// Defaults to a no-op logger.
	Logger *furthest.Logger
}

// DefaultOptions contains the default configuration options for the
// projection strategy. Rand stays nil here; New falls back to a
// time-seeded source.
var DefaultOptions = Options{
	Logger: furthest.NoopLogger(),
}

// Projection answers approximate furthest-neighbor queries without a full
// scan, at the price of a preprocessing pass per universe, mapping or
// parameter change.
type Projection[T comparable] struct {
	universe []T
	toVector furthest.ToVector[T]
	l        int
	m        int

	rng    *rand.Rand
	logger *furthest.Logger

	directions [][]float32     // l Gaussian directions of universe dimensionality
	lists      [][]T           // per direction, items sorted descending by projection
	caches     []map[T]float32 // per direction, item -> cached scalar projection
}

// New creates a Projection strategy, ready to accept queries.
//
// l is the number of random directions, m the number of candidates kept
// per direction and examined per query.
func New[T comparable](ctx context.Context, universe []T, toVector furthest.ToVector[T], l, m int, optFns ...func(o *Options)) (*Projection[T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if len(universe) == 0 {
		return nil, furthest.ErrEmptyUniverse
	}
	if l < 1 {
		return nil, &furthest.ErrInvalidParam{Name: "l", Value: l, Reason: "must be >= 1"}
	}
	if m < 1 {
		return nil, &furthest.ErrInvalidParam{Name: "m", Value: m, Reason: "must be >= 1"}
	}

	p := &Projection[T]{
		universe: universe,
		toVector: toVector,
		l:        l,
		m:        m,
		rng:      opts.Rand,
		logger:   opts.Logger.WithStrategy("projection"),
	}

	p.directions = p.randomDirections(l, p.dimensions())
	if err := p.rebuildLists(ctx); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Projection[T]) dimensions() int {
	return len(p.toVector(p.universe[0]))
}

// randomDirections draws num Gaussian vectors of the given dimensionality
// from the injected source. Drawing is sequential; a rand.Rand is not safe
// for concurrent use.
func (p *Projection[T]) randomDirections(num, dimensions int) [][]float32 {
	directions := make([][]float32, num)
	for i := range directions {
		d := make([]float32, dimensions)
		for j := range d {
			d[j] = float32(p.rng.NormFloat64())
		}
		directions[i] = d
	}
	return directions
}

// rebuildLists recomputes every per-direction projection cache and sorted
// candidate list. Directions are reused. Each task writes only its own
// slot.
func (p *Projection[T]) rebuildLists(ctx context.Context) error {
	lists := make([][]T, p.l)
	caches := make([]map[T]float32, p.l)

	// Lists hold at most the whole universe.
	keep := min(p.m, len(p.universe))

	err := parallel.ForEach(ctx, p.l, func(i int) error {
		cache := make(map[T]float32, len(p.universe))
		for _, x := range p.universe {
			proj, err := vector.Dot(p.directions[i], p.toVector(x))
			if err != nil {
				return err
			}
			cache[x] = proj
		}

		top, err := topk.MaxK(p.universe, func(a, b T) bool {
			return cache[a] < cache[b]
		}, keep)
		if err != nil {
			return err
		}
		sort.Slice(top, func(a, b int) bool { return cache[top[a]] > cache[top[b]] })

		lists[i] = top
		caches[i] = cache
		return nil
	})
	if err != nil {
		return err
	}

	p.lists = lists
	p.caches = caches

	p.logger.LogPreprocess(ctx, len(p.universe),
		"directions", p.l,
		"candidates_per_direction", keep,
	)

	return nil
}

// frontier is one unconsumed candidate of a direction's list, keyed by how
// promising it looks along that axis relative to the query.
type frontier[T any] struct {
	item T
	dir  int
	key  float32
}

// Find returns the single universe item with greatest true squared
// Euclidean distance among the candidates explored. It fails with
// ErrSingleAnswerOnly unless k == 1.
//
// The priority-queue key only orders exploration; the true distance of
// each popped candidate decides the answer.
func (p *Projection[T]) Find(ctx context.Context, query T, k int) ([]T, error) {
	if k != 1 {
		p.logger.LogFind(ctx, k, len(p.universe), ErrSingleAnswerOnly)
		return nil, ErrSingleAnswerOnly
	}

	q := p.toVector(query)

	qvals := make([]float32, p.l)
	for i, dir := range p.directions {
		v, err := vector.Dot(dir, q)
		if err != nil {
			return nil, err
		}
		qvals[i] = v
	}

	// Max-heap over the list frontiers.
	h := topk.NewHeap(func(a, b frontier[T]) bool { return a.key > b.key }, p.l)
	cursors := make([]int, p.l)
	for i, list := range p.lists {
		if len(list) == 0 {
			continue
		}
		h.Push(frontier[T]{item: list[0], dir: i, key: p.caches[i][list[0]] - qvals[i]})
		cursors[i] = 1
	}

	var best T
	var bestDist float32
	found := false

	for pops := 0; pops < p.m && h.Len() > 0; pops++ {
		f, _ := h.Pop()

		d, err := vector.SquaredL2(p.toVector(f.item), q)
		if err != nil {
			return nil, err
		}
		if !found || d > bestDist {
			best = f.item
			bestDist = d
			found = true
		}

		if next := cursors[f.dir]; next < len(p.lists[f.dir]) {
			x := p.lists[f.dir][next]
			cursors[f.dir]++
			h.Push(frontier[T]{item: x, dir: f.dir, key: p.caches[f.dir][x] - qvals[f.dir]})
		}
	}

	p.logger.LogFind(ctx, k, len(p.universe), nil)

	return []T{best}, nil
}

// FindBatch evaluates each query independently, in parallel. Every query
// must use k = 1.
func (p *Projection[T]) FindBatch(ctx context.Context, queries []T, k int) (furthest.Solution[T], error) {
	return furthest.FindBatch(ctx, p.Find, queries, k)
}

// SetUniverse replaces the reference items and rebuilds the candidate
// lists. Directions are redrawn only if the dimensionality changed.
func (p *Projection[T]) SetUniverse(ctx context.Context, universe []T) error {
	if len(universe) == 0 {
		return furthest.ErrEmptyUniverse
	}

	prev, prevDirs := p.universe, p.directions
	p.universe = universe

	if d := p.dimensions(); d != len(p.directions[0]) {
		p.directions = p.randomDirections(p.l, d)
	}

	if err := p.rebuildLists(ctx); err != nil {
		p.universe, p.directions = prev, prevDirs
		return err
	}
	return nil
}

// SetToVector replaces the item-to-vector mapping and rebuilds the
// candidate lists. Directions are redrawn only if the dimensionality
// changed.
func (p *Projection[T]) SetToVector(ctx context.Context, toVector furthest.ToVector[T]) error {
	prev, prevDirs := p.toVector, p.directions
	p.toVector = toVector

	if d := p.dimensions(); d != len(p.directions[0]) {
		p.directions = p.randomDirections(p.l, d)
	}

	if err := p.rebuildLists(ctx); err != nil {
		p.toVector, p.directions = prev, prevDirs
		return err
	}
	return nil
}

// SetL replaces the number of random directions, redrawing them and
// rebuilding the candidate lists. A no-op if l is unchanged.
func (p *Projection[T]) SetL(ctx context.Context, l int) error {
	if l < 1 {
		return &furthest.ErrInvalidParam{Name: "l", Value: l, Reason: "must be >= 1"}
	}
	if l == p.l {
		return nil
	}

	prevL, prevDirs := p.l, p.directions
	p.l = l
	p.directions = p.randomDirections(l, len(prevDirs[0]))

	if err := p.rebuildLists(ctx); err != nil {
		p.l, p.directions = prevL, prevDirs
		return err
	}
	return nil
}

// SetM replaces the candidate budget and rebuilds the candidate lists
// only. A no-op if m is unchanged.
func (p *Projection[T]) SetM(ctx context.Context, m int) error {
	if m < 1 {
		return &furthest.ErrInvalidParam{Name: "m", Value: m, Reason: "must be >= 1"}
	}
	if m == p.m {
		return nil
	}

	prev := p.m
	p.m = m
	if err := p.rebuildLists(ctx); err != nil {
		p.m = prev
		return err
	}
	return nil
}
