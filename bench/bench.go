// Package bench measures the construction and query performance of
// k-furthest-neighbor strategies and the quality of their answers. It is
// strictly a caller of the public strategy contract.
package bench

import (
	"context"
	"time"

	furthest "github.com/TheChocolateOre/furthest-items"
)

// Constructor names a strategy and builds a fresh instance of it over a
// universe. Construction is part of what gets timed.
type Constructor[T comparable] struct {
	Name string
	New  func(ctx context.Context, universe []T) (furthest.Strategy[T], error)
}

// Result holds the averaged measurements of one strategy.
type Result struct {
	Strategy string

	// AvgInit is the average construction (preprocessing) duration.
	AvgInit time.Duration

	// AvgQuery is the average duration of the batch query phase.
	AvgQuery time.Duration

	// QualityRatio is reference quality divided by this strategy's
	// average quality. The reference is the first run of the first
	// constructor; 1.0 means equal quality, larger means worse.
	QualityRatio float64
}

// Options contains configuration options for the Runner.
type Options struct {
	// Runs is how many times each strategy is constructed and queried;
	// results are averaged. Defaults to 1.
	Runs int

	// Logger receives one info record per finished strategy. Defaults
	// to a no-op logger.
	Logger *furthest.Logger
}

// DefaultOptions contains the default configuration options for the Runner.
var DefaultOptions = Options{
	Runs:   1,
	Logger: furthest.NoopLogger(),
}

// Runner benchmarks strategies against one universe and one estimator.
type Runner[T comparable] struct {
	universe  []T
	estimator furthest.QualityEstimator[T]
	runs      int
	logger    *furthest.Logger
}

// NewRunner creates a Runner. The creation is lightweight; the work
// happens in Run.
func NewRunner[T comparable](universe []T, estimator furthest.QualityEstimator[T], optFns ...func(o *Options)) (*Runner[T], error) {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if len(universe) == 0 {
		return nil, furthest.ErrEmptyUniverse
	}
	if opts.Runs < 1 {
		return nil, &furthest.ErrInvalidParam{Name: "runs", Value: opts.Runs, Reason: "must be >= 1"}
	}

	return &Runner[T]{
		universe:  universe,
		estimator: estimator,
		runs:      opts.Runs,
		logger:    opts.Logger,
	}, nil
}

// Run times every constructor over the runner's universe: construction,
// then a batch query, repeated Runs times and averaged. The first
// constructor's first solution defines the reference quality; list the
// exact strategy first to compare against the optimum.
func (r *Runner[T]) Run(ctx context.Context, constructors []Constructor[T], queries []T, k int) ([]Result, error) {
	if len(queries) == 0 {
		return nil, furthest.ErrEmptyQuery
	}

	var reference float64
	results := make([]Result, 0, len(constructors))

	for ci, c := range constructors {
		var initTotal, queryTotal time.Duration
		var qualityTotal float64

		for run := 0; run < r.runs; run++ {
			initStart := time.Now()
			strategy, err := c.New(ctx, r.universe)
			if err != nil {
				return nil, err
			}
			initTotal += time.Since(initStart)

			queryStart := time.Now()
			solution, err := strategy.FindBatch(ctx, queries, k)
			if err != nil {
				return nil, err
			}
			queryTotal += time.Since(queryStart)

			quality, err := r.estimator.Estimate(solution)
			if err != nil {
				return nil, err
			}
			if ci == 0 && run == 0 {
				reference = quality
			}
			qualityTotal += quality
		}

		avgQuality := qualityTotal / float64(r.runs)
		ratio := 0.0
		if avgQuality != 0 {
			ratio = reference / avgQuality
		}

		result := Result{
			Strategy:     c.Name,
			AvgInit:      initTotal / time.Duration(r.runs),
			AvgQuery:     queryTotal / time.Duration(r.runs),
			QualityRatio: ratio,
		}
		results = append(results, result)

		r.logger.InfoContext(ctx, "benchmark completed",
			"strategy", result.Strategy,
			"avg_init", result.AvgInit,
			"avg_query", result.AvgQuery,
			"quality_ratio", result.QualityRatio,
		)
	}

	return results, nil
}
