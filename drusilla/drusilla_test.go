package drusilla

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	furthest "github.com/TheChocolateOre/furthest-items"
	"github.com/TheChocolateOre/furthest-items/exact"
)

type point struct {
	x, y float32
}

func pointVector(p point) []float32 { return []float32{p.x, p.y} }

// Four points on a circle of radius 10 around (3, 4), plus optionally the
// center itself. The centroid is exactly (3, 4) in both cases.
func circleUniverse(withCenter bool) []point {
	universe := []point{
		{13, 4},
		{-7, 4},
		{3, 14},
		{3, -6},
	}
	if withCenter {
		universe = append(universe, point{3, 4})
	}
	return universe
}

func TestNewValidation(t *testing.T) {
	ctx := context.Background()
	universe := circleUniverse(false)

	tests := []struct {
		name string
		e    float64
		m    int
	}{
		{"EZero", 0, 1},
		{"EOne", 1, 1},
		{"ENegative", -0.2, 1},
		{"EAboveOne", 1.5, 1},
		{"MZero", 0.5, 0},
		{"MNegative", 0.5, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, universe, pointVector, tt.e, tt.m)
			var ip *furthest.ErrInvalidParam
			require.ErrorAs(t, err, &ip)
		})
	}

	t.Run("EmptyUniverse", func(t *testing.T) {
		_, err := New(ctx, nil, pointVector, 0.5, 1)
		require.ErrorIs(t, err, furthest.ErrEmptyUniverse)
	})

	t.Run("AllItemsAtCentroid", func(t *testing.T) {
		same := []point{{2, 2}, {2, 2}, {2, 2}}
		_, err := New(ctx, same, pointVector, 0.5, 1)
		require.ErrorIs(t, err, ErrDegenerateUniverse)
	})
}

// All items equidistant from the centroid drive the closest-to-centroid
// norm above the threshold: the economy path must absorb the whole
// universe into the reduced set.
func TestEconomyPath(t *testing.T) {
	ctx := context.Background()
	universe := circleUniverse(false)

	d, err := New(ctx, universe, pointVector, 0.5, 2)
	require.NoError(t, err)

	assert.ElementsMatch(t, universe, d.Reduced())

	centroid := d.Centroid()
	assert.InDelta(t, 3.0, centroid[0], 1e-5)
	assert.InDelta(t, 4.0, centroid[1], 1e-5)
}

// An item sitting exactly on the centroid has zero centered norm and must
// be excluded from the reduced set.
func TestZeroNormExclusion(t *testing.T) {
	ctx := context.Background()
	universe := circleUniverse(true)

	d, err := New(ctx, universe, pointVector, 0.5, 2)
	require.NoError(t, err)

	assert.ElementsMatch(t, circleUniverse(false), d.Reduced())
}

// Symmetric pairs around the origin with a wide norm spread; the tiny
// pair keeps the greedy loop (not the economy path) in play.
func spreadUniverse() []point {
	var universe []point
	for _, d := range []float32{100, 60, 20, 5, 0.3} {
		universe = append(universe, point{d, 0}, point{-d, 0})
	}
	return universe
}

func TestReducedSizeGrowsAsEShrinks(t *testing.T) {
	ctx := context.Background()
	universe := spreadUniverse()

	var sizes []int
	for _, e := range []float64{0.9, 0.5, 0.1} {
		d, err := New(ctx, universe, pointVector, e, 1)
		require.NoError(t, err)
		sizes = append(sizes, len(d.Reduced()))
	}

	assert.LessOrEqual(t, sizes[0], sizes[1])
	assert.LessOrEqual(t, sizes[1], sizes[2])
}

func TestFindDelegatesToReducedSet(t *testing.T) {
	ctx := context.Background()
	universe := circleUniverse(false)

	d, err := New(ctx, universe, pointVector, 0.5, 2)
	require.NoError(t, err)

	t.Run("SubsetOfReduced", func(t *testing.T) {
		got, err := d.Find(ctx, point{0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Subset(t, d.Reduced(), got)
	})

	t.Run("MatchesExactOnEconomyPath", func(t *testing.T) {
		// The reduced set equals the universe here, so results must
		// agree with the brute-force baseline.
		baseline, err := exact.New(universe, furthest.SquaredEuclidean(pointVector))
		require.NoError(t, err)

		for _, q := range []point{{0, 0}, {30, -2}, {3, 4}} {
			want, err := baseline.Find(ctx, q, 2)
			require.NoError(t, err)
			got, err := d.Find(ctx, q, 2)
			require.NoError(t, err)
			assert.ElementsMatch(t, want, got)
		}
	})

	t.Run("KAgainstReducedSize", func(t *testing.T) {
		_, err := d.Find(ctx, point{0, 0}, len(d.Reduced())+1)
		var ik *furthest.ErrInvalidK
		require.ErrorAs(t, err, &ik)
		assert.Equal(t, len(d.Reduced()), ik.Max)
	})

	t.Run("BoundaryKReturnsWholeDomain", func(t *testing.T) {
		got, err := d.Find(ctx, point{-100, 50}, len(d.Reduced()))
		require.NoError(t, err)
		assert.ElementsMatch(t, d.Reduced(), got)
	})
}

func TestFindBatch(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, circleUniverse(false), pointVector, 0.5, 2)
	require.NoError(t, err)

	t.Run("EmptyBatch", func(t *testing.T) {
		_, err := d.FindBatch(ctx, nil, 1)
		require.ErrorIs(t, err, furthest.ErrEmptyQuery)
	})

	t.Run("PerQueryResults", func(t *testing.T) {
		queries := []point{{13, 4}, {3, -6}}
		solution, err := d.FindBatch(ctx, queries, 1)
		require.NoError(t, err)
		require.Len(t, solution, 2)
		assert.Equal(t, []point{{-7, 4}}, solution[point{13, 4}])
		assert.Equal(t, []point{{3, 14}}, solution[point{3, -6}])
	})
}

func TestCustomDistance(t *testing.T) {
	ctx := context.Background()

	manhattan := func(reference, query point) (float32, error) {
		dx := reference.x - query.x
		if dx < 0 {
			dx = -dx
		}
		dy := reference.y - query.y
		if dy < 0 {
			dy = -dy
		}
		return dx + dy, nil
	}

	d, err := New(ctx, spreadUniverse(), pointVector, 0.5, 1, func(o *Options[point]) {
		o.Distance = manhattan
	})
	require.NoError(t, err)

	// Both extremes survive the pruning; the query breaks the tie.
	require.Subset(t, d.Reduced(), []point{{100, 0}, {-100, 0}})

	got, err := d.Find(ctx, point{50, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []point{{-100, 0}}, got)
}

func TestSetters(t *testing.T) {
	ctx := context.Background()
	d, err := New(ctx, spreadUniverse(), pointVector, 0.5, 1)
	require.NoError(t, err)

	t.Run("SetEInvalid", func(t *testing.T) {
		var ip *furthest.ErrInvalidParam
		require.ErrorAs(t, d.SetE(ctx, 0), &ip)
		require.ErrorAs(t, d.SetE(ctx, 1.2), &ip)
	})

	t.Run("SetMInvalid", func(t *testing.T) {
		var ip *furthest.ErrInvalidParam
		require.ErrorAs(t, d.SetM(ctx, 0), &ip)
	})

	t.Run("SetUniverseEmpty", func(t *testing.T) {
		require.ErrorIs(t, d.SetUniverse(ctx, nil), furthest.ErrEmptyUniverse)
	})

	t.Run("SetUniverseRebuilds", func(t *testing.T) {
		require.NoError(t, d.SetUniverse(ctx, circleUniverse(false)))
		assert.ElementsMatch(t, circleUniverse(false), d.Reduced())
	})

	t.Run("SetERebuilds", func(t *testing.T) {
		require.NoError(t, d.SetUniverse(ctx, spreadUniverse()))
		before := len(d.Reduced())
		require.NoError(t, d.SetE(ctx, 0.1))
		assert.GreaterOrEqual(t, len(d.Reduced()), before)
	})

	t.Run("FailedRebuildKeepsOldState", func(t *testing.T) {
		require.NoError(t, d.SetUniverse(ctx, circleUniverse(false)))
		before := d.Reduced()

		err := d.SetUniverse(ctx, []point{{1, 1}, {1, 1}})
		require.ErrorIs(t, err, ErrDegenerateUniverse)
		assert.ElementsMatch(t, before, d.Reduced())
	})
}
