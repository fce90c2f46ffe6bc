package furthest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	furthest "github.com/TheChocolateOre/furthest-items"
)

func TestFlatSum(t *testing.T) {
	toVector := func(x int) []float32 { return []float32{float32(x)} }
	estimator := furthest.NewFlatSum(furthest.Euclidean(toVector))

	t.Run("SumsAllPairs", func(t *testing.T) {
		solution := furthest.Solution[int]{
			0:  {10, 20},
			50: {100},
		}

		// |10-0| + |20-0| + |100-50| = 80
		quality, err := estimator.Estimate(solution)
		require.NoError(t, err)
		assert.InDelta(t, 80.0, quality, 1e-4)
	})

	t.Run("EmptySolution", func(t *testing.T) {
		quality, err := estimator.Estimate(furthest.Solution[int]{})
		require.NoError(t, err)
		assert.Zero(t, quality)
	})

	t.Run("PropagatesDistanceError", func(t *testing.T) {
		mixed := func(x int) []float32 {
			if x == 1 {
				return []float32{1, 2}
			}
			return []float32{float32(x)}
		}
		bad := furthest.NewFlatSum(furthest.Euclidean(mixed))

		_, err := bad.Estimate(furthest.Solution[int]{0: {1}})
		require.Error(t, err)
	})
}
