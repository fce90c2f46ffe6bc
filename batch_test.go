package furthest_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	furthest "github.com/TheChocolateOre/furthest-items"
)

func TestFindBatch(t *testing.T) {
	ctx := context.Background()

	find := func(_ context.Context, query int, k int) ([]int, error) {
		result := make([]int, k)
		for i := range result {
			result[i] = query * 10
		}
		return result, nil
	}

	t.Run("EmptyBatch", func(t *testing.T) {
		_, err := furthest.FindBatch(ctx, find, nil, 1)
		require.ErrorIs(t, err, furthest.ErrEmptyQuery)
	})

	t.Run("MapsEveryQuery", func(t *testing.T) {
		queries := []int{1, 2, 3, 4, 5}
		solution, err := furthest.FindBatch(ctx, find, queries, 1)
		require.NoError(t, err)
		require.Len(t, solution, len(queries))
		for _, q := range queries {
			assert.Equal(t, []int{q * 10}, solution[q])
		}
	})

	t.Run("ManyParallelQueries", func(t *testing.T) {
		queries := make([]int, 200)
		for i := range queries {
			queries[i] = i
		}
		solution, err := furthest.FindBatch(ctx, find, queries, 2)
		require.NoError(t, err)
		require.Len(t, solution, len(queries))
		assert.Equal(t, []int{70, 70}, solution[7])
	})

	t.Run("ErrorFailsWholeBatch", func(t *testing.T) {
		boom := errors.New("boom")
		failing := func(_ context.Context, query int, k int) ([]int, error) {
			if query == 3 {
				return nil, boom
			}
			return []int{query}, nil
		}

		_, err := furthest.FindBatch(ctx, failing, []int{1, 2, 3, 4}, 1)
		require.ErrorIs(t, err, boom)
	})
}

func TestSquaredEuclidean(t *testing.T) {
	toVector := func(s string) []float32 {
		v, _ := strconv.Atoi(s)
		return []float32{float32(v)}
	}

	dist := furthest.SquaredEuclidean(toVector)
	d, err := dist("3", "7")
	require.NoError(t, err)
	assert.InDelta(t, 16.0, d, 1e-5)

	euclid := furthest.Euclidean(toVector)
	d, err = euclid("3", "7")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, d, 1e-5)
}
