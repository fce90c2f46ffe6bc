package furthest

import (
	"context"

	"github.com/TheChocolateOre/furthest-items/vector"
)

// ToVector maps an item to its fixed-dimension vector representation.
// All items of one universe must map to vectors of the same dimensionality.
type ToVector[T any] func(item T) []float32

// DistanceFunc computes the distance between a reference item and a query
// item. It is a premetric: the result must be >= 0, but symmetry and the
// triangle inequality are not required. The reference item is passed first.
type DistanceFunc[T any] func(reference, query T) (float32, error)

// Solution maps each query item to an unordered container of exactly k
// items drawn from the searched domain.
type Solution[T comparable] map[T][]T

// Strategy is the shared contract of all k-furthest-neighbor solvers.
//
// Implementations own their universe and any derived structures. Queries
// are read-only and may run concurrently; mutating setters must be
// serialized externally against queries and against each other.
type Strategy[T comparable] interface {
	// Find returns the k items of the search domain most distant from
	// query. The result order is unspecified.
	Find(ctx context.Context, query T, k int) ([]T, error)

	// FindBatch evaluates each query independently and returns the
	// mapping query -> k-furthest container. It fails on an empty batch.
	FindBatch(ctx context.Context, queries []T, k int) (Solution[T], error)
}

// SquaredEuclidean returns a DistanceFunc measuring the squared Euclidean
// distance between the vector representations of two items.
func SquaredEuclidean[T any](toVector ToVector[T]) DistanceFunc[T] {
	return func(reference, query T) (float32, error) {
		return vector.SquaredL2(toVector(reference), toVector(query))
	}
}

// Euclidean returns a DistanceFunc measuring the Euclidean distance between
// the vector representations of two items.
func Euclidean[T any](toVector ToVector[T]) DistanceFunc[T] {
	return func(reference, query T) (float32, error) {
		return vector.L2(toVector(reference), toVector(query))
	}
}
