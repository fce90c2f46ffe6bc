// Package vector provides fixed-dimension float32 vector arithmetic for
// the search strategies: addition, subtraction, scaling, dot product,
// norms and Euclidean distances. Pairwise operations validate that both
// operands share the same dimensionality.
package vector

import (
	"fmt"
	"math"
	"slices"
)

// ErrDimensionMismatch is a named error type for dimension mismatch
// between two vectors in a pairwise operation.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func sameSize(a, b []float32) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) (float32, error) {
	if err := sameSize(a, b); err != nil {
		return 0, err
	}

	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}

	return dot, nil
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors. Use it when the true distance is not needed and its square is
// sufficient to make decisions.
func SquaredL2(a, b []float32) (float32, error) {
	if err := sameSize(a, b); err != nil {
		return 0, err
	}

	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return sum, nil
}

// L2 calculates the L2 (Euclidean) distance between two vectors.
func L2(a, b []float32) (float32, error) {
	sq, err := SquaredL2(a, b)
	if err != nil {
		return 0, err
	}
	return float32(math.Sqrt(float64(sq))), nil
}

// Add returns the coordinate-wise sum of two vectors.
func Add(a, b []float32) ([]float32, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}

	result := make([]float32, len(a))
	for i := range a {
		result[i] = a[i] + b[i]
	}

	return result, nil
}

// Sub returns the coordinate-wise difference of two vectors.
func Sub(a, b []float32) ([]float32, error) {
	if err := sameSize(a, b); err != nil {
		return nil, err
	}

	result := make([]float32, len(a))
	for i := range a {
		result[i] = a[i] - b[i]
	}

	return result, nil
}

// Scale returns a copy of v with every coordinate multiplied by s.
func Scale(v []float32, s float32) []float32 {
	result := make([]float32, len(v))
	for i := range v {
		result[i] = v[i] * s
	}
	return result
}

// Norm calculates the L2 norm (magnitude) of v.
func Norm(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}

// Normalize returns an L2-normalized copy of v.
// Returns false if v has zero L2 norm.
func Normalize(v []float32) ([]float32, bool) {
	norm := Norm(v)
	if norm == 0 {
		return nil, false
	}

	dst := slices.Clone(v)
	inv := 1 / norm
	for i := range dst {
		dst[i] *= inv
	}

	return dst, true
}

// Centroid calculates the coordinate-wise mean of the given vectors.
// It fails if vectors is empty or if the dimensionalities differ.
func Centroid(vectors [][]float32) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("centroid of zero vectors is undefined")
	}

	center := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		if err := sameSize(center, v); err != nil {
			return nil, err
		}
		for i := range v {
			center[i] += v[i]
		}
	}

	inv := 1 / float32(len(vectors))
	for i := range center {
		center[i] *= inv
	}

	return center, nil
}
