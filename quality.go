package furthest

// QualityEstimator scores a Solution to the k-furthest-neighbors problem.
// Higher values describe higher quality. Estimators only consume a
// Solution; the strategies themselves never call them.
type QualityEstimator[T comparable] interface {
	Estimate(solution Solution[T]) (float64, error)
}

// FlatSum estimates quality as the flat sum of the distances from each
// query item to every item it was mapped to.
type FlatSum[T comparable] struct {
	distance DistanceFunc[T]
}

// NewFlatSum creates a FlatSum estimator over the given distance function.
func NewFlatSum[T comparable](distance DistanceFunc[T]) *FlatSum[T] {
	return &FlatSum[T]{distance: distance}
}

// Estimate computes the quality of the given solution.
func (f *FlatSum[T]) Estimate(solution Solution[T]) (float64, error) {
	var sum float64
	for query, items := range solution {
		for _, item := range items {
			d, err := f.distance(item, query)
			if err != nil {
				return 0, err
			}
			sum += float64(d)
		}
	}
	return sum, nil
}
