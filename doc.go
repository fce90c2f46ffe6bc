// Package furthest solves the k-furthest-neighbors problem: given a fixed
// reference set of items (the universe), a query item and an integer k,
// return the k items of the universe that are most distant from the query
// under a caller-supplied distance function.
//
// Three interchangeable strategies implement the shared Strategy contract:
//
//   - exact: a full-scan baseline using bounded top-k selection. Always
//     correct, O(n) distance evaluations per query.
//   - drusilla: offline greedy projection pruning that shrinks the search
//     domain to a reduced candidate set with a provable worst-case quality
//     bound, then answers queries exactly over that set.
//   - projection: randomized single-answer (k = 1) search over
//     per-direction sorted candidate lists, merged lazily at query time.
//
// # Quick Start
//
//	items := []int{0, 10, 20, 100}
//	toVector := func(x int) []float32 { return []float32{float32(x)} }
//
//	s, _ := exact.New(items, furthest.SquaredEuclidean(toVector))
//	result, _ := s.Find(ctx, 5, 1) // -> [100]
//
// # Batch Queries
//
// Every strategy answers batches of queries through FindBatch. Queries are
// evaluated independently and in parallel; the result maps each query item
// to its unordered k-furthest container.
//
// # Distance Functions
//
// A distance function is a premetric: non-negative, but not required to be
// symmetric or to satisfy the triangle inequality. The reference item is
// passed first, the query second.
//
// Strategies are not safe for concurrent mutation: callers must serialize
// setter calls against queries and against each other. Queries alone may
// run concurrently.
package furthest
