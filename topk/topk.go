// Package topk provides bounded top-k selection: extracting the k extreme
// elements of a collection under a total order without fully sorting it.
// Cost is O(n log k) with O(k) extra space.
package topk

import (
	furthest "github.com/TheChocolateOre/furthest-items"
)

// MaxK returns the k elements of items ranked highest by less, where
// less(a, b) reports whether a ranks below b. The returned order is
// unspecified and ties are broken arbitrarily.
//
// It fails with *furthest.ErrInvalidK when k < 1 or k > len(items).
func MaxK[T any](items []T, less func(a, b T) bool, k int) ([]T, error) {
	if k < 1 || k > len(items) {
		return nil, &furthest.ErrInvalidK{K: k, Max: len(items)}
	}

	// Min-heap of the k best seen so far; the root is the weakest kept
	// element and is evicted whenever a higher-ranked element arrives.
	h := NewHeap(less, k)
	for _, item := range items[:k] {
		h.Push(item)
	}

	for _, item := range items[k:] {
		root, _ := h.Peek()
		if less(root, item) {
			h.Pop()
			h.Push(item)
		}
	}

	return h.Drain(), nil
}

// MinK returns the k elements of items ranked lowest by less. It is the
// dual of MaxK, obtained by reversing the order.
func MinK[T any](items []T, less func(a, b T) bool, k int) ([]T, error) {
	return MaxK(items, func(a, b T) bool { return less(b, a) }, k)
}
