package topk

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapPushPop(t *testing.T) {
	h := NewHeap(func(a, b int) bool { return a < b }, 4)

	for _, v := range []int{5, 3, 8, 1, 9, 2} {
		h.Push(v)
	}
	require.Equal(t, 6, h.Len())

	root, ok := h.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, root)

	var popped []int
	for h.Len() > 0 {
		v, ok := h.Pop()
		require.True(t, ok)
		popped = append(popped, v)
	}

	assert.True(t, sort.IntsAreSorted(popped))
}

func TestHeapMaxOrder(t *testing.T) {
	// Reversed comparison turns the root into the maximum.
	h := NewHeap(func(a, b int) bool { return a > b }, 0)
	for _, v := range []int{2, 7, 4} {
		h.Push(v)
	}

	v, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestHeapEmpty(t *testing.T) {
	h := NewHeap(func(a, b int) bool { return a < b }, 0)

	_, ok := h.Peek()
	assert.False(t, ok)

	_, ok = h.Pop()
	assert.False(t, ok)
}

func TestHeapDrain(t *testing.T) {
	h := NewHeap(func(a, b int) bool { return a < b }, 3)
	for _, v := range []int{3, 1, 2} {
		h.Push(v)
	}

	assert.ElementsMatch(t, []int{1, 2, 3}, h.Drain())
	assert.Equal(t, 0, h.Len())
}
