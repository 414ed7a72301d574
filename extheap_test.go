package taskrt

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func intCmp(a, b int) int { return a - b }

// trackingIndex mirrors the "key -> heap position" index the IndexCallback
// exists to maintain, verified for consistency after every operation.
type trackingIndex struct {
	pos map[int]int
}

func newTrackingIndex() *trackingIndex { return &trackingIndex{pos: map[int]int{}} }

func (idx *trackingIndex) cb(data []int, newIndex int) {
	idx.pos[data[newIndex]] = newIndex
}

func (idx *trackingIndex) verify(t *testing.T, h *ExtHeap[int]) {
	t.Helper()
	data := make([]int, 0, h.Len())
	h.All()(func(v int) bool { data = append(data, v); return true })
	require.Len(t, idx.pos, len(data))
	for i, v := range data {
		p, ok := idx.pos[v]
		require.True(t, ok, "value %d missing from index", v)
		require.Equal(t, i, p, "value %d tracked at %d, actually at %d", v, p, i)
	}
}

func TestExtHeap_PushPopOrder(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	idx := newTrackingIndex()
	values := []int{5, 1, 9, 3, 7, 2, 8, 0, 6, 4}
	for _, v := range values {
		h.Push(v, idx.cb)
	}
	idx.verify(t, h)

	var out []int
	for h.Len() > 0 {
		v, ok := h.Pop(idx.cb)
		require.True(t, ok)
		out = append(out, v)
	}
	sorted := append([]int(nil), values...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	require.Equal(t, sorted, out)
}

func TestExtHeap_PopEmpty(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	_, ok := h.Pop(nil)
	require.False(t, ok)
	_, ok = h.Peek()
	require.False(t, ok)
}

func TestExtHeap_Remove(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	idx := newTrackingIndex()
	for _, v := range []int{10, 20, 30, 40, 50} {
		h.Push(v, idx.cb)
	}
	idx.verify(t, h)

	removed := h.Remove(idx.pos[30], idx.cb)
	require.Equal(t, 30, removed)
	delete(idx.pos, removed)
	idx.verify(t, h)

	var out []int
	for h.Len() > 0 {
		v, _ := h.Pop(idx.cb)
		out = append(out, v)
	}
	require.Equal(t, []int{50, 40, 20, 10}, out)
}

func TestExtHeap_Modify(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	idx := newTrackingIndex()
	for _, v := range []int{1, 2, 3, 4, 5} {
		h.Push(v, idx.cb)
	}
	idx.verify(t, h)

	// raise the lowest-ranked element (1) above everything else.
	pos := idx.pos[1]
	delete(idx.pos, 1)
	h.Modify(pos, func(item *int) int {
		old := *item
		*item = 100
		return intCmp(*item, old)
	}, idx.cb)
	idx.verify(t, h)

	top, ok := h.Peek()
	require.True(t, ok)
	require.Equal(t, 100, top)
}

func TestExtHeap_IntoSortedSlice(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	values := []int{5, 1, 9, 3, 7}
	for _, v := range values {
		h.Push(v, nil)
	}
	out := h.IntoSortedSlice()
	require.Equal(t, []int{1, 3, 5, 7, 9}, out)
	require.Equal(t, 0, h.Len())
}

func TestExtHeap_Append(t *testing.T) {
	a := NewExtHeap[int](intCmp)
	b := NewExtHeap[int](intCmp)
	for _, v := range []int{1, 3, 5} {
		a.Push(v, nil)
	}
	for _, v := range []int{2, 4, 6} {
		b.Push(v, nil)
	}
	a.Append(b, nil)
	require.Equal(t, 0, b.Len())
	require.Equal(t, 6, a.Len())

	out := a.IntoSortedSlice()
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, out)
}

func TestExtHeap_Retain(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	idx := newTrackingIndex()
	for i := 0; i < 20; i++ {
		h.Push(i, idx.cb)
	}
	h.Retain(func(v int) bool { return v%2 == 0 }, idx.cb)

	out := h.IntoSortedSlice()
	for _, v := range out {
		require.Zero(t, v%2)
	}
	require.Len(t, out, 10)
}

func TestExtHeap_Drain(t *testing.T) {
	h := NewExtHeap[int](intCmp)
	for _, v := range []int{1, 2, 3} {
		h.Push(v, nil)
	}
	out := h.Drain()
	require.Len(t, out, 3)
	require.Equal(t, 0, h.Len())
	require.True(t, h.IsEmpty())
}

func TestExtHeap_NewWithCapacity(t *testing.T) {
	h := NewExtHeapWithCapacity[int](intCmp, 16)
	require.True(t, h.IsEmpty())
	h.Push(1, nil)
	require.Equal(t, 1, h.Len())
}
