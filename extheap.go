package taskrt

import "math/bits"

// IndexCallback is invoked for every internal slot of the heap's backing
// slice whose value changes during a structural operation, not merely at
// the operation's boundary. Callers use this to keep an external
// "key -> heap position" index in sync, in amortized O(log n) alongside
// the heap mutation itself, instead of diffing the whole slice afterward.
type IndexCallback[T any] func(data []T, newIndex int)

func noopCallback[T any](_ []T, _ int) {}

// ExtHeap is a binary max-heap (by the supplied comparator) that reports,
// via an IndexCallback, every slot whose contents moved during push, pop,
// remove, modify, append, and retain. Sifting treats the moving element's
// slot as a hole: other elements shift into the hole's old position one
// at a time, and the displaced element lands in the hole's final
// position at the end. The callback fires after every element lands in
// the slot it is moving into, and once more for the final resting
// position.
type ExtHeap[T any] struct {
	data []T
	cmp  func(a, b T) int
}

// NewExtHeap creates an empty heap ordered by cmp, where cmp(a, b) > 0
// means a outranks b (a belongs closer to the root).
func NewExtHeap[T any](cmp func(a, b T) int) *ExtHeap[T] {
	return &ExtHeap[T]{cmp: cmp}
}

// NewExtHeapWithCapacity is NewExtHeap with a preallocated backing slice.
func NewExtHeapWithCapacity[T any](cmp func(a, b T) int, capacity int) *ExtHeap[T] {
	return &ExtHeap[T]{cmp: cmp, data: make([]T, 0, capacity)}
}

func (h *ExtHeap[T]) Len() int { return len(h.data) }

func (h *ExtHeap[T]) IsEmpty() bool { return len(h.data) == 0 }

// Peek returns the greatest element without removing it.
func (h *ExtHeap[T]) Peek() (T, bool) {
	if len(h.data) == 0 {
		var zero T
		return zero, false
	}
	return h.data[0], true
}

// All returns an iterator over the heap's elements in arbitrary (storage)
// order.
func (h *ExtHeap[T]) All() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, v := range h.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Push inserts item and sifts it up, invoking cb for every slot that
// changes along the way. cb may be nil.
func (h *ExtHeap[T]) Push(item T, cb IndexCallback[T]) {
	if cb == nil {
		cb = noopCallback[T]
	}
	oldLen := len(h.data)
	h.data = append(h.data, item)
	h.siftUp(0, oldLen, cb)
}

// Pop removes and returns the greatest element, or false if empty.
func (h *ExtHeap[T]) Pop(cb IndexCallback[T]) (T, bool) {
	if cb == nil {
		cb = noopCallback[T]
	}
	n := len(h.data)
	if n == 0 {
		var zero T
		return zero, false
	}
	item := h.data[n-1]
	h.data = h.data[:n-1]
	if len(h.data) > 0 {
		item, h.data[0] = h.data[0], item
		h.siftDownToBottom(0, cb)
	}
	return item, true
}

// Remove removes and returns the element at index, invoking cb for every
// slot that changes while the displaced tail element sifts into place.
func (h *ExtHeap[T]) Remove(index int, cb IndexCallback[T]) T {
	if cb == nil {
		cb = noopCallback[T]
	}
	item := h.data[index]
	last := len(h.data) - 1
	h.data[index] = h.data[last]
	h.data = h.data[:last]
	if len(h.data) > 0 && index < len(h.data) {
		if index > 0 && h.cmp(h.data[index], h.data[(index-1)/2]) > 0 {
			h.siftUp(0, index, cb)
		} else {
			h.siftDownToBottom(index, cb)
		}
	}
	return item
}

// Modify mutates the element at index in place via mutate, then restores
// the heap invariant: if mutate reports the element now outranks its old
// position (cmp > 0) it sifts up; if it now ranks lower (cmp < 0) it
// sifts down; zero means no structural change is needed. index == 0
// skips the sift-up branch (no parent to compare against) and
// index == Len()-1 skips the sift-down branch (no children); callers
// mutating in one direction only, a deadline postponement say, rely on
// exactly that skip.
func (h *ExtHeap[T]) Modify(index int, mutate func(item *T) int, cb IndexCallback[T]) {
	if cb == nil {
		cb = noopCallback[T]
	}
	switch ord := mutate(&h.data[index]); {
	case ord > 0:
		if index > 0 {
			h.siftUp(0, index, cb)
		}
	case ord < 0:
		if index < len(h.data)-1 {
			h.siftDown(index, cb)
		}
	}
}

// IntoSortedSlice consumes the heap and returns its elements in ascending
// order. The heap is empty after this call.
func (h *ExtHeap[T]) IntoSortedSlice() []T {
	end := len(h.data)
	for end > 1 {
		end--
		h.data[0], h.data[end] = h.data[end], h.data[0]
		h.siftDownRange(0, end, noopCallback[T])
	}
	out := h.data
	h.data = nil
	return out
}

// Append moves every element of other into h, leaving other empty.
func (h *ExtHeap[T]) Append(other *ExtHeap[T], cb IndexCallback[T]) {
	if cb == nil {
		cb = noopCallback[T]
	}
	swapped := len(h.data) < len(other.data)
	if swapped {
		h.data, other.data = other.data, h.data
	}
	start := len(h.data)
	h.data = append(h.data, other.data...)
	other.data = other.data[:0]
	from := start
	if swapped {
		from = 0
	}
	for i := from; i < len(h.data); i++ {
		cb(h.data, i)
	}
	h.rebuildTail(start, cb)
}

// Retain keeps only the elements for which keep returns true, rebuilding
// the heap tail starting from the first removed index (the untouched
// prefix need not be re-sifted).
func (h *ExtHeap[T]) Retain(keep func(item T) bool, cb IndexCallback[T]) {
	if cb == nil {
		cb = noopCallback[T]
	}
	firstRemoved := len(h.data)
	out := h.data[:0]
	for i, v := range h.data {
		if keep(v) {
			out = append(out, v)
			if len(out)-1 != i {
				cb(out, len(out)-1)
			}
		} else if i < firstRemoved {
			firstRemoved = i
		}
	}
	h.data = out
	h.rebuildTail(firstRemoved, cb)
}

// Drain removes and returns every element, in arbitrary order, leaving
// the heap empty.
func (h *ExtHeap[T]) Drain() []T {
	out := h.data
	h.data = nil
	return out
}

func (h *ExtHeap[T]) less(a, b T) bool { return h.cmp(a, b) < 0 }
func (h *ExtHeap[T]) atLeast(a, b T) bool { return h.cmp(a, b) >= 0 }

// siftUp moves the element at pos toward the root while it outranks its
// parent, stopping at start. Returns the element's final index.
func (h *ExtHeap[T]) siftUp(start, pos int, cb IndexCallback[T]) int {
	item := h.data[pos]
	for pos > start {
		parent := (pos - 1) / 2
		if h.atLeast(h.data[parent], item) {
			break
		}
		h.data[pos] = h.data[parent]
		cb(h.data, pos)
		pos = parent
	}
	h.data[pos] = item
	cb(h.data, pos)
	return pos
}

// siftDown is siftDownRange bounded by the heap's current length.
func (h *ExtHeap[T]) siftDown(pos int, cb IndexCallback[T]) {
	h.siftDownRange(pos, len(h.data), cb)
}

// siftDownRange moves the element at pos toward the leaves, within
// [pos, end), while it ranks below the greater of its two children.
func (h *ExtHeap[T]) siftDownRange(pos, end int, cb IndexCallback[T]) {
	item := h.data[pos]
	child := 2*pos + 1
	for child <= end-2 {
		if h.cmp(h.data[child], h.data[child+1]) <= 0 {
			child++
		}
		if h.atLeast(item, h.data[child]) {
			h.data[pos] = item
			cb(h.data, pos)
			return
		}
		h.data[pos] = h.data[child]
		cb(h.data, pos)
		pos = child
		child = 2*pos + 1
	}
	if child == end-1 && h.less(item, h.data[child]) {
		h.data[pos] = h.data[child]
		cb(h.data, pos)
		pos = child
	}
	h.data[pos] = item
	cb(h.data, pos)
}

// siftDownToBottom always descends pos to a leaf, then sifts it back up,
// faster than siftDown when the element is known to belong near the
// bottom (the pop/remove hot path).
func (h *ExtHeap[T]) siftDownToBottom(pos int, cb IndexCallback[T]) {
	end := len(h.data)
	start := pos
	item := h.data[pos]
	child := 2*pos + 1
	for child <= end-2 {
		if h.cmp(h.data[child], h.data[child+1]) <= 0 {
			child++
		}
		h.data[pos] = h.data[child]
		cb(h.data, pos)
		pos = child
		child = 2*pos + 1
	}
	if child == end-1 {
		h.data[pos] = h.data[child]
		cb(h.data, pos)
		pos = child
	}
	h.data[pos] = item
	cb(h.data, pos)
	h.siftUp(start, pos, cb)
}

// rebuildTail assumes data[:start] is already a valid heap and restores
// the invariant over the whole slice, choosing between a full rebuild
// and per-element sift-up by an empirically-derived cost heuristic.
func (h *ExtHeap[T]) rebuildTail(start int, cb IndexCallback[T]) {
	n := len(h.data)
	if start == n {
		return
	}
	tailLen := n - start

	betterToRebuild := false
	switch {
	case start < tailLen:
		betterToRebuild = true
	case n <= 2048:
		betterToRebuild = 2*n < tailLen*log2Fast(start)
	default:
		betterToRebuild = 2*n < tailLen*11
	}

	if betterToRebuild {
		h.rebuild(cb)
		return
	}
	for i := start; i < n; i++ {
		h.siftUp(0, i, cb)
	}
}

func (h *ExtHeap[T]) rebuild(cb IndexCallback[T]) {
	n := len(h.data) / 2
	for n > 0 {
		n--
		h.siftDown(n, cb)
	}
}

func log2Fast(x int) int {
	if x <= 0 {
		return 0
	}
	return bits.Len(uint(x)) - 1
}
