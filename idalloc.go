package taskrt

import "sync"

// TaskID is an opaque stable task identifier. It packs a dense index in
// its low 32 bits and a generation counter in its high 32 bits, so a
// reused index can be distinguished from the task that previously held
// it: the minimal "stable-id -> slot" semantics this module needs,
// built fresh rather than via a general-purpose slot-map dependency.
type TaskID uint64

func packTaskID(index, generation uint32) TaskID {
	return TaskID(uint64(generation)<<32 | uint64(index))
}

func (id TaskID) index() uint32 { return uint32(id) }

func (id TaskID) generation() uint32 { return uint32(id >> 32) }

// idAllocator produces dense, reusable TaskIDs. It is safe for concurrent
// use by multiple goroutines, as required of any runtime that shares
// handles across worker threads.
type idAllocator struct {
	mu          sync.Mutex
	generations []uint32
	free        []uint32
}

func (a *idAllocator) alloc() TaskID {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return packTaskID(idx, a.generations[idx])
	}

	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	return packTaskID(idx, 0)
}

// release returns id's index to the free list, bumping its generation so
// that any TaskID still referencing the old generation is recognized as
// stale. Releasing an id whose generation no longer matches (a double
// release, or an id that was never issued) is silently ignored.
func (a *idAllocator) release(id TaskID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := id.index()
	if int(idx) >= len(a.generations) || a.generations[idx] != id.generation() {
		return
	}
	a.generations[idx]++
	a.free = append(a.free, idx)
}

// valid reports whether id's generation still matches the allocator's
// bookkeeping, i.e. whether the slot hasn't been released and reused
// since id was issued.
func (a *idAllocator) valid(id TaskID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := id.index()
	return int(idx) < len(a.generations) && a.generations[idx] == id.generation()
}
