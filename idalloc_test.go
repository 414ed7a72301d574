package taskrt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdAllocator_AllocDistinct(t *testing.T) {
	var a idAllocator
	seen := make(map[TaskID]bool)
	for i := 0; i < 100; i++ {
		id := a.alloc()
		require.False(t, seen[id], "id %v reused before release", id)
		seen[id] = true
	}
}

func TestIdAllocator_ReleaseAndReuse(t *testing.T) {
	var a idAllocator
	id1 := a.alloc()
	require.True(t, a.valid(id1))

	a.release(id1)
	require.False(t, a.valid(id1))

	id2 := a.alloc()
	require.Equal(t, id1.index(), id2.index(), "expected the freed index to be reused")
	require.NotEqual(t, id1.generation(), id2.generation(), "expected a new generation on reuse")
	require.True(t, a.valid(id2))
}

func TestIdAllocator_StaleReleaseIsNoOp(t *testing.T) {
	var a idAllocator
	id := a.alloc()
	a.release(id)
	a.release(id) // double release of a stale id: must not corrupt the free list
	require.False(t, a.valid(id))

	id2 := a.alloc()
	id3 := a.alloc()
	require.NotEqual(t, id2, id3)
}

func TestIdAllocator_ConcurrentAlloc(t *testing.T) {
	var a idAllocator
	const n = 1000
	ids := make(chan TaskID, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			ids <- a.alloc()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[TaskID]bool)
	for id := range ids {
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Len(t, seen, n)
}
