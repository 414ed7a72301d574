package taskrt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleTaskRuntime_RunOnceDrivesOneTaskAtATime(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	rt := runner.Startup()
	ctx := context.Background()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] {
			order = append(order, i)
			return Ready(i)
		}))
		require.NoError(t, err)
	}

	ran := 0
	for rt.RunOnce(ctx) {
		ran++
	}
	require.Equal(t, 3, ran)
	require.Equal(t, []int{0, 1, 2}, order)
}

func TestSingleTaskRuntime_ExternalDriverParkWake(t *testing.T) {
	runner := NewSingleTaskRunner[string]()
	rt := runner.Startup()
	ctx := context.Background()

	ready := false
	var w Waker
	id, err := SpawnOn[string](rt, FutureFunc[string](func(waker Waker) Poll[string] {
		w = waker
		if ready {
			return Ready("done")
		}
		return Poll[string]{}
	}))
	require.NoError(t, err)

	require.True(t, rt.RunOnce(ctx)) // parks
	require.False(t, rt.RunOnce(ctx))
	require.NotNil(t, w)

	ready = true
	rt.Wakeup(id)
	require.True(t, rt.RunOnce(ctx))
	require.False(t, rt.RunOnce(ctx))

	stats := rt.Stats()
	require.Equal(t, uint64(1), stats.Spawned)
	require.Equal(t, uint64(1), stats.Completed)
}

func TestSingleTaskRuntime_RunOnceRespectsContextCancellation(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	rt := runner.Startup()

	_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { return Ready(1) }))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, rt.RunOnce(ctx))
}

func TestSingleTaskRuntime_ShutdownRejectsNewSpawns(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	rt := runner.Startup()
	runner.Shutdown()

	_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { return Ready(1) }))
	require.Error(t, err)
	var taskErr *Error
	require.ErrorAs(t, err, &taskErr)
	require.Equal(t, ErrKindSpawnClosed, taskErr.Kind)
}

func TestSingleTaskRuntime_PanicRecovered(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	rt := runner.Startup()
	ctx := context.Background()

	_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { panic("boom") }))
	require.NoError(t, err)

	require.NotPanics(t, func() { rt.RunOnce(ctx) })
	require.Equal(t, uint64(1), rt.Stats().Completed)
}
