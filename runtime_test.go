package taskrt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsyncRuntime_FromSingleDispatches(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	single := runner.Startup()
	rt := FromSingle[int](single)

	id, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { return Ready(5) }))
	require.NoError(t, err)
	require.True(t, single.RunOnce(context.Background()))
	require.Equal(t, uint64(1), rt.Stats().Completed)

	rt.Wakeup(id) // finished task: must be a no-op, not a panic.
}

func TestAsyncRuntime_FromMultiDispatches(t *testing.T) {
	pool := NewMultiTaskPool[int](WithWorkers(2))
	multi := pool.Startup()
	defer pool.Shutdown()
	rt := FromMulti[int](multi)

	_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { return Ready(1) }))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rt.Stats().Completed == 1 }, secondTimeout, pollInterval)
}

func TestAsyncRuntime_ZeroValuePanics(t *testing.T) {
	var rt AsyncRuntime[int]
	require.Panics(t, func() { rt.Alloc() })
	require.Panics(t, func() { _ = rt.Spawn(TaskID(1), FutureFunc[int](func(w Waker) Poll[int] { return Ready(1) })) })
	require.Panics(t, func() { rt.Pending(TaskID(1), nil) })
	require.NotPanics(t, func() { rt.Wakeup(TaskID(1)) })
	require.Equal(t, RuntimeStats{}, rt.Stats())
}

func TestSpawnOn_PropagatesSpawnError(t *testing.T) {
	runner := NewSingleTaskRunner[int]()
	rt := runner.Startup()
	runner.Shutdown()

	_, err := SpawnOn[int](rt, FutureFunc[int](func(w Waker) Poll[int] { return Ready(1) }))
	require.Error(t, err)
}
