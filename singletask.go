package taskrt

import (
	"context"
	"sync"
)

// SingleTaskRunner owns a cooperative single-thread runtime: tasks are
// polled one at a time, only by whichever goroutine calls RunOnce, while
// Spawn/Wakeup/Pending remain safe to call from any goroutine. The split
// is deliberate: the external driver decides who can block, while anyone
// holding a handle can spawn.
type SingleTaskRunner[O any] struct {
	core *core[O]

	mu    sync.Mutex
	ready []TaskID
}

// NewSingleTaskRunner constructs a runner. WithWorkers is not meaningful
// here (a single-task runner always has exactly one logical driver) and
// is ignored.
func NewSingleTaskRunner[O any](opts ...RuntimeOption) *SingleTaskRunner[O] {
	cfg := resolveRuntimeOptions(opts)
	r := &SingleTaskRunner[O]{}
	r.core = newCore[O](cfg.name, cfg.logger, r.push)
	return r
}

func (r *SingleTaskRunner[O]) push(id TaskID) {
	r.mu.Lock()
	r.ready = append(r.ready, id)
	r.mu.Unlock()
}

func (r *SingleTaskRunner[O]) pop() (TaskID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ready) == 0 {
		return 0, false
	}
	id := r.ready[0]
	r.ready = r.ready[1:]
	return id, true
}

// Startup returns a cloneable handle used to spawn, wake, and (for
// whichever goroutine is designated the driver) run tasks.
func (r *SingleTaskRunner[O]) Startup() SingleTaskRuntime[O] {
	return SingleTaskRuntime[O]{r: r}
}

// Shutdown stops accepting new spawns. In-flight and parked tasks are
// left alone; this module has no preemption.
func (r *SingleTaskRunner[O]) Shutdown() { r.core.shutdown() }

// SingleTaskRuntime is the handle returned by Startup. It is a thin,
// cheap-to-copy wrapper around the runner, implementing AsyncSpawner[O]
// so cross-runtime combinators can treat it the same as a
// MultiTaskRuntime.
type SingleTaskRuntime[O any] struct {
	r *SingleTaskRunner[O]
}

func (rt SingleTaskRuntime[O]) Alloc() TaskID { return rt.r.core.Alloc() }

func (rt SingleTaskRuntime[O]) Spawn(id TaskID, fut Future[O]) error {
	return rt.r.core.Spawn(id, fut)
}

func (rt SingleTaskRuntime[O]) Wakeup(id TaskID) { rt.r.core.Wakeup(id) }

func (rt SingleTaskRuntime[O]) Pending(id TaskID, w Waker) Poll[O] {
	return rt.r.core.Pending(id, w)
}

func (rt SingleTaskRuntime[O]) Stats() RuntimeStats { return rt.r.core.stats() }

// RunOnce pops and polls at most one ready task, reporting whether it
// did. Meant to be called repeatedly by an external driver (a ticker, an
// event-loop iteration, a test loop); nothing about this runtime ever
// blocks a goroutine waiting for work.
func (rt SingleTaskRuntime[O]) RunOnce(ctx context.Context) bool {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return false
		default:
		}
	}
	id, ok := rt.r.pop()
	if !ok {
		return false
	}
	w := taskWaker[O]{spawner: rt, id: id}
	return rt.r.core.pollOne(id, w)
}
