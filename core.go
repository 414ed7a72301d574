package taskrt

import (
	"fmt"
	"sync"
)

// taskPhase is the internal state machine behind the
// Ready | Parked | Running | Finished task lifecycle, plus one extra
// phase (phaseRunningWoken) needed to avoid a lost wakeup: a Wakeup that
// arrives while a task is mid-Poll can't simply flip it to Parked (there
// is no parked state to wake from yet), so it's recorded instead and
// consumed the moment the poll finishes.
type taskPhase int32

const (
	phaseReady taskPhase = iota
	phaseRunning
	phaseRunningWoken
	phaseParked
	phaseFinished
)

type coreTask[O any] struct {
	mu    sync.Mutex
	fut   Future[O]
	phase taskPhase
}

// core is the task table and state machine shared by SingleTaskRuntime
// and MultiTaskRuntime. It knows nothing about how ready tasks are
// actually drained (a mutex-guarded slice for Single, a buffered channel
// for Multi); that's supplied as the enqueue callback, so the two
// runtimes differ only in their execution substrate.
type core[O any] struct {
	mu       sync.Mutex
	alloc    idAllocator
	tasks    map[TaskID]*coreTask[O]
	closed   bool
	counters schedCounters
	name     string
	logger   Logger
	enqueue  func(TaskID)
}

func newCore[O any](name string, logger Logger, enqueue func(TaskID)) *core[O] {
	return &core[O]{
		tasks:   make(map[TaskID]*coreTask[O]),
		name:    name,
		logger:  logger,
		enqueue: enqueue,
	}
}

func (c *core[O]) Alloc() TaskID { return c.alloc.alloc() }

func (c *core[O]) Spawn(id TaskID, fut Future[O]) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return newError(ErrKindSpawnClosed, fmt.Sprintf("spawn on closed runtime %q", c.name))
	}
	c.tasks[id] = &coreTask[O]{fut: fut, phase: phaseReady}
	c.mu.Unlock()

	c.counters.onSpawn()
	c.logger.Log(LogEntry{Level: LevelDebug, Category: "spawn", RuntimeName: c.name, TaskID: id})
	c.enqueue(id)
	return nil
}

func (c *core[O]) getTask(id TaskID) *coreTask[O] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks[id]
}

// Wakeup is the at-most-once resume transition: Parked -> Ready (and
// re-enqueued); Running -> remembered for when the in-flight poll
// returns; anything else (Ready, Running already-woken, Finished, or an
// id the task table has never heard of) is a silent no-op.
func (c *core[O]) Wakeup(id TaskID) {
	t := c.getTask(id)
	if t == nil {
		return
	}
	t.mu.Lock()
	switch t.phase {
	case phaseParked:
		t.phase = phaseReady
		t.mu.Unlock()
		c.counters.onUnpark()
		c.logger.Log(LogEntry{Level: LevelDebug, Category: "wake", RuntimeName: c.name, TaskID: id})
		c.enqueue(id)
	case phaseRunning:
		t.phase = phaseRunningWoken
		t.mu.Unlock()
	default:
		t.mu.Unlock()
	}
}

// Pending marks id Parked, unless a Wakeup raced in while it was running
// (phaseRunningWoken), in which case it goes straight back to Ready
// instead (the lost-wakeup guard). Calling it more than once for the
// same still-parked task (a hand-written future that parks itself, ahead
// of the runtime's own generic post-Poll bookkeeping) is a harmless
// no-op: only the Running -> Parked transition counts towards
// RuntimeStats.Parked.
func (c *core[O]) Pending(id TaskID, _ Waker) Poll[O] {
	t := c.getTask(id)
	if t == nil {
		return Poll[O]{}
	}
	t.mu.Lock()
	switch t.phase {
	case phaseRunningWoken:
		t.phase = phaseReady
		t.mu.Unlock()
		c.enqueue(id)
	case phaseRunning:
		t.phase = phaseParked
		t.mu.Unlock()
		c.counters.onPark()
		c.logger.Log(LogEntry{Level: LevelDebug, Category: "park", RuntimeName: c.name, TaskID: id})
	default:
		t.mu.Unlock()
	}
	return Poll[O]{}
}

// pollOne polls id exactly once if it's Ready, recovering a future panic
// at the poll boundary (the task is finished, the worker survives) and
// parking it via Pending otherwise. It reports whether id named a live
// Ready task.
func (c *core[O]) pollOne(id TaskID, w Waker) bool {
	t := c.getTask(id)
	if t == nil {
		return false
	}
	t.mu.Lock()
	if t.phase != phaseReady {
		t.mu.Unlock()
		return false
	}
	t.phase = phaseRunning
	fut := t.fut
	t.mu.Unlock()

	poll, panicVal := c.safePoll(fut, w, id)

	if panicVal != nil {
		c.finish(id)
		c.logger.Log(LogEntry{
			Level: LevelError, Category: "panic", RuntimeName: c.name, TaskID: id,
			Message: fmt.Sprintf("recovered: %v", panicVal),
		})
		return true
	}

	if poll.Ready {
		c.finish(id)
		return true
	}

	c.Pending(id, w)
	return true
}

func (c *core[O]) safePoll(fut Future[O], w Waker, id TaskID) (poll Poll[O], panicVal any) {
	defer func() {
		if r := recover(); r != nil {
			panicVal = r
		}
	}()
	poll = fut.Poll(w)
	return poll, nil
}

func (c *core[O]) finish(id TaskID) {
	c.mu.Lock()
	delete(c.tasks, id)
	c.mu.Unlock()
	c.alloc.release(id)
	c.counters.onComplete()
}

// shutdown marks the table closed; further Spawn calls fail with
// ErrKindSpawnClosed. Already-running or parked tasks are left as-is:
// this module has no preemption, so in-flight work always runs to
// completion or explicit suspension.
func (c *core[O]) shutdown() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.logger.Log(LogEntry{Level: LevelInfo, Category: "shutdown", RuntimeName: c.name})
}

func (c *core[O]) stats() RuntimeStats { return c.counters.snapshot() }
