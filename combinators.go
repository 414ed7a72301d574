package taskrt

import (
	"fmt"
	"sort"
	"sync/atomic"
)

func safePollOutcome[T any](fut Future[Outcome[T]], w Waker) (poll Poll[Outcome[T]], panicVal any) {
	defer func() {
		if r := recover(); r != nil {
			panicVal = r
		}
	}()
	poll = fut.Poll(w)
	return poll, nil
}

// Wait hosts fut on other, returning a Future the caller polls on its own
// runtime: a wrapper spawned on other drives fut to completion and Sets a
// value; the caller treats that value as an ordinary Future. This is the
// deadlock-avoidance primitive: the caller's driver thread is never
// blocked synchronously waiting on other's progress, since the returned
// value simply reports Pending until the wrapper completes.
//
// caller is accepted for signature symmetry with WaitAny and Map; the
// actual wake target is whichever Waker the consumer's own Poll call
// supplies when it polls the returned Future, so nothing needs to be
// stored against it up front.
func Wait[T any](caller, other AsyncSpawner[Outcome[T]], fut Future[Outcome[T]]) Future[Outcome[T]] {
	value := NewAsyncValue[Outcome[T]]()
	wrapper := FutureFunc[Outcome[T]](func(w Waker) Poll[Outcome[T]] {
		poll, panicVal := safePollOutcome(fut, w)
		if panicVal != nil {
			out := Err[T](wrapError(ErrKindWaitFailed, "panic in waited future", fmt.Errorf("%v", panicVal)))
			_ = value.Set(out)
			return Ready(out)
		}
		if !poll.Ready {
			return Poll[Outcome[T]]{}
		}
		_ = value.Set(poll.Value)
		return Ready(poll.Value)
	})
	if _, err := SpawnOn[Outcome[T]](other, wrapper); err != nil {
		_ = value.Set(Err[T](wrapError(ErrKindWaitFailed, "spawn on target runtime failed", err)))
	}
	return value
}

// WaitAnyBranch pairs a future with the runtime it should run on.
type WaitAnyBranch[T any] struct {
	Runtime AsyncSpawner[Outcome[T]]
	Future  Future[Outcome[T]]
}

// WaitAny races N branches, possibly hosted on different runtimes; the
// first to complete Sets a shared value and every later Set is
// swallowed; the race is explicit, not an error. Losing branches are
// not cancelled: nothing in this module's suspension model can interrupt
// an in-flight Poll, so they run to completion and their results are
// discarded.
func WaitAny[T any](branches []WaitAnyBranch[T]) Future[Outcome[T]] {
	value := NewAsyncValue[Outcome[T]]()
	for _, br := range branches {
		br := br
		wrapper := FutureFunc[Outcome[T]](func(w Waker) Poll[Outcome[T]] {
			poll, panicVal := safePollOutcome(br.Future, w)
			if panicVal != nil {
				out := Err[T](wrapError(ErrKindWaitFailed, "panic in wait_any branch", fmt.Errorf("%v", panicVal)))
				_ = value.Set(out)
				return Ready(out)
			}
			if !poll.Ready {
				return Poll[Outcome[T]]{}
			}
			_ = value.Set(poll.Value)
			return Ready(poll.Value)
		})
		if _, err := SpawnOn[Outcome[T]](br.Runtime, wrapper); err != nil {
			_ = value.Set(Err[T](wrapError(ErrKindWaitFailed, "spawn on branch runtime failed", err)))
		}
	}
	return value
}

type mapSubmission[T any] struct {
	runtime AsyncSpawner[Outcome[T]]
	fut     Future[Outcome[T]]
}

type mapError struct {
	seq uint64
	err error
}

// AsyncMap accumulates N submissions, possibly across different
// runtimes, and resolves once every one has completed. Join appends a
// pending submission; Map spawns them all and returns the aggregate
// Future.
type AsyncMap[T any] struct {
	submissions []mapSubmission[T]
}

// NewAsyncMap constructs an empty accumulator.
func NewAsyncMap[T any]() *AsyncMap[T] { return &AsyncMap[T]{} }

// Join appends a submission. Only meaningful before Map is called.
func (m *AsyncMap[T]) Join(rt AsyncSpawner[Outcome[T]], fut Future[Outcome[T]]) *AsyncMap[T] {
	m.submissions = append(m.submissions, mapSubmission[T]{runtime: rt, fut: fut})
	return m
}

// Map spawns every joined submission on its runtime, writing into a
// preallocated slot per submission index, and resolves once all N
// complete. If ordered, the result preserves submission order; otherwise
// it's sorted by completion order, stamped via a monotonic sequence as
// each submission finishes. If any submission fails, the overall result
// is Err, wrapping the first error by completion order; the remaining
// submissions still run to completion, their results simply discarded.
//
// caller, like Wait's, is accepted for signature symmetry; the wake
// target comes from whichever Waker polls the returned Future.
func (m *AsyncMap[T]) Map(caller AsyncSpawner[Outcome[[]T]], ordered bool) Future[Outcome[[]T]] {
	n := len(m.submissions)
	value := NewAsyncValue[Outcome[[]T]]()
	if n == 0 {
		_ = value.Set(Ok[[]T](nil))
		return value
	}

	type slot struct {
		value T
		seq   uint64
	}
	slots := make([]slot, n)
	var completed atomic.Uint64
	var seqCounter atomic.Uint64
	var firstErr atomic.Pointer[mapError]

	finishOne := func(i int, out Outcome[T]) {
		seq := seqCounter.Add(1)
		slots[i] = slot{value: out.Value, seq: seq}
		if out.Err != nil {
			firstErr.CompareAndSwap(nil, &mapError{seq: seq, err: out.Err})
		}
		if completed.Add(1) != uint64(n) {
			return
		}
		if fe := firstErr.Load(); fe != nil {
			_ = value.Set(Err[[]T](wrapError(ErrKindWaitFailed, "AsyncMap: one or more submissions failed", fe.err)))
			return
		}
		results := make([]T, n)
		if ordered {
			for i, s := range slots {
				results[i] = s.value
			}
		} else {
			order := make([]int, n)
			for i := range order {
				order[i] = i
			}
			sort.Slice(order, func(a, b int) bool { return slots[order[a]].seq < slots[order[b]].seq })
			for pos, idx := range order {
				results[pos] = slots[idx].value
			}
		}
		_ = value.Set(Ok[[]T](results))
	}

	for i, sub := range m.submissions {
		i, sub := i, sub
		wrapper := FutureFunc[Outcome[T]](func(w Waker) Poll[Outcome[T]] {
			poll, panicVal := safePollOutcome(sub.fut, w)
			if panicVal != nil {
				out := Err[T](wrapError(ErrKindWaitFailed, "panic in AsyncMap submission", fmt.Errorf("%v", panicVal)))
				finishOne(i, out)
				return Ready(out)
			}
			if !poll.Ready {
				return Poll[Outcome[T]]{}
			}
			finishOne(i, poll.Value)
			return Ready(poll.Value)
		})
		if _, err := SpawnOn[Outcome[T]](sub.runtime, wrapper); err != nil {
			finishOne(i, Err[T](wrapError(ErrKindWaitFailed, "spawn on submission runtime failed", err)))
		}
	}

	return value
}
