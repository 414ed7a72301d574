package taskrt

// Poll is the result of driving a Future one step. A zero-value Poll is
// not ready (Value is the zero value of O).
type Poll[O any] struct {
	Value O
	Ready bool
}

// Ready constructs a completed Poll.
func Ready[O any](v O) Poll[O] { return Poll[O]{Value: v, Ready: true} }

// Pending constructs an unresolved Poll.
func Pending[O any]() Poll[O] { return Poll[O]{} }

// Waker resumes whatever task installed it. Wake must be safe to call
// more than once (only the first call after a park has any effect). The
// wakers of SingleTaskRuntime and MultiTaskRuntime tasks are safe to call
// from any goroutine; a LocalQueue task's waker is not synchronized and
// is only safe from the goroutine that owns the queue.
type Waker interface {
	Wake()
}

// Future is a task's single unit of suspendable work. Poll drives the
// future forward. If it returns a Poll that isn't Ready, the future must
// have arranged, before returning, for w.Wake to be invoked at least once
// when it can usefully be polled again. Failing to do so leaves the task
// parked forever; runtimes may, but need not, detect this.
type Future[O any] interface {
	Poll(w Waker) Poll[O]
}

// FutureFunc adapts a plain closure to the Future interface.
type FutureFunc[O any] func(w Waker) Poll[O]

func (f FutureFunc[O]) Poll(w Waker) Poll[O] { return f(w) }

// Outcome is this module's stand-in for a fallible result: the payload
// every cross-runtime combinator (AsyncValue, Wait, WaitAny, AsyncMap)
// operates over.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Outcome[T] { return Outcome[T]{Value: v} }

// Err wraps a failure.
func Err[T any](err error) Outcome[T] {
	var zero T
	return Outcome[T]{Value: zero, Err: err}
}

// taskWaker is the concrete Waker every runtime in this module hands to a
// task's Poll call: a cheap, comparable-by-value bundle of (spawner, id).
// There is no separate waker registry; waking is exactly
// spawner.Wakeup(id).
type taskWaker[O any] struct {
	spawner AsyncSpawner[O]
	id      TaskID
}

func (w taskWaker[O]) Wake() {
	if w.spawner != nil {
		w.spawner.Wakeup(w.id)
	}
}
