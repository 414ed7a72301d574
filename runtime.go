package taskrt

// AsyncRuntime is a tagged union over the two runtimes whose handles are
// safely shareable across goroutines (SingleTaskRuntime, MultiTaskRuntime;
// LocalQueue is deliberately excluded, since it is never shareable).
// A field-based union dispatching inside each method is simpler here than
// an interface plus type switch, since the two variants implement nearly
// every method identically: it's a uniform spawn/wakeup surface, not a
// sum type consumers branch on.
type AsyncRuntime[O any] struct {
	single *SingleTaskRuntime[O]
	multi  *MultiTaskRuntime[O]
}

// FromSingle wraps a SingleTaskRuntime handle.
func FromSingle[O any](rt SingleTaskRuntime[O]) AsyncRuntime[O] {
	return AsyncRuntime[O]{single: &rt}
}

// FromMulti wraps a MultiTaskRuntime handle.
func FromMulti[O any](rt MultiTaskRuntime[O]) AsyncRuntime[O] {
	return AsyncRuntime[O]{multi: &rt}
}

func (a AsyncRuntime[O]) Alloc() TaskID {
	switch {
	case a.single != nil:
		return a.single.Alloc()
	case a.multi != nil:
		return a.multi.Alloc()
	default:
		panic("taskrt: zero-value AsyncRuntime")
	}
}

func (a AsyncRuntime[O]) Spawn(id TaskID, fut Future[O]) error {
	switch {
	case a.single != nil:
		return a.single.Spawn(id, fut)
	case a.multi != nil:
		return a.multi.Spawn(id, fut)
	default:
		panic("taskrt: zero-value AsyncRuntime")
	}
}

func (a AsyncRuntime[O]) Wakeup(id TaskID) {
	switch {
	case a.single != nil:
		a.single.Wakeup(id)
	case a.multi != nil:
		a.multi.Wakeup(id)
	}
}

func (a AsyncRuntime[O]) Pending(id TaskID, w Waker) Poll[O] {
	switch {
	case a.single != nil:
		return a.single.Pending(id, w)
	case a.multi != nil:
		return a.multi.Pending(id, w)
	default:
		panic("taskrt: zero-value AsyncRuntime")
	}
}

func (a AsyncRuntime[O]) Stats() RuntimeStats {
	switch {
	case a.single != nil:
		return a.single.Stats()
	case a.multi != nil:
		return a.multi.Stats()
	default:
		return RuntimeStats{}
	}
}

// SpawnOn allocates a fresh TaskID on a and spawns fut under it, the
// common "give me a new task" shortcut every combinator in this module
// uses. It takes the AsyncSpawner interface rather than a concrete
// runtime type so it works uniformly across LocalQueue,
// SingleTaskRuntime, MultiTaskRuntime, and AsyncRuntime.
func SpawnOn[O any](a AsyncSpawner[O], fut Future[O]) (TaskID, error) {
	id := a.Alloc()
	if err := a.Spawn(id, fut); err != nil {
		return id, err
	}
	return id, nil
}
