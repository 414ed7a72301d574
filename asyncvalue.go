package taskrt

import "sync"

type asyncValueState int8

const (
	avEmpty asyncValueState = iota
	avFilled
	avTaken
)

// AsyncValue is a one-shot cross-runtime rendezvous slot: at most one
// Set, at most one waiter. It implements Future[T] directly, so it
// composes with Wait/WaitAny/AsyncMap without a separate awaiter type.
//
// The value doesn't need to be constructed with a reference to the
// consumer's runtime: Set wakes whichever Waker the most recent Poll
// call installed, and that Waker already names the consumer's runtime
// and task, so the binding happens naturally at Poll time rather than
// at construction.
type AsyncValue[T any] struct {
	mu     sync.Mutex
	state  asyncValueState
	value  T
	waiter Waker
}

// NewAsyncValue constructs an empty value.
func NewAsyncValue[T any]() *AsyncValue[T] { return &AsyncValue[T]{} }

// Set fills the value. If a waiter is installed, it is woken; otherwise
// the value transitions straight to Filled and the eventual Poll caller
// observes it without ever parking. A second Set returns
// ErrKindValueAlreadySet; the second setter loses.
func (v *AsyncValue[T]) Set(val T) error {
	v.mu.Lock()
	if v.state != avEmpty {
		v.mu.Unlock()
		return newError(ErrKindValueAlreadySet, "AsyncValue already set")
	}
	waiter := v.waiter
	v.waiter = nil
	v.value = val
	v.state = avFilled
	v.mu.Unlock()

	if waiter != nil {
		waiter.Wake()
	}
	return nil
}

// Poll implements Future[T]. A Filled value is returned immediately
// (transitioning to Taken); an Empty value installs w as the sole waiter
// and returns Pending.
func (v *AsyncValue[T]) Poll(w Waker) Poll[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case avFilled:
		v.state = avTaken
		return Ready(v.value)
	default:
		v.waiter = w
		return Poll[T]{}
	}
}
