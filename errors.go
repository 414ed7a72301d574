package taskrt

import "fmt"

// ErrorKind classifies the scheduler-level failures a caller may observe.
type ErrorKind int

const (
	// ErrKindSpawnClosed indicates Spawn was called against a runtime that
	// has already torn down.
	ErrKindSpawnClosed ErrorKind = iota
	// ErrKindTaskMissing indicates an operation referenced a TaskID that
	// the runtime has no record of (already finished and possibly reused).
	ErrKindTaskMissing
	// ErrKindValueAlreadySet indicates a second Set call on an AsyncValue.
	ErrKindValueAlreadySet
	// ErrKindRuntimeShutdown indicates the runtime is shutting down and
	// can no longer accept the requested operation.
	ErrKindRuntimeShutdown
	// ErrKindWaitFailed wraps an inner failure surfaced by a cross-runtime
	// composition (Wait, WaitAny, AsyncMap) or a recovered future panic.
	ErrKindWaitFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindSpawnClosed:
		return "SpawnClosed"
	case ErrKindTaskMissing:
		return "TaskMissing"
	case ErrKindValueAlreadySet:
		return "ValueAlreadySet"
	case ErrKindRuntimeShutdown:
		return "RuntimeShutdown"
	case ErrKindWaitFailed:
		return "WaitFailed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the concrete error type returned across this module's public
// surface. It carries a Kind for programmatic matching plus an optional
// wrapped Cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// newError constructs an *Error, satisfying the common call shape used
// throughout this module.
func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// wrapError wraps cause under the given kind.
func wrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// AsyncSpawner is the common surface implemented by LocalQueue,
// SingleTaskRuntime, MultiTaskRuntime, and AsyncRuntime: cross-runtime
// combinators are written against this interface alone, so they never
// need to know which substrate hosts a given branch.
type AsyncSpawner[O any] interface {
	// Alloc reserves a fresh TaskID.
	Alloc() TaskID
	// Spawn submits fut under id in the Ready state.
	Spawn(id TaskID, fut Future[O]) error
	// Wakeup moves a Parked task back to Ready; a no-op for any other
	// state, including an id that no longer names a live task.
	Wakeup(id TaskID)
	// Pending marks a running id as parked and returns a non-ready Poll,
	// for hand-written futures that need to park outside of the runtime's
	// own poll loop. w is not stored: Wakeup(id) alone resumes the task.
	Pending(id TaskID, w Waker) Poll[O]
}
