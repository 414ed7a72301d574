package taskrt

import "time"

// runtimeOptions holds configuration shared by SingleTaskRunner and
// MultiTaskPool constructors.
type runtimeOptions struct {
	name         string
	workers      int
	stackHint    int
	idleInterval time.Duration
	logger       Logger
}

func defaultRuntimeOptions() *runtimeOptions {
	return &runtimeOptions{
		name:         "taskrt",
		workers:      1,
		idleInterval: 10 * time.Millisecond,
		logger:       NoOpLogger{},
	}
}

// RuntimeOption configures a SingleTaskRunner or MultiTaskPool.
type RuntimeOption interface {
	apply(*runtimeOptions)
}

// runtimeOptionImpl implements RuntimeOption: an interface wrapping an
// unexported closure-applying struct, so the option set can grow without
// breaking callers.
type runtimeOptionImpl struct {
	f func(*runtimeOptions)
}

func (o *runtimeOptionImpl) apply(opts *runtimeOptions) { o.f(opts) }

// WithName sets the runtime's diagnostic tag, used in log entries and in
// the error message of a Spawn on a closed runtime.
func WithName(name string) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) { opts.name = name }}
}

// WithWorkers sets MultiTaskPool's worker count. Ignored by
// SingleTaskRunner, which is always exactly one driver. Values < 1 are
// clamped to 1.
func WithWorkers(w int) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) {
		if w < 1 {
			w = 1
		}
		opts.workers = w
	}}
}

// WithStack records a per-worker goroutine stack size hint. Go grows
// goroutine stacks dynamically, so this is advisory configuration
// surface only, not enforced.
func WithStack(bytes int) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) { opts.stackHint = bytes }}
}

// WithIdleInterval sets how long a MultiTaskPool worker waits on an empty
// ready queue before re-checking shutdown.
func WithIdleInterval(d time.Duration) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) {
		if d <= 0 {
			d = time.Millisecond
		}
		opts.idleInterval = d
	}}
}

// WithLogger installs a Logger for spawn/park/wake/panic/shutdown
// diagnostics. The default is NoOpLogger.
func WithLogger(l Logger) RuntimeOption {
	return &runtimeOptionImpl{func(opts *runtimeOptions) {
		if l == nil {
			l = NoOpLogger{}
		}
		opts.logger = l
	}}
}

func resolveRuntimeOptions(opts []RuntimeOption) *runtimeOptions {
	cfg := defaultRuntimeOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	return cfg
}
