package taskrt

import (
	"github.com/joeycumines/logiface"
)

// LogifaceLogger adapts a logiface.Logger[logiface.Event] to this
// package's Logger interface, so WithLogger can be backed by any writer
// logiface itself supports (zerolog, logrus, slog, stumpy, a test
// harness, ...) instead of only DefaultLogger.
type LogifaceLogger struct {
	L *logiface.Logger[logiface.Event]
}

// NewLogifaceLogger wraps l.
func NewLogifaceLogger(l *logiface.Logger[logiface.Event]) *LogifaceLogger {
	return &LogifaceLogger{L: l}
}

func toLogifaceLevel(level LogLevel) logiface.Level {
	switch level {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

func (a *LogifaceLogger) IsEnabled(level LogLevel) bool {
	if a == nil || a.L == nil {
		return false
	}
	b := a.L.Build(toLogifaceLevel(level))
	enabled := b.Enabled()
	b.Release()
	return enabled
}

// Log forwards entry as a single logiface event. Builder.Log is a no-op
// when the level isn't enabled, so this never needs its own gating.
func (a *LogifaceLogger) Log(entry LogEntry) {
	if a == nil || a.L == nil {
		return
	}
	b := a.L.Build(toLogifaceLevel(entry.Level)).
		Str("category", entry.Category).
		Str("runtime", entry.RuntimeName).
		Uint64("task", uint64(entry.TaskID))
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	b.Log(entry.Message)
}
