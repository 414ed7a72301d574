package taskrt

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel is the severity of a LogEntry.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// LogEntry is a single structured log record emitted by a runtime.
// Category mirrors the task lifecycle transitions this module cares
// about, not a generic free-form string.
type LogEntry struct {
	Level       LogLevel
	Category    string // "spawn", "park", "wake", "panic", "shutdown"
	RuntimeName string
	TaskID      TaskID
	Message     string
	Err         error
	Timestamp   time.Time
}

// Logger is the pluggable logging seam every runtime constructor accepts
// via WithLogger. It is deliberately tiny so external logging frameworks
// (logiface, zerolog, logrus, ...) can be bridged in with a single
// adapter type, the way LogifaceLogger bridges github.com/joeycumines/logiface.
type Logger interface {
	Log(entry LogEntry)
	IsEnabled(level LogLevel) bool
}

// NoOpLogger discards every entry. It is the default when no Logger is
// configured.
type NoOpLogger struct{}

func (NoOpLogger) Log(LogEntry) {}

func (NoOpLogger) IsEnabled(LogLevel) bool { return false }

// DefaultLogger is a minimal Logger writing to an *os.File, pretty-printed
// for a terminal and as single-line JSON otherwise.
type DefaultLogger struct {
	level atomic.Int32
	mu    sync.Mutex
	Out   *os.File
}

// NewDefaultLogger creates a DefaultLogger writing to os.Stderr at the
// given minimum level.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	l := &DefaultLogger{Out: os.Stderr}
	l.level.Store(int32(level))
	return l
}

func (l *DefaultLogger) SetLevel(level LogLevel) { l.level.Store(int32(level)) }

func (l *DefaultLogger) IsEnabled(level LogLevel) bool {
	return level >= LogLevel(l.level.Load())
}

func (l *DefaultLogger) Log(entry LogEntry) {
	if !l.IsEnabled(entry.Level) {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if isTerminal(l.Out) {
		l.logPretty(entry)
	} else {
		l.logJSON(entry)
	}
}

func (l *DefaultLogger) logPretty(entry LogEntry) {
	fmt.Fprintf(l.Out, "%s %s [%-8s] rt=%s task=%d %s",
		entry.Timestamp.Format("15:04:05.000"),
		entry.Level,
		entry.Category,
		entry.RuntimeName,
		entry.TaskID,
		entry.Message,
	)
	if entry.Err != nil {
		fmt.Fprintf(l.Out, " err=%v\n", entry.Err)
	} else {
		fmt.Fprintln(l.Out)
	}
}

func (l *DefaultLogger) logJSON(entry LogEntry) {
	fmt.Fprintf(l.Out, "{\"timestamp\":\"%s\",\"level\":%q,\"category\":%q,\"runtime\":%q,\"task\":%d,\"message\":%q",
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.Level.String(),
		entry.Category,
		entry.RuntimeName,
		entry.TaskID,
		entry.Message,
	)
	if entry.Err != nil {
		fmt.Fprintf(l.Out, ",\"error\":%q}\n", entry.Err.Error())
	} else {
		fmt.Fprintln(l.Out, "}")
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
