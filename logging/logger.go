package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a case-insensitive level name into a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface used across the pipeline.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewSlogLogger builds a Logger writing text or JSON records to w.
// A nil writer means stderr.
func NewSlogLogger(level LogLevel, format string, addSource bool, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slogLevel(level), AddSource: addSource}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return NewSlogAdapter(slog.New(handler))
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger that attaches args to every record. slog-backed
// loggers use slog's native attribute cloning.
func With(l Logger, args ...any) Logger {
	if l == nil {
		return NoOpLogger{}
	}

	if len(args) == 0 {
		return l
	}

	switch tl := l.(type) {
	case NoOpLogger:
		return tl
	case *SlogAdapter:
		return &SlogAdapter{Logger: tl.Logger.With(args...)}
	case *contextLogger:
		merged := make([]any, 0, len(tl.args)+len(args))
		merged = append(merged, tl.args...)
		merged = append(merged, args...)

		return &contextLogger{next: tl.next, args: merged}
	default:
		return &contextLogger{next: l, args: args}
	}
}

// contextLogger prepends fixed attributes for Logger implementations that
// are not slog based.
type contextLogger struct {
	next Logger
	args []any
}

func (c *contextLogger) merge(args []any) []any {
	out := make([]any, 0, len(c.args)+len(args))
	out = append(out, c.args...)

	return append(out, args...)
}

func (c *contextLogger) Debug(msg string, args ...any) { c.next.Debug(msg, c.merge(args)...) }
func (c *contextLogger) Info(msg string, args ...any)  { c.next.Info(msg, c.merge(args)...) }
func (c *contextLogger) Warn(msg string, args ...any)  { c.next.Warn(msg, c.merge(args)...) }
func (c *contextLogger) Error(msg string, args ...any) { c.next.Error(msg, c.merge(args)...) }

// LogLLMCall records model call latency and success.
func LogLLMCall(l Logger, model string, dur time.Duration, err error) {
	if err != nil {
		l.Error("LLM call failed", "model", model, "duration", dur, "success", false, "error", err.Error())
		return
	}

	l.Debug("LLM call completed", "model", model, "duration", dur, "success", true)
}

// LogHostCall records a source-control host request.
func LogHostCall(l Logger, op string, dur time.Duration, err error) {
	if err != nil {
		l.Warn("Host call failed", "operation", op, "duration", dur, "success", false, "error", err.Error())
		return
	}

	l.Debug("Host call completed", "operation", op, "duration", dur, "success", true)
}

// LogActionExecution records a pipeline action run.
func LogActionExecution(l Logger, action string, dur time.Duration, err error) {
	if err != nil {
		l.Error("Action execution failed", "action", action, "duration", dur, "success", false, "error", err.Error())
		return
	}

	l.Info("Action execution completed", "action", action, "duration", dur, "success", true)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
