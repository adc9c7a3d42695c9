package core

import "github.com/haikalllp/spinai-fork/logging"

// runLogger is embedded by RunContext so actions can log through rc.LogInfo
// and friends. Records carry the run_id (and, below ForAction, the action)
// attributes attached when the context was built.
type runLogger struct {
	l logging.Logger
}

func newRunLogger(l logging.Logger, args ...any) *runLogger {
	if l == nil {
		return &runLogger{l: logging.NoOpLogger{}}
	}

	return &runLogger{l: logging.With(l, args...)}
}

// Logger returns the tagged logger, for handing to helpers such as
// logging.LogHostCall.
func (r *runLogger) Logger() logging.Logger { return r.l }

func (r *runLogger) LogDebug(msg string, args ...any) { r.l.Debug(msg, args...) }
func (r *runLogger) LogInfo(msg string, args ...any)  { r.l.Info(msg, args...) }
func (r *runLogger) LogWarn(msg string, args ...any)  { r.l.Warn(msg, args...) }
func (r *runLogger) LogError(msg string, args ...any) { r.l.Error(msg, args...) }
