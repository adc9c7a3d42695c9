package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/haikalllp/spinai-fork/core"
)

// CallbackType identifies the lifecycle point at which a callback runs.
type CallbackType string

const (
	// CallbackBeforeRun fires before the root action starts.
	CallbackBeforeRun CallbackType = "before_run"

	// CallbackAfterRun fires once the run report has been stored.
	CallbackAfterRun CallbackType = "after_run"

	// CallbackOnError fires when the root action returns an error.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries run data to a callback. Report is nil for
// CallbackBeforeRun; Err is set only for CallbackOnError.
type CallbackContext struct {
	RunID        string
	Action       string
	CallbackType CallbackType
	State        core.ReviewState
	Report       *core.RunReport
	Err          error
}

// Callback is a hook executed at one lifecycle point.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, cbCtx *CallbackContext) error
}

// FunctionCallback adapts a function to Callback.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, cbCtx *CallbackContext) error
}

// NewFunctionCallback creates a callback of the given type backed by fn.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, cbCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type implements Callback.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *FunctionCallback) Execute(ctx context.Context, cbCtx *CallbackContext) error {
	return c.fn(ctx, cbCtx)
}

// CallbackManager stores callbacks by type. It is safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback appends callback to the list for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	t := callback.Type()
	cm.callbacks[t] = append(cm.callbacks[t], callback)
}

// ExecuteCallbacks runs the callbacks registered for callbackType in
// registration order, stopping at the first error.
func (cm *CallbackManager) ExecuteCallbacks(ctx context.Context, callbackType CallbackType, cbCtx *CallbackContext) error {
	cm.mu.RLock()
	callbacks := cm.callbacks[callbackType]
	cm.mu.RUnlock()

	cbCtx.CallbackType = callbackType

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, cbCtx); err != nil {
			return fmt.Errorf("%s callback: %w", callbackType, err)
		}
	}

	return nil
}

// LoggingCallback writes a one-line summary of each callback invocation.
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a LoggingCallback for callbackType.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type implements Callback.
func (c *LoggingCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *LoggingCallback) Execute(_ context.Context, cbCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	msg := fmt.Sprintf("[%s] run=%s action=%s repo=%s/%s pr=%d",
		c.callbackType, cbCtx.RunID, cbCtx.Action, cbCtx.State.Owner, cbCtx.State.Repo, cbCtx.State.PullNumber)

	if cbCtx.Report != nil {
		msg += fmt.Sprintf(" status=%s duration=%s", cbCtx.Report.Status, cbCtx.Report.Duration())
	}

	if cbCtx.Err != nil {
		msg += " error=" + cbCtx.Err.Error()
	}

	c.logger(msg)

	return nil
}
