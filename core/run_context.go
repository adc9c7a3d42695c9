package core

import (
	"context"
	"fmt"

	"github.com/haikalllp/spinai-fork/logging"
)

// RunContext carries the per-run execution scope passed to an Action's Run
// method: the ambient cancellation Context, the run identifier, the model
// call limiter and a logger already tagged with the run ID.
type RunContext struct {
	Context context.Context
	RunID   string
	Limiter *ModelLimiter

	*runLogger
}

// NewRunContext constructs a RunContext. maxModelCalls == 0 means unlimited.
func NewRunContext(ctx context.Context, runID string, maxModelCalls int, logger logging.Logger) *RunContext {
	if ctx == nil {
		ctx = context.Background()
	}

	return &RunContext{
		Context:   ctx,
		RunID:     runID,
		Limiter:   NewModelLimiter(maxModelCalls),
		runLogger: newRunLogger(logger, "run_id", runID),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// ForAction derives a context whose logger is tagged with the action name.
// Context and limiter are shared.
func (rc *RunContext) ForAction(name string) *RunContext {
	return &RunContext{
		Context:   rc.Context,
		RunID:     rc.RunID,
		Limiter:   rc.Limiter,
		runLogger: newRunLogger(rc.Logger(), "action", name),
	}
}

// WithContext returns a shallow copy bound to ctx.
func (rc *RunContext) WithContext(ctx context.Context) *RunContext {
	c := *rc
	c.Context = ctx

	return &c
}

// AcquireModelCall counts one model call against the run budget.
func (rc *RunContext) AcquireModelCall() error {
	if rc.Limiter == nil {
		return nil
	}

	if err := rc.Limiter.Increment(); err != nil {
		return fmt.Errorf("run %s: %w", rc.RunID, err)
	}

	return nil
}
