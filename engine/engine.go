package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/haikalllp/spinai-fork/artifact"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
)

// ErrRunNotFound is returned for unknown or evicted run IDs.
var ErrRunNotFound = errors.New("run not found")

// Config defines the operational limits of an Engine.
type Config struct {
	// MaxConcurrentRuns bounds how many runs execute at once. 0 means
	// unlimited.
	MaxConcurrentRuns int

	// RunTimeout is the deadline applied to every run. 0 disables it.
	RunTimeout time.Duration

	// MaxModelCalls caps model calls per run. 0 means unlimited.
	MaxModelCalls int
}

// DefaultConfig provides the engine defaults: four concurrent runs, a ten
// minute deadline and no model call cap.
var DefaultConfig = Config{
	MaxConcurrentRuns: 4,
	RunTimeout:        10 * time.Minute,
}

// Options configures an Engine.
type Options struct {
	Config Config

	// ArtifactStore receives run reports. Defaults to a bounded in-memory
	// store.
	ArtifactStore core.ArtifactStore

	// Callbacks holds lifecycle hooks. Defaults to an empty manager.
	Callbacks *CallbackManager

	Logger logging.Logger

	// Now and NewRunID are replaceable for tests.
	Now      func() time.Time
	NewRunID func() string
}

// Engine runs actions, enforces limits and records run reports. It is safe
// for concurrent use.
type Engine struct {
	config    Config
	artifacts core.ArtifactStore
	callbacks *CallbackManager
	logger    logging.Logger
	now       func() time.Time
	newRunID  func() string

	sem chan struct{}

	mu         sync.RWMutex
	activeRuns map[string]context.CancelFunc
}

// New creates an Engine with defaults for every unset option.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:        DefaultConfig,
		ArtifactStore: artifact.NewInMemoryStore(artifact.DefaultMaxRuns),
		Callbacks:     NewCallbackManager(),
		Logger:        logging.NoOpLogger{},
		Now:           time.Now,
		NewRunID:      uuid.NewString,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := &Engine{
		config:     opts.Config,
		artifacts:  opts.ArtifactStore,
		callbacks:  opts.Callbacks,
		logger:     opts.Logger,
		now:        opts.Now,
		newRunID:   opts.NewRunID,
		activeRuns: make(map[string]context.CancelFunc),
	}

	if opts.Config.MaxConcurrentRuns > 0 {
		e.sem = make(chan struct{}, opts.Config.MaxConcurrentRuns)
	}

	return e
}

// RegisterCallback adds a lifecycle hook.
func (e *Engine) RegisterCallback(cb Callback) { e.callbacks.RegisterCallback(cb) }

// Run executes action against state and blocks until it finishes. The
// returned report is never nil once the state has been validated; err is
// the action's error, if any. A report is stored for failed runs too.
func (e *Engine) Run(ctx context.Context, action core.Action, state core.ReviewState) (*core.RunReport, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	if err := e.acquire(ctx); err != nil {
		return nil, fmt.Errorf("waiting for run slot: %w", err)
	}
	defer e.release()

	runID := e.newRunID()

	runCtx, cancel := e.runContext(ctx)
	defer cancel()

	e.mu.Lock()
	e.activeRuns[runID] = cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.activeRuns, runID)
		e.mu.Unlock()
	}()

	rc := core.NewRunContext(runCtx, runID, e.config.MaxModelCalls, e.logger)

	cbCtx := &CallbackContext{RunID: runID, Action: action.Name(), State: state}
	if err := e.callbacks.ExecuteCallbacks(runCtx, CallbackBeforeRun, cbCtx); err != nil {
		return nil, err
	}

	rc.LogInfo("Run started", "action", action.Name(), "owner", state.Owner, "repo", state.Repo, "pull_number", state.PullNumber)

	started := e.now()
	final, runErr := action.Run(rc, state)

	report := &core.RunReport{
		RunID:      runID,
		Action:     action.Name(),
		Owner:      state.Owner,
		Repo:       state.Repo,
		PullNumber: state.PullNumber,
		Status:     core.RunSucceeded,
		StartedAt:  started,
		FinishedAt: e.now(),
		ModelCalls: rc.Limiter.Count(),
		State:      final,
	}

	if runErr != nil {
		report.Status = core.RunFailed
		report.Error = runErr.Error()

		rc.LogError("Run failed", "error", runErr.Error(), "duration", report.Duration())

		cbCtx.Err = runErr
		if err := e.callbacks.ExecuteCallbacks(runCtx, CallbackOnError, cbCtx); err != nil {
			rc.LogWarn("Callback failed", "error", err.Error())
		}
	} else {
		rc.LogInfo("Run completed", "duration", report.Duration(), "model_calls", report.ModelCalls)
	}

	if err := e.saveReport(report); err != nil {
		rc.LogWarn("Failed to store run report", "error", err.Error())
	}

	cbCtx.Report = report
	cbCtx.State = final

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterRun, cbCtx); err != nil {
		rc.LogWarn("Callback failed", "error", err.Error())
	}

	return report, runErr
}

func (e *Engine) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.RunTimeout > 0 {
		return context.WithTimeout(ctx, e.config.RunTimeout)
	}

	return context.WithCancel(ctx)
}

func (e *Engine) acquire(ctx context.Context) error {
	if e.sem == nil {
		return nil
	}

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() {
	if e.sem != nil {
		<-e.sem
	}
}

func (e *Engine) saveReport(r *core.RunReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return e.artifacts.Save(r.RunID, core.ReportArtifact, data)
}

// Report loads the stored report of a run.
func (e *Engine) Report(runID string) (*core.RunReport, error) {
	data, err := e.artifacts.Get(runID, core.ReportArtifact)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}

		return nil, err
	}

	var r core.RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", runID, err)
	}

	return &r, nil
}

// StopRun cancels an active run.
func (e *Engine) StopRun(runID string) error {
	e.mu.RLock()
	cancel, exists := e.activeRuns[runID]
	e.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s is not active", ErrRunNotFound, runID)
	}

	cancel()

	return nil
}

// ActiveRuns returns the IDs of runs currently executing.
func (e *Engine) ActiveRuns() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.activeRuns))
	for id := range e.activeRuns {
		ids = append(ids, id)
	}

	return ids
}
