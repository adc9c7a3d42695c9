// Package spinai provides a high-level façade for running documentation
// pipelines. Most applications interact with this package by:
//  1. Creating a Runtime via New() (optionally overriding the report store,
//     limits and logger)
//  2. Building a root action, typically mintlify.NewDocUpdateAgent
//  3. Running it for a pull request with Run and inspecting the RunReport
//
// The façade delegates orchestration to engine.Engine. All defaults are safe
// for local development; long-running services usually supply a structured
// logger and tune the concurrency and timeout limits.
package spinai

import (
	"context"
	"time"

	"github.com/haikalllp/spinai-fork/artifact"
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/engine"
	"github.com/haikalllp/spinai-fork/logging"
)

// ErrRunNotFound is returned by Report for unknown or evicted runs.
var ErrRunNotFound = engine.ErrRunNotFound

// Options configures the Runtime.
type Options struct {
	// MaxConcurrentRuns bounds simultaneous runs. 0 means unlimited.
	MaxConcurrentRuns int

	// RunTimeout is applied to every run. 0 disables the deadline.
	RunTimeout time.Duration

	// MaxModelCalls caps LLM calls per run. 0 means unlimited.
	MaxModelCalls int

	// Artifacts stores run reports (defaults to a bounded in-memory store).
	Artifacts core.ArtifactStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Runtime runs pipeline actions and keeps their reports.
type Runtime struct {
	opts   Options
	engine *engine.Engine
}

// New creates a Runtime with optional overrides.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		MaxConcurrentRuns: engine.DefaultConfig.MaxConcurrentRuns,
		RunTimeout:        engine.DefaultConfig.RunTimeout,
		Artifacts:         artifact.NewInMemoryStore(artifact.DefaultMaxRuns),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = engine.Config{
			MaxConcurrentRuns: opts.MaxConcurrentRuns,
			RunTimeout:        opts.RunTimeout,
			MaxModelCalls:     opts.MaxModelCalls,
		}
		o.ArtifactStore = opts.Artifacts
		o.Logger = opts.Logger
	})

	return &Runtime{opts: opts, engine: e}
}

// Run executes action for state and returns the stored report.
func (r *Runtime) Run(ctx context.Context, action core.Action, state core.ReviewState) (*core.RunReport, error) {
	return r.engine.Run(ctx, action, state)
}

// Report returns a previously stored run report.
func (r *Runtime) Report(runID string) (*core.RunReport, error) {
	return r.engine.Report(runID)
}

// Stop cancels an active run.
func (r *Runtime) Stop(runID string) error { return r.engine.StopRun(runID) }

// RegisterCallback adds an engine lifecycle hook.
func (r *Runtime) RegisterCallback(cb engine.Callback) { r.engine.RegisterCallback(cb) }
