package testutil

import (
	"context"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
)

// StateBuilder provides a fluent helper for constructing review states.
// Example:
//
//	st := NewStateBuilder("acme", "widgets", 7).DocsPath("docs").Plan(plan).Build()
//
// Chain only the parts you need; the default configuration is applied.
type StateBuilder struct {
	state core.ReviewState
}

// NewStateBuilder starts from a fresh state with the default configuration.
func NewStateBuilder(owner, repo string, pullNumber int) *StateBuilder {
	return &StateBuilder{state: core.NewReviewState(owner, repo, pullNumber, core.DefaultDocConfig())}
}

// Config replaces the configuration.
func (b *StateBuilder) Config(cfg core.DocConfig) *StateBuilder { b.state.Config = cfg; return b }

// DocsPath sets the documentation root.
func (b *StateBuilder) DocsPath(p string) *StateBuilder { b.state.Config.DocsPath = p; return b }

// DocsRepo points the run at a separate documentation repository.
func (b *StateBuilder) DocsRepo(owner, repo, branch string) *StateBuilder {
	b.state.DocsRepo = &core.DocsRepo{Owner: owner, Repo: repo, Branch: branch}
	return b
}

// Analysis attaches a code analysis.
func (b *StateBuilder) Analysis(a core.CodeAnalysis) *StateBuilder {
	b.state = b.state.WithCodeAnalysis(a)
	return b
}

// Structure attaches a documentation structure.
func (b *StateBuilder) Structure(d core.DocStructure) *StateBuilder {
	b.state = b.state.WithDocStructure(d)
	return b
}

// Plan attaches an update plan.
func (b *StateBuilder) Plan(p core.UpdatePlan) *StateBuilder {
	b.state = b.state.WithUpdatePlan(p)
	return b
}

// Generated attaches generated content.
func (b *StateBuilder) Generated(g core.GeneratedContent) *StateBuilder {
	b.state = b.state.WithGeneratedContent(g)
	return b
}

// Build returns the state.
func (b *StateBuilder) Build() core.ReviewState { return b.state }

// RunContext returns an unlimited, silent run context bound to the
// background context.
func RunContext() *core.RunContext {
	return core.NewRunContext(context.Background(), "run-test", 0, logging.NoOpLogger{})
}
