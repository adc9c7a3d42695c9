package agent

import (
	"fmt"

	"github.com/haikalllp/spinai-fork/core"
)

// BaseAction bundles the identity of an action. Embed it in concrete
// actions and supply a Run method to satisfy core.Action.
type BaseAction struct {
	name        string
	description string
}

// NewBaseAction constructs a BaseAction with a generated description
// (customizable via SetDescription).
func NewBaseAction(name string) BaseAction {
	return BaseAction{
		name:        name,
		description: fmt.Sprintf("Action %s", name),
	}
}

// Name returns the action name.
func (b *BaseAction) Name() string { return b.name }

// Description returns a human-readable description of the action.
func (b *BaseAction) Description() string { return b.description }

// SetDescription updates the description.
func (b *BaseAction) SetDescription(desc string) { b.description = desc }

// FuncAction adapts a function to core.Action.
type FuncAction struct {
	BaseAction
	fn func(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error)
}

// NewFuncAction wraps fn as an action called name.
func NewFuncAction(name, description string, fn func(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error)) *FuncAction {
	a := &FuncAction{BaseAction: NewBaseAction(name), fn: fn}
	if description != "" {
		a.SetDescription(description)
	}

	return a
}

// Run implements core.Action.
func (f *FuncAction) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	return f.fn(rc, state)
}
