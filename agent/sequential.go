package agent

import (
	"fmt"
	"time"

	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/logging"
)

// SequentialAgent executes child actions in order. The state returned by one
// child is the input of the next; the first error stops the sequence and is
// returned together with the last successfully produced state.
type SequentialAgent struct {
	BaseAction
	children []core.Action
}

// NewSequentialAgent creates a sequential coordinator over children.
func NewSequentialAgent(name string, children ...core.Action) *SequentialAgent {
	return &SequentialAgent{
		BaseAction: NewBaseAction(name),
		children:   children,
	}
}

// Children returns a copy of the child list.
func (s *SequentialAgent) Children() []core.Action {
	out := make([]core.Action, len(s.children))
	copy(out, s.children)

	return out
}

// Run implements core.Action.
func (s *SequentialAgent) Run(rc *core.RunContext, state core.ReviewState) (core.ReviewState, error) {
	for _, child := range s.children {
		if err := rc.Err(); err != nil {
			return state, fmt.Errorf("sequential execution cancelled before action %s: %w", child.Name(), err)
		}

		crc := rc.ForAction(child.Name())
		crc.LogDebug("Starting action")

		start := time.Now()
		next, err := child.Run(crc, state)
		logging.LogActionExecution(crc.Logger(), child.Name(), time.Since(start), err)

		if err != nil {
			return state, fmt.Errorf("sequential execution failed at action %s: %w", child.Name(), err)
		}

		state = next
	}

	return state, nil
}
