package core

// Action is a single unit of work in a pipeline. Run receives the current
// state by value and returns the updated copy; an action must not modify
// data reachable from the state it received.
type Action interface {
	Name() string
	Description() string
	Run(rc *RunContext, state ReviewState) (ReviewState, error)
}
