// Package agent contains the building blocks for composing pipeline actions:
//
//  1. BaseAction, the identity helper embedded by concrete actions
//  2. FuncAction, an adapter turning a plain function into a core.Action
//  3. SequentialAgent, which threads a core.ReviewState through its children
//
// Every action receives the state by value and returns a new copy, so a
// failed step never leaves partially mutated state behind for its successors.
package agent
