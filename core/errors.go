package core

import "errors"

var (
	// ErrMissingState is returned when an action runs before the upstream
	// action populated the state field it depends on.
	ErrMissingState = errors.New("missing pipeline state")

	// ErrInvalidState is returned when the run identifiers are incomplete.
	ErrInvalidState = errors.New("invalid pipeline state")

	// ErrModelCallLimit is returned once a run exceeds its model call budget.
	ErrModelCallLimit = errors.New("exceeded max model calls")
)
