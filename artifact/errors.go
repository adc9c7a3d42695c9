package artifact

import "errors"

var (
	// ErrNotFound is returned when a run or artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey is returned when a run ID or artifact name is empty.
	ErrInvalidKey = errors.New("artifact run id and name are required")
)
