package manager

import "errors"

var (
	// ErrCapacityReached indicates the task limit has been hit.
	ErrCapacityReached = errors.New("task capacity reached")

	// ErrEmptyName indicates a blank task name.
	ErrEmptyName = errors.New("task name cannot be empty")

	// ErrInvalidName indicates a task name containing a line break.
	ErrInvalidName = errors.New("task name cannot contain line breaks")

	// ErrNoPath indicates Load or Flush was called without configured paths.
	ErrNoPath = errors.New("task and session paths must be configured")
)
