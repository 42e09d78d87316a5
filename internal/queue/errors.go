package queue

import "errors"

var (
	// ErrOpNotFound is returned when an operation id is not in the queue
	// (or the dead-letter set, for the dead-letter operations).
	ErrOpNotFound = errors.New("operation not found")
	// ErrOpNotReplaceable is returned when a payload replacement targets
	// an operation that already left the pending state.
	ErrOpNotReplaceable = errors.New("operation is not pending")
)
