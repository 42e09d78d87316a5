package service

import "errors"

var (
	// ErrUnknownOperation is returned by RecordChange for an operation
	// type outside create/update/delete.
	ErrUnknownOperation = errors.New("unknown operation type")
	// ErrConflictNotFound is returned when resolving a conflict id with
	// no open case.
	ErrConflictNotFound = errors.New("conflict case not found")
	// ErrMergeUndecided is returned when a merge resolution still leaves
	// overlapping fields and no merged value was supplied.
	ErrMergeUndecided = errors.New("merge left undecided fields, supply merged value")
	// ErrEngineHalted is returned after a persistence failure: queue
	// state may be stale and the host must rebuild the coordinator.
	ErrEngineHalted = errors.New("sync engine halted after persistence failure")
)
