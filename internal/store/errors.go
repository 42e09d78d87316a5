package store

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by KVStore.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// PersistenceError marks a storage failure the engine cannot work around.
// The coordinator treats it as fatal and halts processing instead of
// accepting changes it cannot make durable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
