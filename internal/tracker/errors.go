package tracker

import "errors"

var (
	// ErrUnknownEntityType is returned for entity types outside the
	// supported set. RecordChange fails fast on structurally invalid input.
	ErrUnknownEntityType = errors.New("unknown entity type")
	// ErrEmptyEntityID is returned when an entity id is missing.
	ErrEmptyEntityID = errors.New("empty entity id")
	// ErrNoFields is returned for an update carrying no changed fields.
	ErrNoFields = errors.New("update carries no fields")
	// ErrEntityDeleted is returned when an update targets an entity with a
	// pending delete.
	ErrEntityDeleted = errors.New("entity has a pending delete")
)
