package models

import "time"

// OperationType defines what a ChangeRecord does to its entity.
type OperationType string

const (
	OpCreate OperationType = "create"
	OpUpdate OperationType = "update"
	OpDelete OperationType = "delete"
)

// Fields is a changed field → value map. For a create it holds the full
// entity snapshot, for an update only the fields that changed; a delete
// carries no fields.
type Fields map[string]any

// Clone returns a shallow copy of f. Nested maps are shared; the tracker
// treats field values as immutable once recorded.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ChangeRecord is a single pending local edit to one entity. At most one
// pending record exists per (EntityType, EntityID); subsequent edits merge
// into it until the record is consumed into a SyncOperation.
type ChangeRecord struct {
	EntityType  EntityType    `json:"entity_type"`
	EntityID    string        `json:"entity_id"`
	Operation   OperationType `json:"operation"`
	Fields      Fields        `json:"fields,omitempty"`
	BaseVersion string        `json:"base_version,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	DeviceID    string        `json:"device_id"`
}

// Key returns the canonical entity key the record applies to.
func (c ChangeRecord) Key() string {
	return EntityKey(c.EntityType, c.EntityID)
}
