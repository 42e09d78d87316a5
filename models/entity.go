package models

import "fmt"

// EntityType identifies the kind of story entity a change applies to.
// The set is closed: RecordChange rejects values outside of it.
type EntityType string

const (
	EntityProject   EntityType = "project"
	EntityCharacter EntityType = "character"
	EntityLocation  EntityType = "location"
	EntityScene     EntityType = "scene"
	EntityNote      EntityType = "note"
)

// KnownEntityType reports whether t is one of the supported entity types.
func KnownEntityType(t EntityType) bool {
	switch t {
	case EntityProject, EntityCharacter, EntityLocation, EntityScene, EntityNote:
		return true
	}
	return false
}

// EntityKey returns the canonical "type/id" key used to index pending
// changes and queued operations by entity.
func EntityKey(t EntityType, id string) string {
	return fmt.Sprintf("%s/%s", t, id)
}

// EntityRef is an explicit reference from one entity's payload to another
// entity. When a payload field holds an EntityRef to a not-yet-synced
// entity, the delta builder derives an operation dependency from it.
type EntityRef struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
}

// Key returns the canonical entity key of the referenced entity.
func (r EntityRef) Key() string {
	return EntityKey(r.EntityType, r.EntityID)
}
