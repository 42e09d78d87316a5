package models

import "time"

// ConflictStrategy selects how a detected conflict is resolved.
type ConflictStrategy string

const (
	// StrategyLocal discards the remote change and pushes the local delta
	// as an overwrite against the remote's current version.
	StrategyLocal ConflictStrategy = "local"
	// StrategyRemote discards the local pending change entirely.
	StrategyRemote ConflictStrategy = "remote"
	// StrategyMerge applies a caller-supplied per-field resolver. Fields
	// changed on both sides with no resolver escalate to manual.
	StrategyMerge ConflictStrategy = "merge"
	// StrategyManual surfaces the case through the subscription channel
	// and blocks the entity from further sync until resolved or discarded.
	StrategyManual ConflictStrategy = "manual"
)

// ResolutionState classifies the outcome of conflict detection/resolution.
type ResolutionState string

const (
	NoConflict     ResolutionState = "no-conflict"
	LocalWins      ResolutionState = "local-wins"
	RemoteWins     ResolutionState = "remote-wins"
	Merged         ResolutionState = "merged"
	ManualRequired ResolutionState = "manual-required"
)

// RemoteRecord is the remote's current view of an entity, carried in a
// conflict response when the pushed baseVersion did not match.
type RemoteRecord struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Fields     Fields     `json:"fields,omitempty"`
	Checksum   string     `json:"checksum"`
	DeviceID   string     `json:"device_id"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Deleted    bool       `json:"deleted,omitempty"`
}

// ConflictCase pairs a diverged local change with the remote state it
// collided with. Cases surface to subscribers and stay open (with the
// entity excluded from sync) until explicitly resolved or discarded.
type ConflictCase struct {
	ID         string           `json:"id"`
	OpID       string           `json:"op_id"`
	Local      ChangeRecord     `json:"local"`
	Remote     RemoteRecord     `json:"remote"`
	Strategy   ConflictStrategy `json:"strategy,omitempty"`
	State      ResolutionState  `json:"state"`
	Resolved   Fields           `json:"resolved,omitempty"`
	Unresolved []string         `json:"unresolved,omitempty"`
	DetectedAt time.Time        `json:"detected_at"`
}
