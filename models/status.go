package models

// EventKind labels what a StatusUpdate is reporting.
type EventKind string

const (
	EventQueued     EventKind = "queued"
	EventDrained    EventKind = "drained"
	EventCompleted  EventKind = "completed"
	EventRetry      EventKind = "retry"
	EventConflict   EventKind = "conflict"
	EventDeadLetter EventKind = "dead-letter"
	EventFatal      EventKind = "fatal"
)

// StatusUpdate is the payload delivered to status subscribers after every
// observable queue transition. It is a self-contained snapshot: consumers
// never reach back into the coordinator's state.
type StatusUpdate struct {
	Kind         EventKind      `json:"kind"`
	OpID         string         `json:"op_id,omitempty"`
	PendingCount int            `json:"pending_count"`
	FailedCount  int            `json:"failed_count"`
	InFlight     int            `json:"in_flight"`
	LastError    string         `json:"last_error,omitempty"`
	Conflicts    []ConflictCase `json:"conflicts,omitempty"`
}
