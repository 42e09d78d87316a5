package models

import "time"

// Priority orders operations in the queue ahead of their insertion sequence.
type Priority int

const (
	PriorityHigh   Priority = 0
	PriorityNormal Priority = 1
	PriorityLow    Priority = 2
)

// OperationStatus is the per-operation sync state machine state.
//
//	pending → in-flight → completed
//	                    → failed-retry (runnable again once NextRetryAt passes)
//	                    → failed-dead  (terminal, dead-letter set)
type OperationStatus string

const (
	StatusPending     OperationStatus = "pending"
	StatusInFlight    OperationStatus = "in-flight"
	StatusCompleted   OperationStatus = "completed"
	StatusFailedRetry OperationStatus = "failed-retry"
	StatusFailedDead  OperationStatus = "failed-dead"
)

// SyncOperation is one unit of pending sync work: the change records for a
// single entity plus queue bookkeeping. Operations for the same entity are
// strictly FIFO; cross-entity ordering is expressed through DependsOn.
type SyncOperation struct {
	ID          string          `json:"id"`
	Records     []ChangeRecord  `json:"records"`
	Priority    Priority        `json:"priority"`
	DependsOn   []string        `json:"depends_on,omitempty"`
	Attempt     int             `json:"attempt"`
	NextRetryAt time.Time       `json:"next_retry_at,omitempty"`
	Status      OperationStatus `json:"status"`
	Checksum    string          `json:"checksum,omitempty"`
	SizeBytes   int             `json:"size_bytes"`
	Seq         uint64          `json:"seq"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	LastError   string          `json:"last_error,omitempty"`
}

// EntityKey returns the key of the entity this operation syncs. Every
// operation carries at least one record and all records share one entity.
func (op SyncOperation) EntityKey() string {
	if len(op.Records) == 0 {
		return ""
	}
	return op.Records[0].Key()
}

// QueueSnapshot is the durable image of the operation queue. Version is a
// monotonic counter incremented on every persisted mutation so a reloaded
// snapshot can be recognized as stale or current.
type QueueSnapshot struct {
	Version    uint64          `json:"version"`
	NextSeq    uint64          `json:"next_seq"`
	Operations []SyncOperation `json:"operations"`
	Completed  []string        `json:"completed,omitempty"`
	Pending    []ChangeRecord  `json:"pending_changes,omitempty"`
	SavedAt    time.Time       `json:"saved_at"`
}
