package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service.go -package=mock

import (
	"context"
	"time"

	"github.com/fableforge/fable-sync/internal/conflict"
	"github.com/fableforge/fable-sync/models"
)

// Coordinator is the public surface of the sync engine. All methods are
// safe for concurrent use; every state mutation runs on one serialized
// command path and is durably persisted before it counts as committed.
type Coordinator interface {
	// RecordChange captures a local edit. It fails fast only on
	// structurally invalid input (unknown entity type, empty id) or after
	// a persistence failure halted the engine; sync failures never reach
	// the caller directly.
	RecordChange(ctx context.Context, entityType models.EntityType, id string, op models.OperationType, fields models.Fields) error

	// ProcessQueue drains runnable operations to the remote API until the
	// queue empties or connectivity drops. Concurrent triggers coalesce:
	// a call while a drain is running is a no-op.
	ProcessQueue(ctx context.Context)

	// EnqueueNow forces an immediate asynchronous drain attempt.
	EnqueueNow(ctx context.Context)

	// OnConnectivityRestored is the hook the network gate fires when the
	// remote becomes reachable again.
	OnConnectivityRestored(ctx context.Context)

	// Subscribe registers a status listener and returns its token.
	// Listeners are invoked in registration order; a panicking listener
	// is isolated and does not disturb the others.
	Subscribe(listener func(models.StatusUpdate)) string
	// Unsubscribe removes a listener by token.
	Unsubscribe(token string)

	// ResolveConflict settles an open conflict case under the given
	// strategy. For a manual merge the caller supplies the merged fields.
	ResolveConflict(ctx context.Context, conflictID string, strategy models.ConflictStrategy, merged models.Fields) error
	// SetFieldResolver installs the per-field resolver merge strategies
	// consult for overlapping fields. A nil resolver escalates every
	// overlap to manual resolution.
	SetFieldResolver(resolver conflict.FieldResolver)
	// Conflicts returns the open conflict cases.
	Conflicts() []models.ConflictCase

	// RetryDead returns a dead-lettered operation to the queue with a
	// fresh attempt budget.
	RetryDead(ctx context.Context, opID string) error
	// DiscardDead drops a dead-lettered operation for good.
	DiscardDead(ctx context.Context, opID string) error
	// DeadLetters returns the dead-lettered operations.
	DeadLetters() []models.SyncOperation

	// GetQueueSnapshot returns the current queue state for diagnostics.
	GetQueueSnapshot() models.QueueSnapshot

	// Close stops background activity owned by the coordinator.
	Close()
}

// DrainJob periodically triggers a queue drain while started.
type DrainJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
