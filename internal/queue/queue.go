// Package queue holds the pending sync operations in priority plus
// dependency order, drives the per-operation retry state machine, and
// keeps the dead-letter set for exhausted or terminally failed work.
//
// The queue is not safe for unsynchronized concurrent use: every mutation
// goes through the coordinator's single serialized command path, which also
// persists a snapshot before a mutation counts as committed.
package queue

import (
	"sort"
	"time"

	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/models"
)

// OperationQueue orders pending operations by (priority rank, insertion
// sequence) and releases them only when their dependencies completed and
// their retry delay elapsed.
type OperationQueue struct {
	log   *logger.Logger
	sched *RetryScheduler
	now   func() time.Time

	ops       []*models.SyncOperation
	byID      map[string]*models.SyncOperation
	byEntity  map[string]string
	dead      []*models.SyncOperation
	completed map[string]bool
	blocked   map[string]bool
	nextSeq   uint64
	version   uint64
}

// NewOperationQueue constructs an empty queue using sched for retry
// delays and attempt budgets.
func NewOperationQueue(sched *RetryScheduler, log *logger.Logger) *OperationQueue {
	return &OperationQueue{
		log:       log,
		sched:     sched,
		now:       time.Now,
		byID:      make(map[string]*models.SyncOperation),
		byEntity:  make(map[string]string),
		completed: make(map[string]bool),
		blocked:   make(map[string]bool),
	}
}

// Enqueue inserts op by (priority, insertion sequence). A no-op update —
// checksum equal to the record's base version — is dropped instead of
// enqueued and Enqueue returns false.
func (q *OperationQueue) Enqueue(op models.SyncOperation) bool {
	if isNoOp(op) {
		q.log.Debug().Str("op_id", op.ID).Msg("dropping no-op operation")
		return false
	}

	op.Seq = q.nextSeq
	q.nextSeq++
	op.Status = models.StatusPending
	op.EnqueuedAt = q.now()

	stored := op
	q.insert(&stored)

	q.log.Debug().
		Str("op_id", stored.ID).
		Str("entity", stored.EntityKey()).
		Int("priority", int(stored.Priority)).
		Msg("operation enqueued")
	return true
}

func isNoOp(op models.SyncOperation) bool {
	if len(op.Records) == 0 {
		return true
	}
	rec := op.Records[0]
	return rec.Operation == models.OpUpdate && op.Checksum != "" && op.Checksum == rec.BaseVersion
}

func (q *OperationQueue) insert(op *models.SyncOperation) {
	q.ops = append(q.ops, op)
	sort.SliceStable(q.ops, func(i, j int) bool {
		if q.ops[i].Priority != q.ops[j].Priority {
			return q.ops[i].Priority < q.ops[j].Priority
		}
		return q.ops[i].Seq < q.ops[j].Seq
	})
	q.byID[op.ID] = op
	if key := op.EntityKey(); key != "" {
		q.byEntity[key] = op.ID
	}
}

// OpByEntity returns a copy of the active (non-dead) operation for the
// given entity key, if one exists.
func (q *OperationQueue) OpByEntity(key string) (models.SyncOperation, bool) {
	id, ok := q.byEntity[key]
	if !ok {
		return models.SyncOperation{}, false
	}
	op, ok := q.byID[id]
	if !ok {
		return models.SyncOperation{}, false
	}
	return *op, true
}

// Replace swaps the payload of a still-pending operation in place: the
// merged record, its new checksum, dependencies, and size estimate. Queue
// position (priority, seq) is retained so same-entity FIFO order holds.
// Replacing an operation that is not pending fails.
func (q *OperationQueue) Replace(opID string, rec models.ChangeRecord, checksum string, dependsOn []string, sizeBytes int) error {
	op, ok := q.byID[opID]
	if !ok {
		return ErrOpNotFound
	}
	if op.Status != models.StatusPending && op.Status != models.StatusFailedRetry {
		return ErrOpNotReplaceable
	}

	op.Records = []models.ChangeRecord{rec}
	op.Checksum = checksum
	op.DependsOn = dependsOn
	op.SizeBytes = sizeBytes
	return nil
}

// Remove deletes an active operation outright (create cancelled by a
// delete). Its id is recorded as completed so dependents are not orphaned.
func (q *OperationQueue) Remove(opID string) error {
	op, ok := q.byID[opID]
	if !ok {
		return ErrOpNotFound
	}
	q.drop(op)
	q.completed[opID] = true

	q.log.Debug().Str("op_id", opID).Msg("operation removed from queue")
	return nil
}

func (q *OperationQueue) drop(op *models.SyncOperation) {
	delete(q.byID, op.ID)
	if key := op.EntityKey(); key != "" && q.byEntity[key] == op.ID {
		delete(q.byEntity, key)
	}
	for i, o := range q.ops {
		if o.ID == op.ID {
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			break
		}
	}
}

// DequeueBatch returns up to maxBatch runnable operations, bounded by the
// estimated payload cap, and marks them in-flight. An operation is runnable
// when every dependency completed, its retry delay elapsed, and its entity
// is not blocked by an open conflict. Offline, nothing is dequeued.
func (q *OperationQueue) DequeueBatch(maxBatch, maxPayloadBytes int, online bool) []models.SyncOperation {
	if !online || maxBatch <= 0 {
		return nil
	}

	now := q.now()
	var batch []models.SyncOperation
	var batchBytes int

	for _, op := range q.ops {
		if len(batch) >= maxBatch {
			break
		}
		if !q.runnable(op, now) {
			continue
		}
		if len(batch) > 0 && maxPayloadBytes > 0 && batchBytes+op.SizeBytes > maxPayloadBytes {
			continue
		}

		op.Status = models.StatusInFlight
		batch = append(batch, *op)
		batchBytes += op.SizeBytes
	}

	return batch
}

func (q *OperationQueue) runnable(op *models.SyncOperation, now time.Time) bool {
	switch op.Status {
	case models.StatusPending:
	case models.StatusFailedRetry:
		if op.NextRetryAt.After(now) {
			return false
		}
	default:
		return false
	}

	if q.blocked[op.EntityKey()] {
		return false
	}

	for _, dep := range op.DependsOn {
		if !q.completed[dep] {
			return false
		}
	}
	return true
}

// MarkCompleted finishes the operation's lifecycle: it leaves the active
// set and its id joins the completed set that releases dependents.
func (q *OperationQueue) MarkCompleted(opID string) error {
	op, ok := q.byID[opID]
	if !ok {
		return ErrOpNotFound
	}

	q.drop(op)
	q.completed[opID] = true

	q.log.Debug().Str("op_id", opID).Msg("operation completed")
	return nil
}

// MarkFailed applies one failed delivery attempt. Retryable failures
// reschedule with exponential backoff until the attempt budget runs out;
// terminal failures and exhausted budgets dead-letter the operation.
func (q *OperationQueue) MarkFailed(opID string, cause error, class FailureClass) error {
	op, ok := q.byID[opID]
	if !ok {
		return ErrOpNotFound
	}

	if cause != nil {
		op.LastError = cause.Error()
	}

	if class == ClassTerminal {
		q.toDead(op)
		return nil
	}

	op.Attempt++
	if q.sched.Exhausted(op.Attempt) {
		q.toDead(op)
		return nil
	}

	op.Status = models.StatusFailedRetry
	op.NextRetryAt = q.sched.NextRetryAt(q.now(), op.Attempt)

	q.log.Debug().
		Str("op_id", opID).
		Int("attempt", op.Attempt).
		Time("next_retry_at", op.NextRetryAt).
		Msg("operation rescheduled")
	return nil
}

// Requeue returns an in-flight operation to pending without consuming a
// retry attempt. Used when the outcome demands a re-send rather than a
// backoff: base-version re-stamps and parked conflict cases.
func (q *OperationQueue) Requeue(opID string) error {
	op, ok := q.byID[opID]
	if !ok {
		return ErrOpNotFound
	}

	op.Status = models.StatusPending
	op.NextRetryAt = time.Time{}
	return nil
}

func (q *OperationQueue) toDead(op *models.SyncOperation) {
	q.drop(op)
	op.Status = models.StatusFailedDead
	q.dead = append(q.dead, op)

	q.log.Warn().Str("op_id", op.ID).Str("error", op.LastError).Msg("operation dead-lettered")
}

// Dead returns a copy of the dead-letter set.
func (q *OperationQueue) Dead() []models.SyncOperation {
	out := make([]models.SyncOperation, 0, len(q.dead))
	for _, op := range q.dead {
		out = append(out, *op)
	}
	return out
}

// RetryDead moves a dead-lettered operation back into the queue with a
// fresh attempt budget.
func (q *OperationQueue) RetryDead(opID string) error {
	for i, op := range q.dead {
		if op.ID != opID {
			continue
		}
		q.dead = append(q.dead[:i], q.dead[i+1:]...)

		op.Attempt = 0
		op.NextRetryAt = time.Time{}
		op.LastError = ""
		op.Status = models.StatusPending
		op.Seq = q.nextSeq
		q.nextSeq++
		q.insert(op)
		return nil
	}
	return ErrOpNotFound
}

// DiscardDead drops a dead-lettered operation for good. Its id still
// counts as completed so dependents are not stuck forever.
func (q *OperationQueue) DiscardDead(opID string) error {
	for i, op := range q.dead {
		if op.ID != opID {
			continue
		}
		q.dead = append(q.dead[:i], q.dead[i+1:]...)
		q.completed[opID] = true
		return nil
	}
	return ErrOpNotFound
}

// Block excludes an entity's operations from dequeue until Unblock. Used
// while a manual conflict case for the entity stays open.
func (q *OperationQueue) Block(entityKey string) {
	q.blocked[entityKey] = true
}

// Unblock lifts the exclusion.
func (q *OperationQueue) Unblock(entityKey string) {
	delete(q.blocked, entityKey)
}

// Counts returns (pending, inFlight, dead) sizes for status updates.
// Pending counts both fresh and retry-waiting operations.
func (q *OperationQueue) Counts() (pending, inFlight, dead int) {
	for _, op := range q.ops {
		switch op.Status {
		case models.StatusInFlight:
			inFlight++
		default:
			pending++
		}
	}
	return pending, inFlight, len(q.dead)
}

// Snapshot captures the full queue state for persistence. Each call bumps
// the monotonic version counter. Completed ids are compacted down to the
// set some active operation still depends on.
func (q *OperationQueue) Snapshot() models.QueueSnapshot {
	q.version++

	operations := make([]models.SyncOperation, 0, len(q.ops)+len(q.dead))
	for _, op := range q.ops {
		operations = append(operations, *op)
	}
	for _, op := range q.dead {
		operations = append(operations, *op)
	}

	needed := make(map[string]bool)
	for _, op := range q.ops {
		for _, dep := range op.DependsOn {
			needed[dep] = true
		}
	}
	completed := make([]string, 0, len(needed))
	for id := range q.completed {
		if needed[id] {
			completed = append(completed, id)
		}
	}
	sort.Strings(completed)

	return models.QueueSnapshot{
		Version:    q.version,
		NextSeq:    q.nextSeq,
		Operations: operations,
		Completed:  completed,
		SavedAt:    q.now(),
	}
}

// Restore rebuilds queue state from a persisted snapshot. Operations that
// were in-flight at the crash return to pending: unacknowledged work is
// assumed undelivered, giving at-least-once semantics.
func (q *OperationQueue) Restore(snap models.QueueSnapshot) {
	q.ops = nil
	q.dead = nil
	q.byID = make(map[string]*models.SyncOperation)
	q.byEntity = make(map[string]string)
	q.completed = make(map[string]bool)
	q.version = snap.Version
	q.nextSeq = snap.NextSeq

	for _, id := range snap.Completed {
		q.completed[id] = true
	}

	restored := 0
	for i := range snap.Operations {
		op := snap.Operations[i]
		switch op.Status {
		case models.StatusFailedDead:
			stored := op
			q.dead = append(q.dead, &stored)
			continue
		case models.StatusInFlight:
			op.Status = models.StatusPending
			restored++
		case models.StatusCompleted:
			q.completed[op.ID] = true
			continue
		}

		stored := op
		q.insert(&stored)
	}

	if restored > 0 {
		q.log.Info().Int("count", restored).Msg("reset in-flight operations to pending after restart")
	}
}
