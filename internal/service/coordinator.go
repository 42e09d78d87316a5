// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

// Package service orchestrates the sync engine: it owns the serialized
// command path through which every queue mutation flows, drains runnable
// operations to the remote API, routes failures to retry or dead-letter,
// surfaces conflicts, and fans status updates out to subscribers.
package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"dario.cat/mergo"
	"github.com/google/uuid"

	"github.com/fableforge/fable-sync/internal/adapter"
	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/conflict"
	"github.com/fableforge/fable-sync/internal/delta"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/internal/netmon"
	"github.com/fableforge/fable-sync/internal/queue"
	"github.com/fableforge/fable-sync/internal/store"
	"github.com/fableforge/fable-sync/internal/tracker"
	"github.com/fableforge/fable-sync/models"
)

type syncCoordinator struct {
	cfg *config.SyncConfig
	log *logger.Logger

	tracker   *tracker.Tracker
	builder   *delta.Builder
	resolver  *conflict.Resolver
	queue     *queue.OperationQueue
	snapshots store.SnapshotStore
	remote    adapter.RemoteAPI
	gate      *netmon.NetworkGate

	// mu guards the serialized command path: tracker reconciliation,
	// every queue mutation, and the persist that commits it.
	mu             sync.Mutex
	halted         bool
	conflicts      map[string]*models.ConflictCase
	pendingCreates map[string]string
	fieldResolver  conflict.FieldResolver

	draining atomic.Bool

	subMu    sync.RWMutex
	subs     map[string]func(models.StatusUpdate)
	subOrder []string
	// updates queues published status updates; a single drainer
	// goroutine works it off so subscribers observe updates in the
	// order they were published.
	updates    []models.StatusUpdate
	delivering bool
}

// NewSyncCoordinator wires the engine together and recovers persisted
// queue state. Operations that were in-flight at the previous shutdown
// return to pending (at-least-once delivery).
func NewSyncCoordinator(ctx context.Context, cfg *config.SyncConfig, remote adapter.RemoteAPI, monitor netmon.ConnectivityMonitor, snapshots store.SnapshotStore, log *logger.Logger) (Coordinator, error) {
	sched := queue.NewRetryScheduler(cfg.Queue.MaxAttempts, cfg.Queue.BaseDelay, cfg.Queue.MaxDelay)

	c := &syncCoordinator{
		cfg:            cfg,
		log:            log,
		tracker:        tracker.NewTracker(cfg.DeviceID, log.GetChildLogger()),
		builder:        delta.NewBuilder(log.GetChildLogger()),
		resolver:       conflict.NewResolver(log.GetChildLogger()),
		queue:          queue.NewOperationQueue(sched, log.GetChildLogger()),
		snapshots:      snapshots,
		remote:         remote,
		conflicts:      make(map[string]*models.ConflictCase),
		pendingCreates: make(map[string]string),
		subs:           make(map[string]func(models.StatusUpdate)),
	}

	snap, found, err := snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		c.queue.Restore(snap)
		c.tracker.Restore(snap.Pending)
		for _, op := range snap.Operations {
			if op.Status == models.StatusFailedDead || len(op.Records) == 0 {
				continue
			}
			if op.Records[0].Operation == models.OpCreate {
				c.pendingCreates[op.EntityKey()] = op.ID
			}
		}
		log.Info().Uint64("version", snap.Version).Int("operations", len(snap.Operations)).Msg("recovered persisted queue state")
	}

	c.gate = netmon.NewNetworkGate(monitor, func() {
		c.OnConnectivityRestored(context.Background())
	}, log.GetChildLogger())

	return c, nil
}

// RecordChange implements Coordinator.
func (c *syncCoordinator) RecordChange(ctx context.Context, entityType models.EntityType, id string, op models.OperationType, fields models.Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.halted {
		return ErrEngineHalted
	}

	var cancelled bool
	var err error
	switch op {
	case models.OpCreate:
		_, err = c.tracker.RecordCreate(entityType, id, fields)
	case models.OpUpdate:
		_, err = c.tracker.RecordUpdate(entityType, id, fields)
	case models.OpDelete:
		_, cancelled, err = c.tracker.RecordDelete(entityType, id)
	default:
		return ErrUnknownOperation
	}
	if err != nil {
		return err
	}

	key := models.EntityKey(entityType, id)

	if !cancelled {
		queued, ok := c.queue.OpByEntity(key)
		switch {
		case ok && queued.Status != models.StatusInFlight:
			if err = c.reconcileLocked(key, queued); err != nil {
				return err
			}
		case !ok:
			c.enqueueLocked(key)
		default:
			// in-flight: the record stays in the tracker until the next
			// drain observes the entity idle again
		}
	}

	if err = c.persistLocked(ctx); err != nil {
		return err
	}
	c.publish(models.EventQueued, "", "")

	if c.gate.Online() {
		c.EnqueueNow(ctx)
	}
	return nil
}

// reconcileLocked folds the tracker's fresh record for key into the
// already-queued operation for the same entity, keeping one operation per
// entity and its queue position.
func (c *syncCoordinator) reconcileLocked(key string, queued models.SyncOperation) error {
	rec, ok := c.tracker.Take(key)
	if !ok {
		return nil
	}

	existing := queued.Records[0]
	if existing.Operation == models.OpCreate && rec.Operation == models.OpDelete {
		// the create never left this device, so the pair cancels out
		if err := c.queue.Remove(queued.ID); err != nil {
			return err
		}
		delete(c.pendingCreates, key)
		c.log.Debug().Str("entity", key).Msg("queued create cancelled by delete")
		return nil
	}

	if existing.Operation == models.OpDelete && rec.Operation == models.OpUpdate {
		// same rule the tracker enforces: a deleted entity must be
		// re-created before it can be edited again
		return tracker.ErrEntityDeleted
	}

	merged, err := mergeRecords(existing, rec)
	if err != nil {
		return err
	}

	rebuilt := c.builder.Build(merged, c.pendingCreates)
	return c.queue.Replace(queued.ID, merged, rebuilt.Checksum, rebuilt.DependsOn, rebuilt.SizeBytes)
}

// mergeRecords folds a newer record into the one already queued, with the
// same semantics the tracker applies to unqueued records: an update merges
// into a create and it stays a create, later edits win on overlap, and a
// delete supersedes a pending update.
func mergeRecords(existing, incoming models.ChangeRecord) (models.ChangeRecord, error) {
	if incoming.Operation != models.OpUpdate {
		return incoming, nil
	}

	merged := existing
	merged.Fields = existing.Fields.Clone()
	if err := mergo.Merge(&merged.Fields, incoming.Fields.Clone(), mergo.WithOverride); err != nil {
		return models.ChangeRecord{}, err
	}
	merged.Timestamp = incoming.Timestamp
	return merged, nil
}

func (c *syncCoordinator) enqueueLocked(key string) {
	rec, ok := c.tracker.Take(key)
	if !ok {
		return
	}

	op := c.builder.Build(rec, c.pendingCreates)
	if !c.queue.Enqueue(op) {
		return
	}
	if rec.Operation == models.OpCreate {
		c.pendingCreates[key] = op.ID
	}
}

// persistLocked commits the current queue and tracker state. A storage
// failure halts the engine: accepting further changes without durability
// would lose them on the next crash.
func (c *syncCoordinator) persistLocked(ctx context.Context) error {
	snap := c.queue.Snapshot()
	snap.Pending = c.tracker.Pending()

	if err := c.snapshots.Save(ctx, snap); err != nil {
		c.halted = true
		c.log.Error().Err(err).Msg("persistence failed, halting sync engine")
		c.publish(models.EventFatal, "", err.Error())
		return errors.Join(ErrEngineHalted, err)
	}
	return nil
}

// ProcessQueue implements Coordinator. Concurrent triggers coalesce on the
// draining flag; the losing caller returns immediately and the running
// drain picks up anything new on its next loop iteration.
func (c *syncCoordinator) ProcessQueue(ctx context.Context) {
	if !c.draining.CompareAndSwap(false, true) {
		return
	}
	defer c.draining.Store(false)

	for {
		c.mu.Lock()
		if c.halted {
			c.mu.Unlock()
			return
		}

		c.drainTrackerLocked()

		batch := c.queue.DequeueBatch(c.cfg.Queue.BatchSize, c.cfg.Queue.MaxPayloadBytes, c.gate.Online())
		if len(batch) > 0 {
			// the in-flight marks must be durable before dispatch so a
			// crash mid-send restores them as pending, never loses them
			if err := c.persistLocked(ctx); err != nil {
				c.mu.Unlock()
				return
			}
		}
		c.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		c.publishLockedFree(models.EventDrained, "", "")

		for _, op := range batch {
			resp, err := c.dispatch(ctx, op)
			c.applyResult(ctx, op, resp, err)
		}
	}
}

// drainTrackerLocked moves records that waited out an in-flight operation
// into the queue now that their entity is idle again.
func (c *syncCoordinator) drainTrackerLocked() {
	for _, rec := range c.tracker.Pending() {
		key := rec.Key()
		queued, ok := c.queue.OpByEntity(key)
		switch {
		case !ok:
			c.enqueueLocked(key)
		case queued.Status != models.StatusInFlight:
			if err := c.reconcileLocked(key, queued); err != nil {
				c.log.Err(err).Str("entity", key).Msg("error reconciling tracked record")
			}
		}
	}
}

func (c *syncCoordinator) dispatch(ctx context.Context, op models.SyncOperation) (models.UpsertResponse, error) {
	rec := op.Records[0]

	if rec.Operation == models.OpDelete {
		return c.remote.Delete(ctx, models.DeleteRequest{
			EntityType:  rec.EntityType,
			EntityID:    rec.EntityID,
			BaseVersion: rec.BaseVersion,
			DeviceID:    rec.DeviceID,
			ClientTime:  rec.Timestamp,
		})
	}

	return c.remote.Upsert(ctx, models.UpsertRequest{
		EntityType:  rec.EntityType,
		EntityID:    rec.EntityID,
		Fields:      rec.Fields,
		BaseVersion: rec.BaseVersion,
		Checksum:    op.Checksum,
		DeviceID:    rec.DeviceID,
		ClientTime:  rec.Timestamp,
	})
}

func (c *syncCoordinator) applyResult(ctx context.Context, op models.SyncOperation, resp models.UpsertResponse, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := op.EntityKey()

	if err == nil {
		if mErr := c.queue.MarkCompleted(op.ID); mErr != nil {
			c.log.Err(mErr).Str("op_id", op.ID).Msg("error completing operation")
			return
		}
		delete(c.pendingCreates, key)

		checksum := resp.Checksum
		if op.Records[0].Operation == models.OpDelete {
			checksum = ""
		}
		c.tracker.SetBaseVersion(key, checksum)

		if pErr := c.persistLocked(ctx); pErr != nil {
			return
		}
		c.publish(models.EventCompleted, op.ID, "")
		return
	}

	var conflictErr *adapter.ConflictError
	if errors.As(err, &conflictErr) {
		c.handleConflictLocked(ctx, op, conflictErr.Remote)
		return
	}

	if mErr := c.queue.MarkFailed(op.ID, err, queue.Classify(err)); mErr != nil {
		c.log.Err(mErr).Str("op_id", op.ID).Msg("error failing operation")
		return
	}
	_ = c.persistLocked(ctx)

	if qop, ok := c.queue.OpByEntity(key); ok && qop.Status == models.StatusFailedRetry {
		c.publish(models.EventRetry, op.ID, err.Error())
		return
	}
	c.publish(models.EventDeadLetter, op.ID, err.Error())
}

func (c *syncCoordinator) handleConflictLocked(ctx context.Context, op models.SyncOperation, remote models.RemoteRecord) {
	local := op.Records[0]
	key := op.EntityKey()

	if !c.resolver.Detect(local, remote) {
		// version mismatch without real divergence: the remote state is an
		// echo of this device's own earlier push. Re-stamp and re-send.
		local.BaseVersion = remote.Checksum
		_ = c.queue.Requeue(op.ID)
		rebuilt := c.builder.Build(local, c.pendingCreates)
		_ = c.queue.Replace(op.ID, local, rebuilt.Checksum, rebuilt.DependsOn, rebuilt.SizeBytes)
		c.tracker.SetBaseVersion(key, remote.Checksum)
		_ = c.persistLocked(ctx)
		c.publish(models.EventRetry, op.ID, "")
		return
	}

	strategy := models.ConflictStrategy(c.cfg.ConflictStrategy)
	if strategy != models.StrategyManual {
		res := c.resolver.Resolve(strategy, local, remote, c.fieldResolver)
		if c.applyResolutionLocked(ctx, op.ID, key, local, res) {
			return
		}
	}

	// manual strategy, or an automatic merge that could not decide:
	// surface the case and block the entity until the host resolves it
	cse := c.resolver.NewCase(op.ID, local, remote)
	cse.Strategy = strategy
	c.conflicts[cse.ID] = &cse
	_ = c.queue.Requeue(op.ID)
	c.queue.Block(key)
	_ = c.persistLocked(ctx)
	c.publish(models.EventConflict, op.ID, "")
}

// applyResolutionLocked carries out a decided resolution. It reports false
// for ManualRequired, which has no automatic outcome.
func (c *syncCoordinator) applyResolutionLocked(ctx context.Context, opID, key string, local models.ChangeRecord, res conflict.Resolution) bool {
	switch res.State {
	case models.RemoteWins:
		_ = c.queue.Remove(opID)
		delete(c.pendingCreates, key)
		c.tracker.SetBaseVersion(key, res.BaseVersion)
		_ = c.persistLocked(ctx)
		c.publish(models.EventCompleted, opID, "")
		return true

	case models.LocalWins, models.Merged:
		rec := local
		rec.BaseVersion = res.BaseVersion
		if rec.Operation != models.OpDelete {
			// the remote already holds the entity, so the follow-up push
			// is an overwrite against its current version
			rec.Operation = models.OpUpdate
			rec.Fields = res.Fields
		}
		_ = c.queue.Requeue(opID)
		rebuilt := c.builder.Build(rec, c.pendingCreates)
		_ = c.queue.Replace(opID, rec, rebuilt.Checksum, rebuilt.DependsOn, rebuilt.SizeBytes)
		_ = c.persistLocked(ctx)
		c.publish(models.EventRetry, opID, "")
		return true
	}

	return false
}

// ResolveConflict implements Coordinator.
func (c *syncCoordinator) ResolveConflict(ctx context.Context, conflictID string, strategy models.ConflictStrategy, merged models.Fields) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.halted {
		return ErrEngineHalted
	}

	cse, ok := c.conflicts[conflictID]
	if !ok {
		return ErrConflictNotFound
	}

	var res conflict.Resolution
	if merged != nil {
		res = conflict.Resolution{
			State:       models.Merged,
			Fields:      merged.Clone(),
			BaseVersion: cse.Remote.Checksum,
		}
	} else {
		res = c.resolver.Resolve(strategy, cse.Local, cse.Remote, c.fieldResolver)
		if res.State == models.ManualRequired {
			return ErrMergeUndecided
		}
	}

	key := cse.Local.Key()
	delete(c.conflicts, conflictID)
	c.queue.Unblock(key)
	c.applyResolutionLocked(ctx, cse.OpID, key, cse.Local, res)

	if c.gate.Online() {
		c.EnqueueNow(ctx)
	}
	return nil
}

// SetFieldResolver implements Coordinator.
func (c *syncCoordinator) SetFieldResolver(resolver conflict.FieldResolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fieldResolver = resolver
}

// Conflicts implements Coordinator.
func (c *syncCoordinator) Conflicts() []models.ConflictCase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openConflictsLocked()
}

func (c *syncCoordinator) openConflictsLocked() []models.ConflictCase {
	out := make([]models.ConflictCase, 0, len(c.conflicts))
	for _, cse := range c.conflicts {
		out = append(out, *cse)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt.Before(out[j].DetectedAt) })
	return out
}

// RetryDead implements Coordinator.
func (c *syncCoordinator) RetryDead(ctx context.Context, opID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.halted {
		return ErrEngineHalted
	}
	if err := c.queue.RetryDead(opID); err != nil {
		return err
	}
	if err := c.persistLocked(ctx); err != nil {
		return err
	}
	c.publish(models.EventQueued, opID, "")

	if c.gate.Online() {
		c.EnqueueNow(ctx)
	}
	return nil
}

// DiscardDead implements Coordinator.
func (c *syncCoordinator) DiscardDead(ctx context.Context, opID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.halted {
		return ErrEngineHalted
	}
	if err := c.queue.DiscardDead(opID); err != nil {
		return err
	}
	if err := c.persistLocked(ctx); err != nil {
		return err
	}
	c.publish(models.EventCompleted, opID, "")
	return nil
}

// DeadLetters implements Coordinator.
func (c *syncCoordinator) DeadLetters() []models.SyncOperation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Dead()
}

// EnqueueNow implements Coordinator.
func (c *syncCoordinator) EnqueueNow(ctx context.Context) {
	go c.ProcessQueue(ctx)
}

// OnConnectivityRestored implements Coordinator.
func (c *syncCoordinator) OnConnectivityRestored(ctx context.Context) {
	c.log.Info().Msg("connectivity restored, draining queue")
	c.EnqueueNow(ctx)
}

// GetQueueSnapshot implements Coordinator.
func (c *syncCoordinator) GetQueueSnapshot() models.QueueSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.queue.Snapshot()
	snap.Pending = c.tracker.Pending()
	return snap
}

// Subscribe implements Coordinator.
func (c *syncCoordinator) Subscribe(listener func(models.StatusUpdate)) string {
	token := uuid.NewString()

	c.subMu.Lock()
	c.subs[token] = listener
	c.subOrder = append(c.subOrder, token)
	c.subMu.Unlock()

	return token
}

// Unsubscribe implements Coordinator.
func (c *syncCoordinator) Unsubscribe(token string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	delete(c.subs, token)
	for i, t := range c.subOrder {
		if t == token {
			c.subOrder = append(c.subOrder[:i], c.subOrder[i+1:]...)
			break
		}
	}
}

// publish builds a status update from the state guarded by mu (the caller
// must hold it) and delivers it to subscribers asynchronously: updates in
// publish order, subscribers within each update in registration order.
func (c *syncCoordinator) publish(kind models.EventKind, opID, lastErr string) {
	pending, inFlight, dead := c.queue.Counts()
	update := models.StatusUpdate{
		Kind:         kind,
		OpID:         opID,
		PendingCount: pending,
		FailedCount:  dead,
		InFlight:     inFlight,
		LastError:    lastErr,
		Conflicts:    c.openConflictsLocked(),
	}
	c.deliver(update)
}

// publishLockedFree is publish for call sites not holding mu.
func (c *syncCoordinator) publishLockedFree(kind models.EventKind, opID, lastErr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publish(kind, opID, lastErr)
}

// deliver appends the update to the delivery queue and makes sure exactly
// one drainer goroutine is working it off. Every publish site holds mu, so
// queue order is publish order.
func (c *syncCoordinator) deliver(update models.StatusUpdate) {
	c.subMu.Lock()
	c.updates = append(c.updates, update)
	if c.delivering {
		c.subMu.Unlock()
		return
	}
	c.delivering = true
	c.subMu.Unlock()

	go c.drainUpdates()
}

func (c *syncCoordinator) drainUpdates() {
	for {
		c.subMu.Lock()
		if len(c.updates) == 0 {
			c.delivering = false
			c.subMu.Unlock()
			return
		}
		update := c.updates[0]
		c.updates = c.updates[1:]
		listeners := make([]func(models.StatusUpdate), 0, len(c.subOrder))
		for _, token := range c.subOrder {
			if l, ok := c.subs[token]; ok {
				listeners = append(listeners, l)
			}
		}
		c.subMu.Unlock()

		for _, l := range listeners {
			c.notify(l, update)
		}
	}
}

// notify isolates a panicking listener from the rest of the fan-out.
func (c *syncCoordinator) notify(listener func(models.StatusUpdate), update models.StatusUpdate) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Any("panic", r).Msg("status listener panicked")
		}
	}()
	listener(update)
}

// Close implements Coordinator.
func (c *syncCoordinator) Close() {
	c.gate.Close()
}
