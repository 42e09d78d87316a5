// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/models"
)

const snapshotKey = "queue_snapshot"

// snapshotStore persists the queue snapshot as a single JSON blob under a
// fixed key. The KVStore's atomic Set is what makes persist-then-commit
// crash safe: readers see the previous snapshot or the new one, never a
// partial write.
type snapshotStore struct {
	kv     KVStore
	logger *logger.Logger
}

// NewSnapshotStore constructs a SnapshotStore on top of kv.
func NewSnapshotStore(kv KVStore, log *logger.Logger) SnapshotStore {
	log.Debug().Msg("creating snapshot store")
	return &snapshotStore{
		kv:     kv,
		logger: log,
	}
}

// Save serializes and stores the snapshot. Any storage failure is
// wrapped in a fatal *PersistenceError.
func (s *snapshotStore) Save(ctx context.Context, snap models.QueueSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return &PersistenceError{Op: "encode snapshot", Err: err}
	}

	if err = s.kv.Set(ctx, snapshotKey, payload); err != nil {
		s.logger.Err(err).Str("func", "*snapshotStore.Save").Msg("error persisting snapshot")
		return &PersistenceError{Op: "save snapshot", Err: err}
	}

	s.logger.Debug().
		Uint64("version", snap.Version).
		Int("operations", len(snap.Operations)).
		Msg("snapshot persisted")
	return nil
}

// Load reads the last persisted snapshot. The second return value is
// false when no snapshot has ever been saved.
func (s *snapshotStore) Load(ctx context.Context) (models.QueueSnapshot, bool, error) {
	payload, err := s.kv.Get(ctx, snapshotKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return models.QueueSnapshot{}, false, nil
		}
		s.logger.Err(err).Str("func", "*snapshotStore.Load").Msg("error loading snapshot")
		return models.QueueSnapshot{}, false, &PersistenceError{Op: "load snapshot", Err: err}
	}

	var snap models.QueueSnapshot
	if err = json.Unmarshal(payload, &snap); err != nil {
		return models.QueueSnapshot{}, false, &PersistenceError{Op: "decode snapshot", Err: fmt.Errorf("corrupt snapshot: %w", err)}
	}

	return snap, true, nil
}
