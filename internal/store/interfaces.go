package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store.go -package=mock

import (
	"context"

	"github.com/fableforge/fable-sync/models"
)

// KVStore is the durable key/value surface the sync engine persists its
// state through. Implementations must make Set atomic: a crash mid-write
// leaves either the previous value or the new one, never a torn blob.
type KVStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// SnapshotStore persists and recovers the full queue snapshot. A failed
// Save surfaces as a fatal *PersistenceError rather than being retried:
// losing durability silently would defeat crash safety.
type SnapshotStore interface {
	Save(ctx context.Context, snap models.QueueSnapshot) error
	Load(ctx context.Context) (models.QueueSnapshot, bool, error)
}
