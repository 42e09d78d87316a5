// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/fableforge/fable-sync/internal/logger"
)

// sqliteKVStore keeps engine state in the sync_state table, one row per
// key with the value as an opaque blob.
type sqliteKVStore struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteKVStore constructs a KVStore backed by the provided sqlite
// connection.
func NewSQLiteKVStore(db *DB, log *logger.Logger) KVStore {
	log.Debug().Msg("creating sqlite kv store")
	return &sqliteKVStore{
		db:     db,
		logger: log,
		now:    time.Now,
	}
}

func (s *sqliteKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("value").
		From("sync_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var value []byte
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		log.Err(err).Str("func", "*sqliteKVStore.Get").Str("key", key).Msg("error reading state")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return value, nil
}

func (s *sqliteKVStore) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Insert("sync_state").
		Columns("key", "value", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sqliteKVStore.Set").Str("key", key).Msg("error writing state")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (s *sqliteKVStore) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete("sync_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*sqliteKVStore.Remove").Str("key", key).Msg("error deleting state")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

func (s *sqliteKVStore) Close() error {
	return s.db.Close()
}
