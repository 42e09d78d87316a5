// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// fable-sync engine. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds engine-level identity and policy settings.
	App App `envPrefix:"APP_"`

	// Adapter holds settings for the outbound remote API transport and
	// the connectivity probe.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the durable queue state store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Queue holds tuning knobs for batching, retry, and payload limits.
	Queue Queue `envPrefix:"QUEUE_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds engine identity and conflict policy.
type App struct {
	// DeviceID uniquely identifies this installation. It is stamped on
	// every outgoing change so the backend (and conflict detection) can
	// attribute edits to a device.
	// Env: APP_DEVICE_ID
	DeviceID string `env:"DEVICE_ID"`

	// ConflictStrategy is the strategy applied automatically when a push
	// hits a version conflict: "local", "remote", "merge", or "manual".
	// "manual" (the default) surfaces every conflict to subscribers.
	// Env: APP_CONFLICT_STRATEGY
	ConflictStrategy string `env:"CONFLICT_STRATEGY"`
}

// Adapter holds outbound transport settings.
type Adapter struct {
	// BaseURL is the remote data API base address
	// (e.g. "https://api.fableforge.app").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every remote call; a timeout is treated as a
	// retryable network failure (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// HealthPath is the path polled by the connectivity monitor,
	// relative to BaseURL (e.g. "/api/health").
	// Env: ADAPTER_HEALTH_PATH
	HealthPath string `env:"HEALTH_PATH"`

	// PingInterval is how often the connectivity monitor probes the
	// health endpoint (e.g. "10s").
	// Env: ADAPTER_PING_INTERVAL
	PingInterval time.Duration `env:"PING_INTERVAL"`
}

// Storage groups durable state store settings.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite state database.
type DB struct {
	// DSN is the SQLite data source name
	// (e.g. "file:fable-sync.db?_journal_mode=WAL").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Queue holds batching and retry tuning.
type Queue struct {
	// MaxAttempts is how many delivery attempts a retryable operation
	// gets before it is dead-lettered.
	// Env: QUEUE_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// BaseDelay is the first retry backoff delay (e.g. "1s").
	// Env: QUEUE_BASE_DELAY
	BaseDelay time.Duration `env:"BASE_DELAY"`

	// MaxDelay caps the exponential backoff growth (e.g. "5m").
	// Env: QUEUE_MAX_DELAY
	MaxDelay time.Duration `env:"MAX_DELAY"`

	// BatchSize is the maximum number of operations dequeued per drain
	// iteration.
	// Env: QUEUE_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// MaxPayloadBytes caps the estimated payload size of one batch.
	// Env: QUEUE_MAX_PAYLOAD_BYTES
	MaxPayloadBytes int `env:"MAX_PAYLOAD_BYTES"`
}

// Workers holds background job settings.
type Workers struct {
	// DrainInterval defines how often the periodic drain job runs in
	// addition to connectivity-triggered drains (e.g. "1m").
	// Env: WORKERS_DRAIN_INTERVAL
	DrainInterval time.Duration `env:"DRAIN_INTERVAL"`
}

// GetStructuredConfig assembles the merged configuration from environment
// variables, command-line flags, and the optional JSON file, in that
// precedence order (earlier sources win on conflicting fields).
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
