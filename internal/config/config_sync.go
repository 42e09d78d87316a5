package config

import (
	"fmt"
	"time"
)

// Defaults applied by GetSyncConfig when the merged configuration leaves a
// field unset.
const (
	DefaultRequestTimeout  = 15 * time.Second
	DefaultHealthPath      = "/api/health"
	DefaultPingInterval    = 10 * time.Second
	DefaultMaxAttempts     = 5
	DefaultBaseDelay       = time.Second
	DefaultMaxDelay        = 5 * time.Minute
	DefaultBatchSize       = 10
	DefaultMaxPayloadBytes = 256 * 1024
	DefaultDrainInterval   = time.Minute
	DefaultStrategy        = "manual"
)

// SyncAdapter holds network settings used by the remote transport layer.
type SyncAdapter struct {
	// BaseURL is the remote data API base address.
	BaseURL string
	// HealthPath is the connectivity probe path relative to BaseURL.
	HealthPath string
	// PingInterval is the connectivity probe period.
	PingInterval time.Duration
	// RequestTimeout bounds every outbound request.
	RequestTimeout time.Duration
}

// SyncStorage groups durable state store settings.
type SyncStorage struct {
	// DSN is the SQLite connection string for queue state.
	DSN string
}

// SyncQueue holds batching and retry tuning for the operation queue.
type SyncQueue struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BatchSize       int
	MaxPayloadBytes int
}

// SyncWorkers contains background worker settings.
type SyncWorkers struct {
	// DrainInterval defines how often the periodic drain job runs.
	DrainInterval time.Duration
}

// SyncConfig is the validated engine configuration view assembled from
// [StructuredConfig].
type SyncConfig struct {
	// DeviceID identifies this installation on every outgoing change.
	DeviceID string
	// ConflictStrategy is the automatic strategy for version conflicts.
	ConflictStrategy string
	// Adapter contains transport addresses and timeouts.
	Adapter SyncAdapter
	// Storage contains durable state store settings.
	Storage SyncStorage
	// Queue contains batching and retry tuning.
	Queue SyncQueue
	// Workers contains background job settings.
	Workers SyncWorkers
}

// GetSyncConfig builds and validates the engine config view from the merged
// structured configuration, applying defaults for unset tuning knobs.
func GetSyncConfig() (*SyncConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewSyncConfig(cfg)
}

// NewSyncConfig maps an already-merged [StructuredConfig] into the validated
// view. Split out of GetSyncConfig so tests can bypass flag parsing.
func NewSyncConfig(cfg *StructuredConfig) (*SyncConfig, error) {
	syncCfg := &SyncConfig{
		DeviceID:         cfg.App.DeviceID,
		ConflictStrategy: cfg.App.ConflictStrategy,
		Adapter: SyncAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			HealthPath:     cfg.Adapter.HealthPath,
			PingInterval:   cfg.Adapter.PingInterval,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: SyncStorage{DSN: cfg.Storage.DB.DSN},
		Queue: SyncQueue{
			MaxAttempts:     cfg.Queue.MaxAttempts,
			BaseDelay:       cfg.Queue.BaseDelay,
			MaxDelay:        cfg.Queue.MaxDelay,
			BatchSize:       cfg.Queue.BatchSize,
			MaxPayloadBytes: cfg.Queue.MaxPayloadBytes,
		},
		Workers: SyncWorkers{DrainInterval: cfg.Workers.DrainInterval},
	}

	syncCfg.applyDefaults()

	return syncCfg, syncCfg.validate()
}

func (cfg *SyncConfig) applyDefaults() {
	if cfg.ConflictStrategy == "" {
		cfg.ConflictStrategy = DefaultStrategy
	}
	if cfg.Adapter.HealthPath == "" {
		cfg.Adapter.HealthPath = DefaultHealthPath
	}
	if cfg.Adapter.PingInterval <= 0 {
		cfg.Adapter.PingInterval = DefaultPingInterval
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Queue.MaxAttempts <= 0 {
		cfg.Queue.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Queue.BaseDelay <= 0 {
		cfg.Queue.BaseDelay = DefaultBaseDelay
	}
	if cfg.Queue.MaxDelay <= 0 {
		cfg.Queue.MaxDelay = DefaultMaxDelay
	}
	if cfg.Queue.BatchSize <= 0 {
		cfg.Queue.BatchSize = DefaultBatchSize
	}
	if cfg.Queue.MaxPayloadBytes <= 0 {
		cfg.Queue.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if cfg.Workers.DrainInterval <= 0 {
		cfg.Workers.DrainInterval = DefaultDrainInterval
	}
}
