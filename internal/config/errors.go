package config

import "errors"

// Validation errors returned by [SyncConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates missing engine identity or an unknown
	// conflict strategy.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidAdapterConfigs indicates invalid remote transport settings
	// (for example, missing base URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid durable store settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidQueueConfigs indicates inconsistent queue tuning
	// (for example, base delay above the max delay cap).
	ErrInvalidQueueConfigs = errors.New("invalid queue configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero drain interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
