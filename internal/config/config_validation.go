// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// engine invariants before it is used at startup.
//
// Intentionally permissive: the structured config is an intermediate merge
// product; real validation happens on the [SyncConfig] view.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *SyncConfig) validate() error {
	if cfg.DeviceID == "" {
		return ErrInvalidAppConfigs
	}

	switch cfg.ConflictStrategy {
	case "local", "remote", "merge", "manual":
	default:
		return ErrInvalidAppConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Queue.BaseDelay > cfg.Queue.MaxDelay {
		return ErrInvalidQueueConfigs
	}

	if cfg.Workers.DrainInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
