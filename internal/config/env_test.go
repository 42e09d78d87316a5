// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_PopulatesNestedGroups(t *testing.T) {
	t.Setenv("APP_DEVICE_ID", "laptop-42")
	t.Setenv("ADAPTER_BASE_URL", "https://api.example.com")
	t.Setenv("ADAPTER_REQUEST_TIMEOUT", "30s")
	t.Setenv("STORAGE_DB_DATABASE_URI", "file:state.db")
	t.Setenv("QUEUE_MAX_ATTEMPTS", "4")
	t.Setenv("QUEUE_BASE_DELAY", "500ms")
	t.Setenv("WORKERS_DRAIN_INTERVAL", "2m")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "laptop-42", cfg.App.DeviceID)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "file:state.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 4, cfg.Queue.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Queue.BaseDelay)
	assert.Equal(t, 2*time.Minute, cfg.Workers.DrainInterval)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("ADAPTER_REQUEST_TIMEOUT", "not-a-duration")

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)
	require.Error(t, err)
}

func TestParseEnv_EmptyEnvLeavesZeroValues(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Empty(t, cfg.App.DeviceID)
	assert.Zero(t, cfg.Queue.MaxAttempts)
}
