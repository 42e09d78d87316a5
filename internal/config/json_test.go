package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSONConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeJSONConfig(t, `{
		"app": {"device_id": "desktop-1", "conflict_strategy": "merge"},
		"adapter": {"base_url": "https://api.example.com", "request_timeout": "20s", "ping_interval": "5s"},
		"storage": {"db": {"dsn": "file:fable.db"}},
		"queue": {"max_attempts": 6, "base_delay": "2s", "max_delay": "10m", "batch_size": 25, "max_payload_bytes": 1024},
		"workers": {"drain_interval": "45s"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "desktop-1", cfg.App.DeviceID)
	assert.Equal(t, "merge", cfg.App.ConflictStrategy)
	assert.Equal(t, "https://api.example.com", cfg.Adapter.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Adapter.PingInterval)
	assert.Equal(t, "file:fable.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 6, cfg.Queue.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Queue.BaseDelay)
	assert.Equal(t, 10*time.Minute, cfg.Queue.MaxDelay)
	assert.Equal(t, 25, cfg.Queue.BatchSize)
	assert.Equal(t, 1024, cfg.Queue.MaxPayloadBytes)
	assert.Equal(t, 45*time.Second, cfg.Workers.DrainInterval)
}

func TestParseJSON_DurationAsNanoseconds(t *testing.T) {
	path := writeJSONConfig(t, `{"queue": {"base_delay": 1000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Queue.BaseDelay)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeJSONConfig(t, `{"app": `)

	_, err := parseJSON(path)
	require.Error(t, err)
}
