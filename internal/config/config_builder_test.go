package config

import (
	"testing"
	"time"

	"dario.cat/mergo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// сборка вручную, без flag.Parse — проверяем только merge-семантику
func buildFrom(t *testing.T, configs ...*StructuredConfig) *StructuredConfig {
	t.Helper()

	merged := new(StructuredConfig)
	for _, cfg := range configs {
		require.NoError(t, mergo.Merge(merged, cfg))
	}
	return merged
}

func TestBuild_EarlierSourceWins(t *testing.T) {
	envCfg := &StructuredConfig{
		App: App{DeviceID: "from-env"},
	}
	flagCfg := &StructuredConfig{
		App:     App{DeviceID: "from-flags"},
		Adapter: Adapter{BaseURL: "http://flags.example"},
	}

	merged := buildFrom(t, envCfg, flagCfg)

	// env пришёл первым — выигрывает; пустые поля добираются из flags
	assert.Equal(t, "from-env", merged.App.DeviceID)
	assert.Equal(t, "http://flags.example", merged.Adapter.BaseURL)
}

func TestBuild_NestedGroupsMergeIndependently(t *testing.T) {
	first := &StructuredConfig{
		Queue: Queue{MaxAttempts: 7},
	}
	second := &StructuredConfig{
		Queue:   Queue{MaxAttempts: 3, BaseDelay: 2 * time.Second},
		Workers: Workers{DrainInterval: time.Minute},
	}

	merged := buildFrom(t, first, second)

	assert.Equal(t, 7, merged.Queue.MaxAttempts)
	assert.Equal(t, 2*time.Second, merged.Queue.BaseDelay)
	assert.Equal(t, time.Minute, merged.Workers.DrainInterval)
}

func TestNewSyncConfig_AppliesDefaults(t *testing.T) {
	cfg := &StructuredConfig{
		App:     App{DeviceID: "dev-1"},
		Adapter: Adapter{BaseURL: "http://localhost:8080"},
		Storage: Storage{DB: DB{DSN: "file:sync.db"}},
	}

	syncCfg, err := NewSyncConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxAttempts, syncCfg.Queue.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, syncCfg.Queue.BaseDelay)
	assert.Equal(t, DefaultMaxDelay, syncCfg.Queue.MaxDelay)
	assert.Equal(t, DefaultBatchSize, syncCfg.Queue.BatchSize)
	assert.Equal(t, DefaultRequestTimeout, syncCfg.Adapter.RequestTimeout)
	assert.Equal(t, DefaultPingInterval, syncCfg.Adapter.PingInterval)
	assert.Equal(t, DefaultHealthPath, syncCfg.Adapter.HealthPath)
	assert.Equal(t, DefaultDrainInterval, syncCfg.Workers.DrainInterval)
	assert.Equal(t, DefaultStrategy, syncCfg.ConflictStrategy)
}

func TestNewSyncConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{
			name:    "missing device id",
			mutate:  func(c *StructuredConfig) { c.App.DeviceID = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *StructuredConfig) { c.App.ConflictStrategy = "coin-flip" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing base url",
			mutate:  func(c *StructuredConfig) { c.Adapter.BaseURL = "" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "missing dsn",
			mutate:  func(c *StructuredConfig) { c.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "base delay above cap",
			mutate: func(c *StructuredConfig) {
				c.Queue.BaseDelay = time.Hour
				c.Queue.MaxDelay = time.Second
			},
			wantErr: ErrInvalidQueueConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &StructuredConfig{
				App:     App{DeviceID: "dev-1"},
				Adapter: Adapter{BaseURL: "http://localhost:8080"},
				Storage: Storage{DB: DB{DSN: "file:sync.db"}},
			}
			tt.mutate(cfg)

			_, err := NewSyncConfig(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
