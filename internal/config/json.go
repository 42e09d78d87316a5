package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so JSON configs can spell durations as
// strings ("30s", "1m") or raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("error parsing duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

type StructuredJSONConfig struct {
	App struct {
		DeviceID         string `json:"device_id"`
		ConflictStrategy string `json:"conflict_strategy"`
	} `json:"app,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		HealthPath     string   `json:"health_path"`
		PingInterval   Duration `json:"ping_interval"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Queue struct {
		MaxAttempts     int      `json:"max_attempts"`
		BaseDelay       Duration `json:"base_delay"`
		MaxDelay        Duration `json:"max_delay"`
		BatchSize       int      `json:"batch_size"`
		MaxPayloadBytes int      `json:"max_payload_bytes"`
	} `json:"queue,omitempty"`

	Workers struct {
		DrainInterval Duration `json:"drain_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			DeviceID:         jsonCfg.App.DeviceID,
			ConflictStrategy: jsonCfg.App.ConflictStrategy,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			HealthPath:     jsonCfg.Adapter.HealthPath,
			PingInterval:   time.Duration(jsonCfg.Adapter.PingInterval),
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Queue: Queue{
			MaxAttempts:     jsonCfg.Queue.MaxAttempts,
			BaseDelay:       time.Duration(jsonCfg.Queue.BaseDelay),
			MaxDelay:        time.Duration(jsonCfg.Queue.MaxDelay),
			BatchSize:       jsonCfg.Queue.BatchSize,
			MaxPayloadBytes: jsonCfg.Queue.MaxPayloadBytes,
		},
		Workers: Workers{DrainInterval: time.Duration(jsonCfg.Workers.DrainInterval)},
	}

	return cfg, nil
}
