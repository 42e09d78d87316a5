package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-device-id unique installation identifier
//	-base-url remote data API base URL
//	-health-path connectivity probe path
//	-ping-interval connectivity probe interval (e.g., "10s")
//	-request-timeout remote request timeout (e.g., "15s", "1m")
//	-d local database DSN
//	-max-attempts delivery attempts before dead-letter
//	-base-delay first retry backoff delay (e.g., "1s")
//	-max-delay backoff growth cap (e.g., "5m")
//	-batch-size operations per drain batch
//	-max-payload-bytes estimated batch payload cap
//	-drain-interval periodic drain job interval (e.g., "1m")
//	-conflict-strategy automatic conflict strategy (local|remote|merge|manual)
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var deviceID string
	var conflictStrategy string
	var baseURL string
	var healthPath string
	var pingInterval time.Duration
	var requestTimeout time.Duration
	var databaseDSN string
	var maxAttempts int
	var baseDelay time.Duration
	var maxDelay time.Duration
	var batchSize int
	var maxPayloadBytes int
	var drainInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&deviceID, "device-id", "", "Unique installation identifier")
	flag.StringVar(&conflictStrategy, "conflict-strategy", "", "Automatic conflict strategy (local|remote|merge|manual)")
	flag.StringVar(&baseURL, "base-url", "", "Remote data API base URL")
	flag.StringVar(&healthPath, "health-path", "", "Connectivity probe path")
	flag.DurationVar(&pingInterval, "ping-interval", 0, "Connectivity probe interval (e.g., 10s)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 15s, 1m)")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.IntVar(&maxAttempts, "max-attempts", 0, "Delivery attempts before dead-letter")
	flag.DurationVar(&baseDelay, "base-delay", 0, "First retry backoff delay (e.g., 1s)")
	flag.DurationVar(&maxDelay, "max-delay", 0, "Backoff growth cap (e.g., 5m)")
	flag.IntVar(&batchSize, "batch-size", 0, "Operations per drain batch")
	flag.IntVar(&maxPayloadBytes, "max-payload-bytes", 0, "Estimated batch payload cap")
	flag.DurationVar(&drainInterval, "drain-interval", 0, "Periodic drain job interval (e.g., 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DeviceID:         deviceID,
			ConflictStrategy: conflictStrategy,
		},
		Adapter: Adapter{
			BaseURL:        baseURL,
			HealthPath:     healthPath,
			PingInterval:   pingInterval,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Queue: Queue{
			MaxAttempts:     maxAttempts,
			BaseDelay:       baseDelay,
			MaxDelay:        maxDelay,
			BatchSize:       batchSize,
			MaxPayloadBytes: maxPayloadBytes,
		},
		Workers:      Workers{DrainInterval: drainInterval},
		JSONFilePath: jsonConfigPath,
	}
}
