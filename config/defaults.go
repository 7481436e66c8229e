// =============================================================================
// 📦 swarmdfs defaults
// =============================================================================
package config

import "time"

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Swarm:     DefaultSwarmConfig(),
		Server:    DefaultServerConfig(),
		Store:     DefaultStoreConfig(),
		Log:       DefaultLogConfig(),
		Metrics:   DefaultMetricsConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultSwarmConfig uses first_available with no rate limit or run timeout.
func DefaultSwarmConfig() SwarmConfig {
	return SwarmConfig{
		Policy:      "first_available",
		WorkerRPS:   0,
		WorkerBurst: 1,
		RunTimeout:  0,
	}
}

// DefaultServerConfig returns the HTTP defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    5 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
	}
}

// DefaultStoreConfig keeps traces in memory.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Type: "memory",
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			DB:        0,
			PoolSize:  10,
			KeyPrefix: "swarmdfs:trace:",
			TTL:       7 * 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Host:            "localhost",
			Port:            5432,
			User:            "swarmdfs",
			Name:            "swarmdfs.db",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

// DefaultLogConfig logs at info level to stderr in console format.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:        "info",
		Format:       "console",
		OutputPaths:  []string{"stderr"},
		EnableCaller: false,
	}
}

// DefaultMetricsConfig returns the metrics defaults.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "swarmdfs",
	}
}

// DefaultTelemetryConfig leaves telemetry disabled.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "swarmdfs",
		SampleRate:   0.1,
	}
}
