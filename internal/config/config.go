// Package config provides configuration loading for banditd.
package config

import (
	"fmt"
	"time"
)

// Config is the full banditd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Snapshot SnapshotConfig `koanf:"snapshot"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// SnapshotConfig configures registry persistence.
type SnapshotConfig struct {
	Path     string        `koanf:"path"`
	Interval time.Duration `koanf:"interval"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Snapshot: SnapshotConfig{
			Path:     "", // empty disables persistence; default set by loader
			Interval: 30 * time.Second,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Snapshot.Interval < 0 {
		return fmt.Errorf("snapshot.interval must not be negative, got %s", c.Snapshot.Interval)
	}
	return nil
}
