package config

import "time"

// DaemonConfig holds settings for the long-running `serve` command
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
