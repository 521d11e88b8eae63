package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Unix socket path for the gRPC game service
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Maximum number of live sessions held in memory
	MaxSessions int `mapstructure:"max_sessions" validate:"min=1"`

	// Timeout applied to each CLI call against the daemon
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
