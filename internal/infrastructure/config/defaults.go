package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "amalgam-ledger.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "amalgam"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "amalgam"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/amalgam-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/amalgam-daemon.pid"
	}
	if cfg.Daemon.MaxSessions == 0 {
		cfg.Daemon.MaxSessions = 64
	}
	if cfg.Daemon.RequestTimeout == 0 {
		cfg.Daemon.RequestTimeout = 5 * time.Second
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}

	// Game defaults
	if cfg.Game.GridSize == 0 {
		cfg.Game.GridSize = 20
	}
	if cfg.Game.ResourceChance == 0 {
		cfg.Game.ResourceChance = 0.12
	}
	if cfg.Game.MiningCap == 0 {
		cfg.Game.MiningCap = 10
	}
	if cfg.Game.MoveCooldown == 0 {
		cfg.Game.MoveCooldown = 300 * time.Millisecond
	}

	// Observer defaults
	if cfg.Observer.Address == "" {
		cfg.Observer.Address = "localhost:8420"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9420
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}
