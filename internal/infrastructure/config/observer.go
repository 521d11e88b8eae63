package config

// ObserverConfig holds the websocket observer HTTP listener configuration
type ObserverConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required_if=Enabled true"`

	// Origins allowed to open a websocket; empty allows same-host only
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}
