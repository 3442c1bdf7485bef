package config

import "time"

// Defaults.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 0
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultShutdownTimeout = 5 * time.Second
)

// NewDefault returns a Config populated with defaults.
func NewDefault() *Config {
	cfg := &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		ShutdownTimeout: DefaultShutdownTimeout,
		Sources:         make(map[string]string),
	}
	for _, key := range []string{"host", "port", "logLevel", "logFormat", "shutdownTimeout"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
