package config

import "time"

// Config holds the plugin server settings.
type Config struct {
	// Host is the interface the gRPC server binds to.
	Host string `yaml:"host" json:"host" validate:"required"`

	// Port is the gRPC port. 0 selects an ephemeral port, which is what the
	// plugin driver expects.
	Port int `yaml:"port" json:"port" validate:"min=0,max=65535"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"logFormat" json:"logFormat" validate:"oneof=text json"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// MetricsAddr enables the Prometheus endpoint when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `yaml:"metricsAddr,omitempty" json:"metricsAddr,omitempty" validate:"omitempty,hostname_port"`

	// ShutdownTimeout bounds the graceful stop on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout" validate:"gt=0"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`
}

// envConfig mirrors Config for environment decoding. Unset variables leave
// zero values, which are not merged.
type envConfig struct {
	Host            string        `env:"PLUGIN_HOST"`
	Port            int           `env:"PLUGIN_PORT"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
	LogFile         string        `env:"PLUGIN_LOG_FILE"`
	MetricsAddr     string        `env:"PLUGIN_METRICS_ADDR"`
	ShutdownTimeout time.Duration `env:"PLUGIN_SHUTDOWN_TIMEOUT"`
}

// Value sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
