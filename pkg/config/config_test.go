package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, 0, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceDefault, cfg.Sources["port"])
	require.NoError(t, Validate(cfg))
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
host: 127.0.0.1
port: 50051
logLevel: debug
metricsAddr: 127.0.0.1:9464
shutdownTimeout: 10s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 50051, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9464", cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceFile, cfg.Sources["port"])
	assert.Equal(t, SourceDefault, cfg.Sources["logFormat"])
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "port: [1, 2]\n"))
	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "plugin.yaml")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "port: 50051\nlogLevel: warn\n")
	t.Setenv("PLUGIN_PORT", "6000")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PLUGIN_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, SourceEnv, cfg.Sources["port"])

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("PLUGIN_PORT", "not-a-number")

	_, err := Load("")
	assert.Error(t, err)
}

func TestMergeFlags(t *testing.T) {
	cfg := NewDefault()
	Merge(cfg, &Config{Port: 7000, LogFormat: "json"}, SourceFlag)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, SourceFlag, cfg.Sources["port"])
	assert.Equal(t, SourceDefault, cfg.Sources["host"])

	Merge(cfg, nil, SourceFlag)
	assert.Equal(t, 7000, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "Port"},
		{name: "negative port", mutate: func(c *Config) { c.Port = -1 }, wantErr: "Port"},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "LogLevel"},
		{name: "unknown format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LogFormat"},
		{name: "bad metrics addr", mutate: func(c *Config) { c.MetricsAddr = "nope" }, wantErr: "MetricsAddr"},
		{name: "zero timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: "ShutdownTimeout"},
		{name: "empty host", mutate: func(c *Config) { c.Host = "" }, wantErr: "Host"},
		{name: "upper case level", mutate: func(c *Config) { c.LogLevel = "WARN" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
