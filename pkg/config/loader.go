package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Error reports a problem with a config file.
type Error struct {
	Path    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	}
	return e.Path + ": " + e.Message
}

// LoadFile reads a YAML config file. Keys absent from the file are left at
// their zero value.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		cfgErr := &Error{Path: path, Message: err.Error()}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			cfgErr.Message = strings.Join(typeErr.Errors, "; ")
		}
		return nil, cfgErr
	}
	return &cfg, nil
}

// LoadEnv merges environment variables into cfg.
func LoadEnv(cfg *Config) error {
	var env envConfig
	if err := envdecode.Decode(&env); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return fmt.Errorf("environment: %w", err)
	}
	Merge(cfg, &Config{
		Host:            env.Host,
		Port:            env.Port,
		LogLevel:        env.LogLevel,
		LogFormat:       env.LogFormat,
		LogFile:         env.LogFile,
		MetricsAddr:     env.MetricsAddr,
		ShutdownTimeout: env.ShutdownTimeout,
	}, SourceEnv)
	return nil
}

// Load resolves defaults, the optional file at path and the environment.
// Flags are applied by the caller with Merge before calling Validate.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, fileCfg, SourceFile)
	}

	if err := LoadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalises and checks cfg.
func Validate(cfg *Config) error {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' check (value %v)", fe.Field(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
	}
	return nil
}
