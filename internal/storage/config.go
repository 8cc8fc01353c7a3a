package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jacksmith/td/internal/persist"
	"github.com/spf13/viper"
)

const (
	// userConfigFile is the name of the user configuration file (sibling to .td/).
	userConfigFile = ".tdconfig.yaml"

	// envPrefix prefixes environment overrides, e.g. TD_BACKEND=bolt.
	envPrefix = "TD"

	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	// Default configuration values
	DefaultBackend      = BackendFile
	DefaultKey          = persist.DefaultKey
	DefaultLogLevel     = "info"
	DefaultLogFile      = "td.log"
	DefaultFlushTimeout = 5 * time.Second
	DefaultView         = "active"
)

// Config represents user configuration from .tdconfig.yaml.
// This file is user-managed and never written by td.
type Config struct {
	// Backend selects the persistence adapter.
	Backend string `mapstructure:"backend" validate:"oneof=file bolt sqlite memory"`

	// Key is the backing-store key the task snapshot is saved under.
	Key string `mapstructure:"key" validate:"required"`

	// LogLevel is the minimum zap level written to the log file.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// LogFile is the log path, relative to .td/ unless absolute.
	LogFile string `mapstructure:"log_file" validate:"required"`

	// FlushTimeout bounds how long td waits for pending writes at exit.
	FlushTimeout time.Duration `mapstructure:"flush_timeout" validate:"nonzero_duration"`

	// DefaultView is what `td list` shows without --done or --all.
	DefaultView string `mapstructure:"default_view" validate:"oneof=active done all"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:      DefaultBackend,
		Key:          DefaultKey,
		LogLevel:     DefaultLogLevel,
		LogFile:      DefaultLogFile,
		FlushTimeout: DefaultFlushTimeout,
		DefaultView:  DefaultView,
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New()

	_ = v.RegisterValidation("nonzero_duration", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(time.Duration); ok {
			return d > 0
		}
		return false
	})
	return v.Struct(c)
}

// LoadConfig loads .tdconfig.yaml if it exists, otherwise returns defaults.
// The config file is a sibling to .td/ (in the same directory). Partial
// config files are merged with defaults, and TD_* environment variables
// override both.
func (s *Storage) LoadConfig() (*Config, error) {
	return LoadConfigFile(s.ConfigPath())
}

// LoadConfigFile is LoadConfig for an explicit path.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("key", def.Key)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("flush_timeout", def.FlushTimeout)
	v.SetDefault("default_view", def.DefaultView)

	name := filepath.Base(path)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return cfg, nil
}

// ConfigPath returns the path to the user config file.
func (s *Storage) ConfigPath() string {
	return filepath.Join(s.root, userConfigFile)
}
