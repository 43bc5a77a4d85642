// Package config loads the zarr-validate CLI configuration from environment
// variables (prefix OMEZARR) and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config drives one validation run.
type Config struct {
	// Driver selects the store backend: memory|fs|s3|sqlite|postgres.
	Driver string `mapstructure:"driver" validate:"required,oneof=memory fs s3 sqlite postgres"`
	// Root is the directory root for the fs driver.
	Root string `mapstructure:"root"`
	// SQLitePath is the database path for the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path"`
	// PostgresDSN is the connection string for the postgres driver.
	PostgresDSN string `mapstructure:"postgres_dsn"`
	// Node is the path of the group to validate, relative to the store root.
	Node string `mapstructure:"node"`
	// Kind selects what to validate the node as: auto tries image, then
	// labels, then hcs.
	Kind string `mapstructure:"kind" validate:"required,oneof=auto image labels hcs"`
	// Strict additionally checks the raw attribute document against the
	// embedded NGFF JSON schema before model parsing.
	Strict bool `mapstructure:"strict"`
	// LogLevel sets the slog level: DEBUG|INFO|WARN|ERROR.
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=DEBUG INFO WARN ERROR"`
	// Metrics publishes an expvar recorder of store operations when set.
	Metrics bool `mapstructure:"metrics"`
}

// Load reads, defaults, and validates the configuration.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("driver", "fs")
	v.SetDefault("root", ".")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("node", "")
	v.SetDefault("kind", "auto")
	v.SetDefault("strict", false)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("metrics", false)

	v.SetEnvPrefix("OMEZARR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile := os.Getenv("OMEZARR_CONFIG_PATH"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
