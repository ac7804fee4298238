// Package config loads carton settings from defaults, an optional config
// file, CARTON_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config holds all configuration for the CLI.
type Config struct {
	// Empty means one chunk per worker.
	ChunkSize   string        `mapstructure:"chunk_size"`
	Log         LogConfig     `mapstructure:"log"`
	Journal     JournalConfig `mapstructure:"journal"`
	Workers     int           `mapstructure:"workers"`
	KeepNewline bool          `mapstructure:"keep_newline"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// JournalConfig holds run journal configuration
type JournalConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("chunk_size", "")
	v.SetDefault("keep_newline", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "./var/carton/journal.db")
}

// Load reads configuration into a Config. configFile may be empty, in which
// case carton.{yaml,toml,json} is looked up in the working directory and in
// $HOME/.config/carton; a missing file there is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("CARTON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("carton")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/carton")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := c.ChunkSizeBytes(); err != nil {
		return err
	}
	return nil
}

// ChunkSizeBytes parses ChunkSize ("64KiB", "1MB", "4096"). Zero means auto.
func (c *Config) ChunkSizeBytes() (int64, error) {
	if strings.TrimSpace(c.ChunkSize) == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(c.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q: %w", c.ChunkSize, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid chunk size %q: must be positive", c.ChunkSize)
	}
	return int64(n), nil
}
