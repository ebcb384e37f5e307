// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package config loads memorydeck settings from a config file and the
// environment. Precedence: environment (MEMORYDECK_*), then config file,
// then defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings.
type Config struct {
	// DataDir is where the databases live. Defaults to
	// $XDG_DATA_HOME/memorydeck or ~/.local/share/memorydeck.
	DataDir string `mapstructure:"data_dir"`

	// Storage selects the backend: "sql" (default), "kv", or "memory".
	Storage string `mapstructure:"storage"`

	// UndoWindow is how long a deleted term stays undoable.
	UndoWindow time.Duration `mapstructure:"undo_window"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Load reads the config file (if any) and environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "memorydeck"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("MEMORYDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("storage", "sql")
	v.SetDefault("undo_window", 5*time.Second)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DBPath is the SQL database file location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "memorydeck.db")
}

// KVPath is the key-value database file location.
func (c *Config) KVPath() string {
	return filepath.Join(c.DataDir, "memorydeck.kv")
}

// EnsureDataDir creates the data directory if missing.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "memorydeck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "memorydeck-data"
	}
	return filepath.Join(home, ".local", "share", "memorydeck")
}
