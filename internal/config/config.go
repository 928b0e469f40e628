// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package config manages lmt's TOML configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lmtdev/lmt/internal/catalog"
	"github.com/lmtdev/lmt/internal/util"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config holds the user-tunable settings.
type Config struct {
	// DefaultModel is used when neither a flag nor a template names a
	// model. Accepts catalog aliases.
	DefaultModel string `toml:"default_model"`

	// WordWrap is the column width for formatted markdown output.
	WordWrap int `toml:"word_wrap"`

	// RefreshPerSecond caps how often the streamed response is
	// re-rendered.
	RefreshPerSecond int `toml:"refresh_per_second"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultModel:     catalog.DefaultModel,
		WordWrap:         80,
		RefreshPerSecond: 30,
	}
}

// Validate checks the configuration values and normalizes the model
// name to its canonical id.
func (c *Config) Validate() error {
	id, err := catalog.Resolve(c.DefaultModel)
	if err != nil {
		return fmt.Errorf("default_model: %w", err)
	}
	c.DefaultModel = id

	if c.WordWrap < 20 || c.WordWrap > 500 {
		return fmt.Errorf("word_wrap must be between 20 and 500, got %d", c.WordWrap)
	}
	if c.RefreshPerSecond < 1 || c.RefreshPerSecond > 120 {
		return fmt.Errorf("refresh_per_second must be between 1 and 120, got %d", c.RefreshPerSecond)
	}
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Dir returns lmt's config directory, ~/.config/lmt on most systems.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "lmt"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, falling back to defaults when it does
// not exist. Values absent from the file keep their defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
