// Package config loads the probe tool's TOML configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config: probe settings (server candidates plus ambient knobs).
type Config struct {
	Servers        []string `toml:"servers"`
	CachePath      string   `toml:"cache_path"`
	DialTimeoutSec int      `toml:"dial_timeout_sec"`
	LogLevel       string   `toml:"log_level"`
}

// Default returns the built-in settings used when no file is given.
func Default() Config {
	return Config{
		CachePath:      "steamnet.db",
		DialTimeoutSec: 10,
		LogLevel:       "info",
	}
}

// Load reads path and overlays it onto the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("servers") {
		cfg.Servers = raw.Servers
	}
	if meta.IsDefined("cache_path") {
		cfg.CachePath = strings.TrimSpace(raw.CachePath)
	}
	if meta.IsDefined("dial_timeout_sec") {
		cfg.DialTimeoutSec = raw.DialTimeoutSec
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the probe cannot run with.
func Validate(cfg Config) error {
	if cfg.CachePath == "" {
		return fmt.Errorf("cache_path must not be empty")
	}
	if cfg.DialTimeoutSec <= 0 {
		return fmt.Errorf("dial_timeout_sec must be positive")
	}
	for _, s := range cfg.Servers {
		if !strings.Contains(s, ":") {
			return fmt.Errorf("server %q missing port", s)
		}
	}
	return nil
}
