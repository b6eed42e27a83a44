// ABOUTME: Layered catalint settings loaded with koanf
// ABOUTME: Defaults, then <home>/config.toml, then CATALINT_* environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment variable read as a setting.
// A double underscore separates nested keys: CATALINT_LOG__LEVEL=debug.
const EnvPrefix = "CATALINT_"

// Config holds every catalint setting
type Config struct {
	Catalog      string        `koanf:"catalog"`
	Output       string        `koanf:"output"`
	Parallelism  int           `koanf:"parallelism"`
	FailuresOnly bool          `koanf:"failures_only"`
	History      HistoryConfig `koanf:"history"`
	Log          LogConfig     `koanf:"log"`
}

// HistoryConfig controls the run history log
type HistoryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Catalog:     "docs/plugins_list.json",
		Output:      "text",
		Parallelism: 1,
		History:     HistoryConfig{Enabled: true},
		Log:         LogConfig{Level: "warn"},
	}
}

// Load layers the defaults, the optional config.toml under home and the
// environment. A missing config.toml is not an error; a malformed one is.
func Load(home string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path := ConfigPath(home)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps CATALINT_HISTORY__ENABLED to history.enabled
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate rejects settings no command could honour
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if strings.TrimSpace(c.Catalog) == "" {
		return errors.New("catalog must not be empty")
	}
	return nil
}
