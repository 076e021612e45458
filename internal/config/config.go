// Package config loads the command line's settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/blackjack/pkg/cards"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the command line looks for settings when --config is not given.
const DefaultPath = ".blackjack/config.yaml"

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Redis holds the redis store settings.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Store selects where table histories are kept.
type Store struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Redis   Redis  `mapstructure:"redis"`
}

// HTTP holds the server settings.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

// Config is the full settings tree.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Decks    int    `mapstructure:"decks"`
	Store    Store  `mapstructure:"store"`
	HTTP     HTTP   `mapstructure:"http"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Decks:    cards.DefaultDecks,
		Store: Store{
			Backend: BackendFile,
			Path:    ".blackjack/tables",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "blackjack:table:",
			},
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load reads a YAML or JSON file over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode merges raw into cfg. Durations may be written as "30s" and numbers as strings.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Validate checks the values a decoder cannot.
func (c Config) Validate() error {
	if c.Decks < 1 {
		return fmt.Errorf("invalid config: decks must be positive, got %d", c.Decks)
	}
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("invalid config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}
