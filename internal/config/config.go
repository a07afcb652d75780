package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NOTIFCENTER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NOTIFCENTER_*). A double underscore
// separates nesting levels: NOTIFCENTER_SERVER__PORT sets server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps NOTIFCENTER_STORE__FETCH_LATENCY to store.fetch_latency.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validSources is the set of recognized source values.
var validSources = map[SourceKind]bool{
	SourceMemory: true,
	SourceSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be non-negative")
	}

	if !validSources[c.Store.Source] {
		return fmt.Errorf("invalid store.source %q: must be one of memory, sqlite", c.Store.Source)
	}

	if strings.TrimSpace(c.Store.UserID) == "" {
		return fmt.Errorf("store.user_id is required")
	}

	if c.Store.FetchLatency < 0 {
		return fmt.Errorf("store.fetch_latency must be non-negative")
	}

	if c.Store.DropdownLimit < 0 {
		return fmt.Errorf("store.dropdown_limit must be non-negative")
	}

	if c.Store.SeedFile != "" {
		paths, err := notifications.SeedFiles(c.Store.SeedFile)
		if err != nil {
			return fmt.Errorf("store.seed_file: %w", err)
		}
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				return fmt.Errorf("store.seed_file: %w", err)
			}
		}
	}

	return nil
}
