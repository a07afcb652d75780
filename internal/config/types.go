package config

import "time"

// SourceKind selects the backend the notification store reads from.
type SourceKind string

const (
	SourceMemory SourceKind = "memory"
	SourceSQLite SourceKind = "sqlite"
)

// Config is the top-level notifcenter configuration, corresponding to notifcenter.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Store    StoreConfig    `yaml:"store" koanf:"store"`
	Activity ActivityConfig `yaml:"activity" koanf:"activity"`
	Verbose  bool           `yaml:"verbose" koanf:"verbose"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowedOrigins  []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// StoreConfig controls the notification source and the views built on it.
type StoreConfig struct {
	Source        SourceKind    `yaml:"source" koanf:"source"`
	UserID        string        `yaml:"user_id" koanf:"user_id"`
	SeedFile      string        `yaml:"seed_file" koanf:"seed_file"`
	FetchLatency  time.Duration `yaml:"fetch_latency" koanf:"fetch_latency"`
	DropdownLimit int           `yaml:"dropdown_limit" koanf:"dropdown_limit"`
}

// ActivityConfig controls the mutation activity log.
type ActivityConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}
