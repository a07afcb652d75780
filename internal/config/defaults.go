package config

import (
	"time"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// DefaultPath is where init writes and commands read the configuration.
const DefaultPath = "notifcenter.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Source:        SourceMemory,
			UserID:        notifications.DefaultUserID,
			FetchLatency:  500 * time.Millisecond,
			DropdownLimit: notifications.DefaultDropdownLimit,
		},
		Activity: ActivityConfig{
			Enabled: true,
		},
	}
}
