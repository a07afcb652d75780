package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ziadkadry99/notifcenter/internal/activity"
	"github.com/ziadkadry99/notifcenter/internal/config"
	"github.com/ziadkadry99/notifcenter/internal/db"
	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `notifcenter init` to create a config file", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// loadEnvFile exports the variables in path into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// app is the set of components every command works with.
type app struct {
	cfg      *config.Config
	db       *db.DB
	store    *notifications.Store
	activity *activity.Store
}

// newApp builds the notification source, the activity log and the store
// on top of them. The SQLite database is shared by the sqlite source and
// the activity log, and is only opened when one of them needs it.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	seed := notifications.DefaultSeed(cfg.Store.UserID)
	if cfg.Store.SeedFile != "" {
		var err error
		if seed, err = notifications.LoadSeed(cfg.Store.SeedFile, cfg.Store.UserID); err != nil {
			return nil, err
		}
	}

	if cfg.Store.Source == config.SourceSQLite || cfg.Activity.Enabled {
		database, err := db.OpenMemory()
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.db = database
	}

	var src notifications.Source
	switch cfg.Store.Source {
	case config.SourceSQLite:
		sqlSrc := notifications.NewSQLSource(a.db, cfg.Store.UserID)
		if err := sqlSrc.Insert(ctx, seed); err != nil {
			a.Close()
			return nil, fmt.Errorf("seeding database: %w", err)
		}
		src = notifications.Delayed(sqlSrc, cfg.Store.FetchLatency)
	default:
		src = notifications.NewMemorySource(seed, cfg.Store.FetchLatency)
	}

	opts := []notifications.Option{
		notifications.WithLogger(log.New(os.Stderr, "", log.LstdFlags), cfg.Verbose),
	}
	if cfg.Activity.Enabled {
		a.activity = activity.NewStore(a.db)
		opts = append(opts, notifications.WithRecorder(a.activity))
	}

	a.store = notifications.NewStore(src, opts...)
	return a, nil
}

// Close releases the database, if one was opened.
func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
