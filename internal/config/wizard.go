package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/notifcenter/internal/notifications"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to notifcenter! Let's configure your notification center.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Source selection.
	sourcePrompt := promptui.Select{
		Label: "Select notification source",
		Items: []string{
			"memory: seeded in-process list",
			"sqlite: seeded in-memory SQLite database",
		},
	}
	sourceIdx, _, err := sourcePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("source selection: %w", err)
	}
	cfg.Store.Source = []SourceKind{SourceMemory, SourceSQLite}[sourceIdx]

	// 2. User.
	userPrompt := promptui.Prompt{
		Label:    "User ID",
		Default:  cfg.Store.UserID,
		Validate: validateNonEmpty,
	}
	if cfg.Store.UserID, err = userPrompt.Run(); err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}

	// 3. Seed file.
	seedPrompt := promptui.Prompt{
		Label:    "Seed file or pattern (YAML, leave blank for the built-in notifications)",
		Validate: validateOptionalFile,
	}
	if cfg.Store.SeedFile, err = seedPrompt.Run(); err != nil {
		return nil, fmt.Errorf("seed file: %w", err)
	}

	// 4. Simulated latency.
	latencyPrompt := promptui.Prompt{
		Label:    "Simulated fetch latency",
		Default:  cfg.Store.FetchLatency.String(),
		Validate: validateDuration,
	}
	latency, err := latencyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("fetch latency: %w", err)
	}
	cfg.Store.FetchLatency, _ = time.ParseDuration(latency)

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	port, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(port)

	// 6. CORS origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed origins (comma-separated)",
		Default: strings.Join(cfg.Server.AllowedOrigins, ","),
	}
	origins, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(origins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

func validateOptionalFile(s string) error {
	if s == "" {
		return nil
	}
	paths, err := notifications.SeedFiles(s)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return errors.New("file does not exist")
		}
	}
	return nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("not a duration, e.g. 500ms")
	}
	if d < 0 {
		return errors.New("must be non-negative")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("must be a number between 1 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
