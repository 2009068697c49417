package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.IdgamesAPIURL == "" {
			t.Error("Expected IdgamesAPIURL to have a default value")
		}
		if cfg.IdgamesMirrorURL == "" {
			t.Error("Expected IdgamesMirrorURL to have a default value")
		}
		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
		if cfg.HTTPTimeoutSeconds != 30 {
			t.Errorf("Expected HTTPTimeoutSeconds to default to 30, got %d", cfg.HTTPTimeoutSeconds)
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			IdgamesAPIURL:      "http://localhost:9999/api.php",
			IdgamesMirrorURL:   "http://localhost:9999/idgames/",
			UserAgent:          "custom-agent",
			HTTPTimeoutSeconds: 5,
		}
		processConfigDefaults(&cfg)

		if cfg.IdgamesAPIURL != "http://localhost:9999/api.php" {
			t.Errorf("Expected IdgamesAPIURL to stay, got %s", cfg.IdgamesAPIURL)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to stay custom-agent, got %s", cfg.UserAgent)
		}
		if cfg.HTTPTimeoutSeconds != 5 {
			t.Errorf("Expected HTTPTimeoutSeconds to stay 5, got %d", cfg.HTTPTimeoutSeconds)
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing data dir setting", func(t *testing.T) {
		cfg := Config{DoomdeckDir: ""}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for missing DoomdeckDir")
		}
	})

	t.Run("creates data directory", func(t *testing.T) {
		target := filepath.Join(tmpDir, "deck")
		cfg := Config{DoomdeckDir: target}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("validateAndEnsureDirectories() error: %v", err)
		}
		if _, err := os.Stat(target); err != nil {
			t.Errorf("Expected data directory to be created: %v", err)
		}
	})

	t.Run("accepts existing directory", func(t *testing.T) {
		cfg := Config{DoomdeckDir: tmpDir}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Errorf("validateAndEnsureDirectories() error: %v", err)
		}
	})
}
