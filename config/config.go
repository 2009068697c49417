package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	DoomdeckDir        string `mapstructure:"DOOMDECK_DIR"`
	IdgamesAPIURL      string `mapstructure:"IDGAMES_API_URL"`
	IdgamesMirrorURL   string `mapstructure:"IDGAMES_MIRROR_URL"`
	UserAgent          string `mapstructure:"USERAGENT"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
	DatabasePath       string `mapstructure:"-"` // Not from env, derived
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)   // Path to look for the config file in
	viper.SetConfigName(".env") // Name of config file (without extension)
	viper.SetConfigType("env")  // REQUIRED if the config file does not have the extension in the name

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	// Bind environment variables automatically.
	viper.AutomaticEnv()

	for key, env := range map[string]string{
		"doomdeck_dir":         "DOOMDECK_DIR",
		"idgames_api_url":      "IDGAMES_API_URL",
		"idgames_mirror_url":   "IDGAMES_MIRROR_URL",
		"useragent":            "USERAGENT",
		"http_timeout_seconds": "HTTP_TIMEOUT_SECONDS",
	} {
		if bindErr := viper.BindEnv(key, env); bindErr != nil {
			slog.Warn("Unable to bind env var", "name", env, "error", bindErr)
		}
	}

	// Unmarshal the config
	if vipErr = viper.Unmarshal(&config); vipErr != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vipErr)
	}

	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	// Derive DatabasePath (place it in the data dir for portability)
	config.DatabasePath = filepath.Join(config.DoomdeckDir, "doomdeck.db")

	return config, nil
}

// processConfigDefaults fills in defaults for optional settings.
func processConfigDefaults(config *Config) {
	if config.IdgamesAPIURL == "" {
		config.IdgamesAPIURL = "https://www.doomworld.com/idgames/api/api.php"
	}
	if config.IdgamesMirrorURL == "" {
		config.IdgamesMirrorURL = "https://www.quaddicted.com/files/idgames/"
	}
	if config.UserAgent == "" {
		config.UserAgent = "doomdeck/dev (unknown-user)"
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if config.HTTPTimeoutSeconds <= 0 {
		config.HTTPTimeoutSeconds = 30
	}
}

// validateAndEnsureDirectories checks required paths and creates the data dir.
func validateAndEnsureDirectories(config *Config) error {
	if config.DoomdeckDir == "" {
		slog.Error("DOOMDECK_DIR is not set")
		return fmt.Errorf("DOOMDECK_DIR is required")
	}
	if _, err := os.Stat(config.DoomdeckDir); os.IsNotExist(err) {
		slog.Info("Data directory does not exist, creating it", "path", config.DoomdeckDir)
		if err := os.MkdirAll(config.DoomdeckDir, 0755); err != nil {
			slog.Error("Failed to create data directory", "path", config.DoomdeckDir, "error", err)
			return err
		}
	} else if err != nil {
		slog.Error("Failed to check data directory", "path", config.DoomdeckDir, "error", err)
		return err
	}
	return nil
}
