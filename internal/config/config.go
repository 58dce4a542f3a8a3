// Package config loads settings for the appinfo CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all CLI configuration
type Config struct {
	// IconSize is the default requested icon size in pixels. 0 disables
	// icon fetching for listing commands.
	IconSize uint32 `mapstructure:"icon_size"`

	// OutputDir is where the export command writes PNG files.
	OutputDir string `mapstructure:"output_dir"`

	// JSON switches list/find output to JSON.
	JSON bool `mapstructure:"json"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		IconSize:  64,
		OutputDir: "app_icons",
		LogLevel:  "info",
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("appinfo")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(getConfigDir())
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APPINFO")
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

// getConfigDir returns the platform-specific config directory
func getConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("AppData"), "appinfo")
	case "darwin":
		return filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "appinfo")
	default:
		return filepath.Join(os.Getenv("HOME"), ".config", "appinfo")
	}
}
