package app

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DeviceESense   = "esense"
	DeviceMuse     = "muse"
	DeviceZephyr   = "zephyr"
	DeviceEmpatica = "empatica"
)

// Config represents the main application configuration
type Config struct {
	Settings   Settings         `yaml:"settings"`
	Devices    []DeviceConfig   `yaml:"devices"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Storage    StorageConfig    `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// DeviceConfig enables or disables one wearable device family.
type DeviceConfig struct {
	Type    string `yaml:"type"`
	Enabled bool   `yaml:"enabled"`
}

// ExtractionConfig represents extraction settings
type ExtractionConfig struct {
	DataRoot string `yaml:"dataRoot"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Extraction.DataRoot == "" {
		return nil, fmt.Errorf("extraction.dataRoot is required")
	}
	if config.Storage.DatabasePath == "" {
		return nil, fmt.Errorf("storage.databasePath is required")
	}

	// With no devices section every device family is enabled.
	if len(config.Devices) == 0 {
		for _, t := range []string{DeviceESense, DeviceMuse, DeviceZephyr, DeviceEmpatica} {
			config.Devices = append(config.Devices, DeviceConfig{Type: t, Enabled: true})
		}
	}

	return &config, nil
}

// LogLevel parses the configured log level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if c.Settings.LogLevel == "" {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
