// Package config handles configuration loading and defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultLogLevel = "warn"
)

// Config holds the full configuration for taskflow.
type Config struct {
	// DBPath overrides the default database location
	DBPath string `toml:"db_path"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`

	// LogFile receives service logs; empty means discard. Logging to
	// stderr would tear the TUI, so there is no console option.
	LogFile string `toml:"log_file"`
}

// Default returns a Config with defaults applied
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
	}
}

// Path returns the expected config file location
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskflow", "config.toml"), nil
}

// Load reads the config file at path, applying defaults for anything
// unset. A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}
