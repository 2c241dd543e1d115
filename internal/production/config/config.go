// Package config loads the tool's settings from multiple sources with the
// following precedence: built-in defaults → config.yaml in the data
// directory → .env / AEROFAB_* environment variables → CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all settings of the tool.
type Config struct {
	// DataDir is the directory holding the persisted JSON documents,
	// generated reports, the audit trail and the log file.
	DataDir string `yaml:"data_dir"`
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings: ~/.aerofab at info level.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir:  filepath.Join(home, ".aerofab"),
		LogLevel: "info",
	}
}

// Load resolves the effective configuration. Flag values are passed in
// empty when unset. The data directory is resolved first, across all
// sources, because it decides where config.yaml is read from. Unlike the
// machine-written state files, a malformed config.yaml is an error: the
// file is user-authored and silently ignoring it would hide a mistake.
func Load(flagDataDir, flagLogLevel string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	dataDir := cfg.DataDir
	if v := os.Getenv("AEROFAB_DATA_DIR"); v != "" {
		dataDir = v
	}
	if flagDataDir != "" {
		dataDir = flagDataDir
	}

	if err := cfg.mergeFile(filepath.Join(dataDir, "config.yaml")); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("AEROFAB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("AEROFAB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// mergeFile overlays settings from a YAML file, if present.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	return nil
}
