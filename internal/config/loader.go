package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "linko", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// On macOS prefer Application Support if it already exists there
	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "linko", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
	}

	return filepath.Join(homeDir, ".config", "linko", "config.yaml")
}

// GetConfigPath returns the path to the config file (exported for external use).
func GetConfigPath() string {
	return getConfigPath()
}

// ConfigDir returns the directory holding config, session, memory and audit files.
func ConfigDir() (string, error) {
	path := getConfigPath()
	if path == "" {
		return "", fmt.Errorf("could not determine config directory")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if root := os.Getenv("LINKO_WIKI_ROOT"); root != "" {
		cfg.Wiki.Root = root
	}
	if provider := os.Getenv("LINKO_PROVIDER"); provider != "" {
		cfg.Session.DefaultProvider = provider
	}
	if level := os.Getenv("LINKO_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// applyDefaults fills in paths that depend on the config directory.
func applyDefaults(cfg *Config) {
	dir, err := ConfigDir()
	if err != nil {
		return
	}
	if cfg.Session.File == "" {
		cfg.Session.File = filepath.Join(dir, "session.json")
	}
	if cfg.Memory.File == "" {
		cfg.Memory.File = filepath.Join(dir, "memory.json")
	}
}
