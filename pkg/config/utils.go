package config

import (
	"fmt"
	"os"
	"path/filepath"

	"focus-warden/pkg/logger"
)

// initializeConfig creates or loads the configuration.
func initializeConfig(providedPath string, defaultPath string, log *logger.Logger) (*Config, error) {
	var config *Config
	var err error

	// Try provided path first if specified
	if providedPath != "" {
		config, err = loadConfigFromPath(providedPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return config, nil
	}

	// Try default path, create if doesn't exist
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		config, err = DefaultConfig(log)
		if err != nil {
			return nil, err
		}

		data, err := config.Encode()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(defaultPath, data, 0644); err != nil {
			log.Error("Failed to write default config", err, "path", defaultPath)
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		config.path = defaultPath
		log.Info("Wrote default configuration", "path", defaultPath)
		return config, nil
	}

	config, err = loadConfigFromPath(defaultPath, log)
	if err != nil {
		log.Warn("Falling back to default configuration", "path", defaultPath, "error", err.Error())
		return DefaultConfig(log)
	}
	return config, nil
}

// FindConfig locates and initializes the configuration. An explicit path
// must load; otherwise $XDG_CONFIG_HOME/focus-warden/config.toml is used and
// created with defaults on first start.
func FindConfig(providedPath string, log *logger.Logger) (*Config, error) {
	log.Info("Looking for configuration", "provided_path", providedPath)

	// Get user config directory
	homeConfigDir, err := os.UserConfigDir()
	if err != nil {
		log.Error("Failed to get user config directory", err)
		return nil, err
	}

	defaultConfigDir := filepath.Join(homeConfigDir, defaultConfigDirName)
	defaultConfigPath := filepath.Join(defaultConfigDir, defaultConfigFileName)

	log.Debug("Configuration paths",
		"config_dir", defaultConfigDir,
		"config_path", defaultConfigPath)

	if providedPath == "" {
		log.Debug("Ensuring directory exists", "path", defaultConfigDir)
		if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
			log.Error("Failed to create directory", err, "path", defaultConfigDir)
			return nil, err
		}
	}

	return initializeConfig(providedPath, defaultConfigPath, log)
}
