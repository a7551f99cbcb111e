package config

import (
	"fmt"
	"os"
	"path/filepath"

	"focus-warden/pkg/logger"
)

const (
	DefaultFocusPolicy      = "click"
	DefaultStealingLevel    = 2
	DefaultProtectionLevel  = 2
	DefaultBackend          = "auto"
	DefaultSocketName       = "focus-warden.sock"
	DefaultJournalName      = "journal.db"
	defaultConfigDirName    = "focus-warden"
	defaultConfigFileName   = "config.toml"
	defaultDataDirComponent = ".local/share/focus-warden"
)

// DefaultConfig creates a default configuration.
func DefaultConfig(log *logger.Logger) (*Config, error) {
	log.Debug("Creating default configuration")

	dataDir, err := defaultDataDir()
	if err != nil {
		log.Error("Failed to get data directory", err)
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	config := &Config{
		focusPolicy:             DefaultFocusPolicy,
		focusStealingPrevention: DefaultStealingLevel,
		focusProtection:         DefaultProtectionLevel,
		backend:                 DefaultBackend,
		socketPath:              DefaultSocketPath(),
		journalDSN:              filepath.Join(dataDir, DefaultJournalName),
		dbusExport:              true,
		attentionNotify:         true,
		log:                     log,
	}

	log.Info("Created default configuration",
		"focus_policy", config.focusPolicy,
		"socket_path", config.socketPath,
		"journal_dsn", config.journalDSN)

	return config, nil
}

// DefaultSocketPath places the control socket in the runtime directory,
// falling back to the temp directory.
func DefaultSocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, DefaultSocketName)
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, defaultConfigDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultDataDirComponent), nil
}
