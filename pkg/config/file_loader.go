package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"focus-warden/pkg/logger"
)

// fileConfig is the on-disk layout.
type fileConfig struct {
	FocusPolicy             string `toml:"focus_policy"`
	NextFocusPrefersMouse   bool   `toml:"next_focus_prefers_mouse"`
	SeparateScreenFocus     bool   `toml:"separate_screen_focus"`
	SynchronousFocus        bool   `toml:"synchronous_focus"`
	FocusStealingPrevention int    `toml:"focus_stealing_prevention"`
	FocusProtection         int    `toml:"focus_protection"`
	Backend                 string `toml:"backend"`
	SocketPath              string `toml:"socket_path"`
	JournalDSN              string `toml:"journal_dsn"`
	DBusExport              bool   `toml:"dbus_export"`
	NotifyCommand           string `toml:"notify_command"`
	AttentionNotify         bool   `toml:"attention_notify"`
	AttentionBell           bool   `toml:"attention_bell"`
	Rules                   []Rule `toml:"rule,omitempty"`
}

func (c *Config) toFile() fileConfig {
	return fileConfig{
		FocusPolicy:             c.focusPolicy,
		NextFocusPrefersMouse:   c.nextFocusPrefersMouse,
		SeparateScreenFocus:     c.separateScreenFocus,
		SynchronousFocus:        c.synchronousFocus,
		FocusStealingPrevention: c.focusStealingPrevention,
		FocusProtection:         c.focusProtection,
		Backend:                 c.backend,
		SocketPath:              c.socketPath,
		JournalDSN:              c.journalDSN,
		DBusExport:              c.dbusExport,
		NotifyCommand:           c.notifyCommand,
		AttentionNotify:         c.attentionNotify,
		AttentionBell:           c.attentionBell,
		Rules:                   c.rules,
	}
}

func (c *Config) fromFile(f fileConfig) {
	c.focusPolicy = f.FocusPolicy
	c.nextFocusPrefersMouse = f.NextFocusPrefersMouse
	c.separateScreenFocus = f.SeparateScreenFocus
	c.synchronousFocus = f.SynchronousFocus
	c.focusStealingPrevention = f.FocusStealingPrevention
	c.focusProtection = f.FocusProtection
	c.backend = f.Backend
	c.socketPath = f.SocketPath
	c.journalDSN = f.JournalDSN
	c.dbusExport = f.DBusExport
	c.notifyCommand = f.NotifyCommand
	c.attentionNotify = f.AttentionNotify
	c.attentionBell = f.AttentionBell
	c.rules = f.Rules
}

// LoadFromFile loads the configuration from a TOML file. Keys missing from
// the file keep their current values.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	temp := c.toFile()
	md, err := toml.Decode(string(data), &temp)
	if err != nil {
		log.Error("Failed to parse config TOML", err, "path", path)
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warn("Ignoring unknown config keys", "keys", keys)
	}
	log.Debug("Config TOML parsed successfully", "rule_count", len(temp.Rules))

	c.fromFile(temp)
	c.path = path
	return c.Validate()
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.toFile()); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// loadConfigFromPath loads the configuration from a file on top of the
// defaults.
func loadConfigFromPath(path string, log *logger.Logger) (*Config, error) {
	config, err := DefaultConfig(log)
	if err != nil {
		return nil, err
	}
	if err := config.LoadFromFile(path, log); err != nil {
		return nil, err
	}
	return config, nil
}
