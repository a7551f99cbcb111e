package config

import (
	"focus-warden/pkg/logger"
)

// Config holds the application configuration.
type Config struct {
	// Loaded from TOML (private fields to enforce immutability)
	focusPolicy             string
	nextFocusPrefersMouse   bool
	separateScreenFocus     bool
	synchronousFocus        bool
	focusStealingPrevention int
	focusProtection         int
	rules                   []Rule

	backend         string
	socketPath      string
	journalDSN      string
	dbusExport      bool
	notifyCommand   string
	attentionNotify bool
	attentionBell   bool

	// Internal fields
	path string
	log  *logger.Logger
}

// Rule overrides the focus policy for windows of one class.
type Rule struct {
	Class              string `toml:"class"`
	FocusStealing      *int   `toml:"focus_stealing,omitempty"`
	FocusProtection    *int   `toml:"focus_protection,omitempty"`
	AcceptFocus        *bool  `toml:"accept_focus,omitempty"`
	StealingWorkaround *bool  `toml:"stealing_workaround,omitempty"`
}

// New creates a new Config instance with the provided logger.
func New(log *logger.Logger) *Config {
	return &Config{
		log: log,
	}
}

// GetPath returns the file the configuration was loaded from.
func (c *Config) GetPath() string {
	return c.path
}

// GetFocusPolicy returns the focus policy name.
func (c *Config) GetFocusPolicy() string {
	return c.focusPolicy
}

func (c *Config) GetNextFocusPrefersMouse() bool {
	return c.nextFocusPrefersMouse
}

func (c *Config) GetSeparateScreenFocus() bool {
	return c.separateScreenFocus
}

func (c *Config) GetSynchronousFocus() bool {
	return c.synchronousFocus
}

// GetFocusStealingPrevention returns the default focus stealing prevention
// level, 0 (none) to 4 (extreme).
func (c *Config) GetFocusStealingPrevention() int {
	return c.focusStealingPrevention
}

// GetFocusProtection returns the default focus protection level.
func (c *Config) GetFocusProtection() int {
	return c.focusProtection
}

// GetRules returns a copy of the window rules.
func (c *Config) GetRules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// GetBackend returns the window manager backend name.
func (c *Config) GetBackend() string {
	return c.backend
}

func (c *Config) GetSocketPath() string {
	return c.socketPath
}

// GetJournalDSN returns the activation journal location. Empty disables
// the journal.
func (c *Config) GetJournalDSN() string {
	return c.journalDSN
}

func (c *Config) GetDBusExport() bool {
	return c.dbusExport
}

// GetNotifyCommand returns the notify command.
func (c *Config) GetNotifyCommand() string {
	return c.notifyCommand
}

func (c *Config) GetAttentionNotify() bool {
	return c.attentionNotify
}

func (c *Config) GetAttentionBell() bool {
	return c.attentionBell
}
