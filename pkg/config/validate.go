package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validFocusPolicies = []string{"click", "follows_mouse", "under_mouse", "strictly_under_mouse"}
	validBackends      = []string{"auto", "x11", "hyprland", "none"}
)

// Validate checks levels, names and rules.
func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.focusPolicy, validFocusPolicies) {
		errs = append(errs, fmt.Errorf("focus_policy %q is not one of %s", c.focusPolicy, strings.Join(validFocusPolicies, ", ")))
	}
	if !validLevel(c.focusStealingPrevention) {
		errs = append(errs, fmt.Errorf("focus_stealing_prevention %d is outside 0-4", c.focusStealingPrevention))
	}
	if !validLevel(c.focusProtection) {
		errs = append(errs, fmt.Errorf("focus_protection %d is outside 0-4", c.focusProtection))
	}
	if !oneOf(c.backend, validBackends) {
		errs = append(errs, fmt.Errorf("backend %q is not one of %s", c.backend, strings.Join(validBackends, ", ")))
	}
	if c.socketPath == "" {
		errs = append(errs, errors.New("socket_path must not be empty"))
	}

	seen := make(map[string]bool, len(c.rules))
	for i, r := range c.rules {
		if r.Class == "" {
			errs = append(errs, fmt.Errorf("rule %d has no class", i))
			continue
		}
		if seen[r.Class] {
			errs = append(errs, fmt.Errorf("rule %d repeats class %q", i, r.Class))
		}
		seen[r.Class] = true
		if r.FocusStealing != nil && !validLevel(*r.FocusStealing) {
			errs = append(errs, fmt.Errorf("rule %q: focus_stealing %d is outside 0-4", r.Class, *r.FocusStealing))
		}
		if r.FocusProtection != nil && !validLevel(*r.FocusProtection) {
			errs = append(errs, fmt.Errorf("rule %q: focus_protection %d is outside 0-4", r.Class, *r.FocusProtection))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validLevel(l int) bool { return l >= 0 && l <= 4 }

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
