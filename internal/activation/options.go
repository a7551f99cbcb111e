package activation

import (
	"fmt"
	"strings"
)

// FocusPolicy is the window manager's focus model.
type FocusPolicy int

const (
	ClickToFocus FocusPolicy = iota
	FocusFollowsMouse
	FocusUnderMouse
	FocusStrictlyUnderMouse
)

var focusPolicyNames = map[FocusPolicy]string{
	ClickToFocus:            "click",
	FocusFollowsMouse:       "follows_mouse",
	FocusUnderMouse:         "under_mouse",
	FocusStrictlyUnderMouse: "strictly_under_mouse",
}

func (p FocusPolicy) String() string {
	if s, ok := focusPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("focus_policy(%d)", int(p))
}

// Reasonable reports whether the policy lets the window manager move focus
// on its own. Under-mouse policies keep focus wherever the pointer is.
func (p FocusPolicy) Reasonable() bool {
	return p == ClickToFocus || p == FocusFollowsMouse
}

func ParseFocusPolicy(s string) (FocusPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ClickToFocus, nil
	}
	for p, name := range focusPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return ClickToFocus, fmt.Errorf("unknown focus policy %q", s)
}

type Options struct {
	FocusPolicy FocusPolicy
	// NextFocusPrefersMouse gives the window under the pointer priority when
	// the active window goes away.
	NextFocusPrefersMouse bool
	// SeparateScreenFocus keeps one focus history per screen.
	SeparateScreenFocus bool
	// SynchronousFocus treats TakeInputFocus as immediately confirmed, for
	// backends that never report focus-in events.
	SynchronousFocus bool
}

func DefaultOptions() Options {
	return Options{FocusPolicy: ClickToFocus}
}
