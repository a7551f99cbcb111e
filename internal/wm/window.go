package wm

import (
	"fmt"
	"strings"

	"focus-warden/internal/usertime"
)

// Level is a focus stealing prevention or focus protection level.
type Level int

const (
	LevelNone Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelExtreme
)

var levelNames = [...]string{"none", "low", "medium", "high", "extreme"}

func (l Level) String() string {
	if l < LevelNone || l > LevelExtreme {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelExtreme
}

// Kind is the window type as far as activation cares.
type Kind int

const (
	KindNormal Kind = iota
	KindDialog
	KindUtility
	KindMenu
	KindDesktop
	KindDock
	KindSplash
)

var kindNames = map[Kind]string{
	KindNormal:  "normal",
	KindDialog:  "dialog",
	KindUtility: "utility",
	KindMenu:    "menu",
	KindDesktop: "desktop",
	KindDock:    "dock",
	KindSplash:  "splash",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a window type name to a Kind. The empty string is normal.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindNormal, nil
	}
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNormal, fmt.Errorf("unknown window kind %q", s)
}

func (k Kind) IsDesktop() bool { return k == KindDesktop }

func (k Kind) IsDockOrSplash() bool { return k == KindDock || k == KindSplash }

// IsSpecial is true for types that never enter the focus chain.
func (k Kind) IsSpecial() bool {
	return k == KindDesktop || k == KindDock || k == KindSplash
}

// Policy holds the verdicts of the rule engine for one window.
type Policy struct {
	FocusStealing   Level
	FocusProtection Level
	// AcceptFocusIfZeroTime lets a window activate even when it was mapped
	// with a zero user time.
	AcceptFocusIfZeroTime bool
	WantsInput            bool
	// StealingWorkaround marks legacy clients that misreport user time
	// ownership; activating them must not refresh their user time.
	StealingWorkaround bool
}

// Window is the activation-relevant state of one managed window. The
// registry owns it; everything else holds Handles.
type Window struct {
	ID     string
	Class  string
	Title  string
	PID    int32
	Leader string
	Kind   Kind

	Desktop       int
	OnAllDesktops bool
	Screen        int
	// Activities lists the activities the window is on; empty means all.
	Activities []string

	Minimized     bool
	Hidden        bool
	Shaded        bool
	InActiveLayer bool

	ModalFor     Handle
	TransientFor []Handle

	UserTime usertime.Timestamp
	Group    *usertime.Group
	Policy   Policy

	handle           Handle
	active           bool
	demandsAttention bool
}

// Handle returns the registry handle of the window, or the zero handle when
// it is not registered.
func (w *Window) Handle() Handle { return w.handle }

func (w *Window) Active() bool { return w.active }

// SetActive flips the active flag and reports whether it changed. Only the
// activation coordinator calls it.
func (w *Window) SetActive(active bool) bool {
	if w.active == active {
		return false
	}
	w.active = active
	return true
}

func (w *Window) DemandsAttention() bool { return w.demandsAttention }

// ClearDemandsAttention reports whether the flag was set.
func (w *Window) ClearDemandsAttention() bool {
	was := w.demandsAttention
	w.demandsAttention = false
	return was
}

// MarkDemandsAttention sets the flag and reports whether it changed.
func (w *Window) MarkDemandsAttention() bool {
	if w.demandsAttention {
		return false
	}
	w.demandsAttention = true
	return true
}

// Shown is true when the window is mapped and visible on its desktop.
func (w *Window) Shown() bool {
	return !w.Minimized && !w.Hidden
}

func (w *Window) IsOnDesktop(desktop int) bool {
	return w.OnAllDesktops || w.Desktop == desktop
}

func (w *Window) IsOnActivity(activity string) bool {
	if len(w.Activities) == 0 || activity == "" {
		return true
	}
	for _, a := range w.Activities {
		if a == activity {
			return true
		}
	}
	return false
}

func (w *Window) IsTransient() bool {
	return len(w.TransientFor) > 0 || w.ModalFor.Valid()
}

// EffectiveUserTime combines the window's own user time with its group's.
// A window mapped with a zero time keeps it; otherwise the newer of the two
// wins.
func (w *Window) EffectiveUserTime() usertime.Timestamp {
	t := w.UserTime
	if t == usertime.CurrentTime {
		return usertime.CurrentTime
	}
	gt := w.Group.Time()
	if t == usertime.Unknown || (gt != usertime.Unknown && usertime.Compare(gt, t) > 0) {
		t = gt
	}
	return t
}

// UpdateUserTime records a user interaction at t, resolving CurrentTime
// from clock, and propagates the result to the group.
func (w *Window) UpdateUserTime(t usertime.Timestamp, clock usertime.Clock) {
	if t == usertime.CurrentTime {
		clock.Refresh()
		t = clock.Now()
	}
	if t != usertime.Unknown &&
		(w.UserTime == usertime.CurrentTime || w.UserTime == usertime.Unknown ||
			usertime.Compare(t, w.UserTime) > 0) {
		w.UserTime = t
	}
	if w.UserTime != usertime.Unknown && w.UserTime != usertime.CurrentTime {
		w.Group.Merge(w.UserTime, clock)
	}
}

func (w *Window) String() string {
	if w == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", w.ID, w.Class)
}
