// Package workspace keeps the desktop, activity, screen and stacking state
// the activation coordinator consults, and forwards the effects to the
// window backend.
package workspace

import (
	"slices"

	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

// Desktops tracks the current virtual desktop. Desktops are numbered from 1.
type Desktops struct {
	count   int
	current int
	mgr     *wm.Manager
	log     core.Logger
}

func NewDesktops(count int, mgr *wm.Manager, log core.Logger) *Desktops {
	if count < 1 {
		count = 1
	}
	return &Desktops{count: count, current: 1, mgr: mgr, log: log}
}

func (d *Desktops) Current() int { return d.current }

func (d *Desktops) Count() int { return d.count }

// Ensure grows the desktop count to at least n.
func (d *Desktops) Ensure(n int) {
	if n > d.count {
		d.count = n
	}
}

// SetCurrent switches to desktop. Numbers past the last desktop grow the
// desktop count; numbers below 1 are ignored.
func (d *Desktops) SetCurrent(desktop int) {
	if desktop < 1 {
		d.log.Warn("Ignoring invalid desktop", "desktop", desktop)
		return
	}
	if desktop > d.count {
		d.count = desktop
	}
	if desktop == d.current {
		return
	}
	d.log.Debug("Switching desktop", "from", d.current, "to", desktop)
	d.current = desktop
	d.mgr.SwitchDesktop(desktop)
}

// Activities tracks the current activity. An empty current activity means
// activities are not in use.
type Activities struct {
	known   []string
	current string
}

func NewActivities(known []string) *Activities {
	a := &Activities{known: slices.Clone(known)}
	if len(a.known) > 0 {
		a.current = a.known[0]
	}
	return a
}

func (a *Activities) Current() string { return a.current }

func (a *Activities) SetCurrent(activity string) {
	if activity != "" && !slices.Contains(a.known, activity) {
		a.known = append(a.known, activity)
	}
	a.current = activity
}

func (a *Activities) List() []string { return slices.Clone(a.known) }

// Screens tracks the screen holding keyboard focus. Screens are numbered
// from 0.
type Screens struct {
	count   int
	current int
}

func NewScreens(count int) *Screens {
	if count < 1 {
		count = 1
	}
	return &Screens{count: count}
}

func (s *Screens) Current() int { return s.current }

func (s *Screens) Count() int { return s.count }

// Ensure grows the screen count to at least n.
func (s *Screens) Ensure(n int) {
	if n > s.count {
		s.count = n
	}
}

func (s *Screens) SetCurrent(screen int) {
	if screen < 0 {
		return
	}
	if screen >= s.count {
		s.count = screen + 1
	}
	s.current = screen
}
