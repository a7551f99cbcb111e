package activation

import (
	"fmt"
	"strings"

	"focus-warden/internal/policy"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
)

// Source says who asked for an activation.
type Source int

const (
	SourceUnknown Source = iota
	SourceApplication
	// SourceTool is a pager or taskbar acting for the user.
	SourceTool
)

func (s Source) String() string {
	switch s {
	case SourceApplication:
		return "application"
	case SourceTool:
		return "tool"
	}
	return "unknown"
}

func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return SourceUnknown, nil
	case "application", "app":
		return SourceApplication, nil
	case "tool", "pager":
		return SourceTool, nil
	}
	return SourceUnknown, fmt.Errorf("unknown activation source %q", s)
}

// FocusIn handles a focus-in reported by the backend for h.
func (c *Coordinator) FocusIn(h wm.Handle) {
	w := c.reg.Get(h)
	if w == nil {
		return
	}
	// Unmapped or moved away in the meantime.
	if !w.Shown() || !w.IsOnDesktop(c.desktops.Current()) {
		return
	}
	allow := c.decide("focus_in", w, usertime.Unknown, true, false)
	c.ConfirmPending(h)
	if allow {
		c.SetActive(h)
		return
	}
	c.RestoreFocus()
	c.SetDemandsAttention(h, true)
}

// RequestActivation handles an explicit activation request for h, made at
// t on behalf of requestor.
func (c *Coordinator) RequestActivation(h wm.Handle, src Source, t usertime.Timestamp, requestor wm.Handle) {
	w := c.reg.Get(h)
	if w == nil {
		return
	}
	if t == usertime.CurrentTime {
		t = w.EffectiveUserTime()
	}
	if src != SourceApplication {
		src = SourceTool
	}

	if src == SourceTool {
		c.log.Debug("Activation requested by a tool", "window", w.String())
		c.Activate(h, true)
		return
	}
	if h == c.MostRecentlyActivated() {
		return
	}

	if c.decide("request", w, t, false, true) {
		c.Activate(h, false)
		return
	}
	// An application may pass focus on when it would have been allowed to
	// take it itself.
	if r := c.reg.Get(requestor); r != nil && r != w {
		rt := t
		if ut := r.EffectiveUserTime(); usertime.Compare(ut, t) > 0 {
			rt = ut
		}
		if c.decide("request_by", r, rt, false, true) {
			c.Activate(h, false)
			return
		}
	}
	c.SetDemandsAttention(h, true)
}

// WindowMapped is called once a newly managed window has been added to the
// registry. It reports whether the window was allowed to activate.
func (c *Coordinator) WindowMapped(h wm.Handle) bool {
	w := c.reg.Get(h)
	if w == nil {
		return false
	}
	if !w.Kind.IsSpecial() {
		c.updateChain(w, false)
	}

	allow := c.decide("map", w, usertime.Unknown, false, false)

	if !w.IsOnDesktop(c.desktops.Current()) && (allow || c.session == policy.SessionSaving) {
		c.suppress(func() { c.desktops.SetCurrent(w.Desktop) })
	}
	if allow {
		c.stacking.Raise(w)
	}

	if w.Shown() {
		if allow && w.IsOnDesktop(c.desktops.Current()) {
			if !w.Kind.IsSpecial() && c.opts.FocusPolicy.Reasonable() && w.Policy.WantsInput {
				c.RequestFocus(h, false, false)
			}
		} else if !w.Kind.IsSpecial() {
			c.SetDemandsAttention(h, true)
		}
	}
	return allow
}

// WindowHidden is called after h was minimized, hidden or moved off the
// current desktop.
func (c *Coordinator) WindowHidden(h wm.Handle) bool {
	return c.ActivateNext(h)
}

// WindowRemoved hands focus on if needed, forgets every reference to h and
// drops it from the registry.
func (c *Coordinator) WindowRemoved(h wm.Handle) {
	if c.reg.Get(h) == nil {
		return
	}
	if h == c.popup || h == c.popupOwner {
		c.closePopup()
	}
	c.ActivateNext(h)

	if h == c.lastActive {
		c.lastActive = wm.NoWindow
	}
	c.pending.Remove(h)
	c.attention.Remove(h)
	c.chain.Remove(h)
	c.reg.Remove(h)
}

// SetDemandsAttention sets or clears the demands-attention flag of h. The
// active window never demands attention.
func (c *Coordinator) SetDemandsAttention(h wm.Handle, demand bool) {
	if w := c.reg.Get(h); w != nil {
		c.setDemandsAttention(w, demand)
	}
}

func (c *Coordinator) setDemandsAttention(w *wm.Window, demand bool) {
	if w.Active() {
		demand = false
	}
	var changed bool
	if demand {
		changed = w.MarkDemandsAttention()
	} else {
		changed = w.ClearDemandsAttention()
	}
	if changed {
		c.log.Debug("Attention changed", "window", w.String(), "demands", demand)
		c.AttentionChanged(w.Handle(), demand)
	}
}

// ActivateAttentionWindow activates the window that most recently started
// demanding attention.
func (c *Coordinator) ActivateAttentionWindow() bool {
	h := c.attention.Front()
	if !h.Valid() {
		return false
	}
	c.Activate(h, false)
	return true
}

// SetCurrentScreen moves focus to screen.
func (c *Coordinator) SetCurrentScreen(screen int) {
	if screen < 0 || screen >= c.screens.Count() {
		return
	}
	if !c.opts.FocusPolicy.Reasonable() {
		return
	}
	c.closePopup()
	desktop := c.desktops.Current()
	next := c.chain.BestForActivation(desktop, screen, func(h wm.Handle) bool {
		return c.usable(h, nil)
	}, c.screenOf)
	if !next.Valid() {
		next = c.reg.FindDesktop(desktop)
	}
	if next.Valid() && next != c.MostRecentlyActivated() {
		c.RequestFocus(next, false, false)
	}
	c.screens.SetCurrent(screen)
}

// CurrentDesktopChanged focuses a window on the desktop that just became
// current. Switches made by Activate are ignored.
func (c *Coordinator) CurrentDesktopChanged(desktop int) {
	c.syncChain()
	if c.suppressed > 0 {
		return
	}
	c.closePopup()

	next := wm.NoWindow
	if c.opts.FocusPolicy.Reasonable() {
		next = c.findToActivateOnDesktop(desktop)
	} else if a := c.reg.Get(c.active); a != nil && a.Shown() && a.IsOnDesktop(desktop) {
		// Keep focus on a sticky window under the mouse.
		next = c.active
	}
	if !next.Valid() {
		next = c.reg.FindDesktop(desktop)
	}

	if next != c.active {
		c.SetActive(wm.NoWindow)
	}
	if next.Valid() {
		c.RequestFocus(next, false, false)
	} else {
		c.input.ClearInputFocus()
	}
}

func (c *Coordinator) findToActivateOnDesktop(desktop int) wm.Handle {
	if c.opts.NextFocusPrefersMouse {
		m := c.pointer.WindowUnderPointer(c.screens.Current())
		if mw := c.reg.Get(m); mw != nil && mw.Shown() && mw.IsOnDesktop(desktop) &&
			mw.IsOnActivity(c.activities.Current()) {
			// Never pass focus below the desktop window.
			if mw.Kind.IsDesktop() {
				return wm.NoWindow
			}
			return m
		}
	}
	screen := -1
	if c.opts.SeparateScreenFocus {
		screen = c.screens.Current()
	}
	return c.chain.BestForActivation(desktop, screen, func(h wm.Handle) bool {
		w := c.reg.Get(h)
		return w != nil && w.Shown() && w.IsOnDesktop(desktop) && w.IsOnActivity(c.activities.Current())
	}, c.screenOf)
}

func (c *Coordinator) screenOf(h wm.Handle) int {
	if w := c.reg.Get(h); w != nil {
		return w.Screen
	}
	return -1
}

// SetShowingDesktop enters or leaves show-desktop mode.
func (c *Coordinator) SetShowingDesktop(showing bool) {
	changed := showing != c.showingDesktop
	c.showingDesktop = showing

	desktop := c.desktops.Current()
	for _, h := range c.reg.Handles() {
		w := c.reg.Get(h)
		if !w.IsOnDesktop(desktop) {
			continue
		}
		if w.Kind.IsDockOrSplash() || (w.Kind.IsDesktop() && w.Shown()) {
			c.stacking.UpdateLayer(w)
		}
	}
	c.markStackingDirty()
	c.flush()

	top := c.reg.FindDesktop(desktop)

	if showing && top.Valid() {
		c.RequestFocus(top, false, false)
	} else if !showing && changed {
		screen := -1
		if c.opts.SeparateScreenFocus {
			screen = c.screens.Current()
		}
		next := c.chain.BestForActivation(desktop, screen, func(h wm.Handle) bool {
			return c.usable(h, nil)
		}, c.screenOf)
		if next.Valid() {
			c.Activate(next, false)
		}
	}
	if changed {
		c.log.Info("Show desktop mode changed", "showing", showing)
	}
}

func (c *Coordinator) ShowingDesktop() bool { return c.showingDesktop }

// UpdateUserTime records user interaction with h at t. CurrentTime stands
// for now.
func (c *Coordinator) UpdateUserTime(h wm.Handle, t usertime.Timestamp) {
	if w := c.reg.Get(h); w != nil {
		w.UpdateUserTime(t, c.clock)
	}
}

// StartupNotified merges a startup notification timestamp into the group
// of h.
func (c *Coordinator) StartupNotified(h wm.Handle, t usertime.Timestamp) bool {
	w := c.reg.Get(h)
	if w == nil {
		return false
	}
	return w.Group.MergeStartupNotification(t)
}

// RaiseRequest handles a window asking to be raised at t. Tools always
// get the raise. A refused application only gets raised above its own
// windows and demands attention instead. It reports whether the window was
// raised to the top.
func (c *Coordinator) RaiseRequest(h wm.Handle, src Source, t usertime.Timestamp) bool {
	w := c.reg.Get(h)
	if w == nil {
		return false
	}
	if src != SourceApplication {
		c.log.Debug("Raise requested by a tool", "window", w.String())
		c.stacking.Raise(w)
		return true
	}
	v := c.eval.DecideRaise(w, t)
	c.auditor.Decided("raise", w, v)
	if v.Allowed {
		c.stacking.Raise(w)
		return true
	}
	c.stacking.RaiseWithinApplication(w, func(other *wm.Window) bool {
		return c.matcher.SameApplication(w, other, false)
	})
	c.setDemandsAttention(w, true)
	return false
}

// Click handles a user click into h: the click is a user interaction and
// focuses and raises the window.
func (c *Coordinator) Click(h wm.Handle) {
	if c.reg.Get(h) == nil {
		return
	}
	c.UpdateUserTime(h, usertime.CurrentTime)
	c.RequestFocus(h, true, false)
}

// SetActivePopup records an open popup menu owned by owner. It is closed
// when another window becomes active.
func (c *Coordinator) SetActivePopup(popup, owner wm.Handle) {
	c.popup, c.popupOwner = popup, owner
}

func (c *Coordinator) ActivePopup() wm.Handle { return c.popup }

// Snapshot is a read-only view of the activation state.
type Snapshot struct {
	Active         string   `json:"active" yaml:"active"`
	LastActive     string   `json:"last_active" yaml:"last_active"`
	Pending        []string `json:"pending" yaml:"pending"`
	Attention      []string `json:"attention" yaml:"attention"`
	Chain          []string `json:"chain" yaml:"chain"`
	Desktop        int      `json:"desktop" yaml:"desktop"`
	Screen         int      `json:"screen" yaml:"screen"`
	ShowingDesktop bool     `json:"showing_desktop" yaml:"showing_desktop"`
	Session        string   `json:"session" yaml:"session"`
	Policy         string   `json:"focus_policy" yaml:"focus_policy"`
}

func (c *Coordinator) Snapshot() Snapshot {
	desktop := c.desktops.Current()
	return Snapshot{
		Active:         c.idOf(c.active),
		LastActive:     c.idOf(c.lastActive),
		Pending:        c.ids(c.pending.List()),
		Attention:      c.ids(c.attention.List()),
		Chain:          c.ids(c.chain.List(desktop)),
		Desktop:        desktop,
		Screen:         c.screens.Current(),
		ShowingDesktop: c.showingDesktop,
		Session:        c.session.String(),
		Policy:         c.opts.FocusPolicy.String(),
	}
}

func (c *Coordinator) idOf(h wm.Handle) string {
	if w := c.reg.Get(h); w != nil {
		return w.ID
	}
	return ""
}

func (c *Coordinator) ids(hs []wm.Handle) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		if id := c.idOf(h); id != "" {
			out = append(out, id)
		}
	}
	return out
}
