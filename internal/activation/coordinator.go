// Package activation owns the active window. The Coordinator decides which
// window becomes active, asks the backend to move input focus and keeps the
// focus chain, the pending activation queue and the attention set in sync.
//
// A Coordinator is not safe for concurrent use. All calls must come from
// one goroutine.
package activation

import (
	"focus-warden/internal/focuschain"
	"focus-warden/internal/policy"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

type Coordinator struct {
	log   core.Logger
	clock usertime.Clock
	opts  Options

	reg        *wm.Registry
	matcher    wm.AppMatcher
	stacking   Stacking
	desktops   Desktops
	activities Activities
	screens    Screens
	input      InputFocus
	pointer    Pointer
	popups     Popups
	control    WindowControl
	observer   Observer
	auditor    Auditor

	eval      *policy.Evaluator
	chain     *focuschain.Chain
	pending   Queue
	attention AttentionSet

	active     wm.Handle
	lastActive wm.Handle
	session    policy.SessionState

	// depth counts nested SetActive calls. Work that must run once per
	// outermost call is queued in deferred.
	depth          int
	deferred       []func()
	stackingDirty  bool
	activeNotified bool

	// suppressed is raised around desktop and activity switches made on
	// behalf of an activation.
	suppressed int

	showingDesktop bool
	popup          wm.Handle
	popupOwner     wm.Handle

	onDeactivate func(h wm.Handle)
}

func New(deps Deps, clock usertime.Clock, opts Options, log core.Logger) *Coordinator {
	deps.fill()
	c := &Coordinator{
		log:        log,
		clock:      clock,
		opts:       opts,
		reg:        deps.Registry,
		matcher:    deps.Matcher,
		stacking:   deps.Stacking,
		desktops:   deps.Desktops,
		activities: deps.Activities,
		screens:    deps.Screens,
		input:      deps.Input,
		pointer:    deps.Pointer,
		popups:     deps.Popups,
		control:    deps.Control,
		observer:   deps.Observer,
		auditor:    deps.Auditor,
		chain:      focuschain.New(),
	}
	c.eval = policy.NewEvaluator(c, log)
	return c
}

func (c *Coordinator) Options() Options { return c.opts }

func (c *Coordinator) SetOptions(opts Options) {
	c.opts = opts
	c.log.Info("Activation options updated",
		"focus_policy", opts.FocusPolicy.String(),
		"next_focus_prefers_mouse", opts.NextFocusPrefersMouse,
		"separate_screen_focus", opts.SeparateScreenFocus,
		"synchronous_focus", opts.SynchronousFocus)
}

// OnDeactivate registers a hook run right after a window loses the active
// flag. The hook may activate another window.
func (c *Coordinator) OnDeactivate(fn func(h wm.Handle)) { c.onDeactivate = fn }

func (c *Coordinator) Registry() *wm.Registry    { return c.reg }
func (c *Coordinator) Chain() *focuschain.Chain { return c.chain }

// policy.State

func (c *Coordinator) Window(h wm.Handle) *wm.Window       { return c.reg.Get(h) }
func (c *Coordinator) SessionState() policy.SessionState { return c.session }
func (c *Coordinator) LastActive() wm.Handle               { return c.lastActive }
func (c *Coordinator) IsPending(h wm.Handle) bool          { return c.pending.Contains(h) }
func (c *Coordinator) CurrentDesktop() int                 { return c.desktops.Current() }

func (c *Coordinator) SameApplication(a, b *wm.Window, relaxed bool) bool {
	return c.matcher.SameApplication(a, b, relaxed)
}

// MostRecentlyActivated is the newest pending activation, or the active
// window when nothing is pending.
func (c *Coordinator) MostRecentlyActivated() wm.Handle {
	if c.pending.Len() > 0 {
		return c.pending.Back()
	}
	return c.active
}

func (c *Coordinator) Active() wm.Handle { return c.active }

func (c *Coordinator) SetSessionState(s policy.SessionState) {
	c.session = s
	c.log.Debug("Session state changed", "state", s.String())
}

// MayActivate reports whether the window behind h may become active for a
// request made at t. Stale handles are never allowed.
func (c *Coordinator) MayActivate(h wm.Handle, t usertime.Timestamp, focusIn, ignoreDesktop bool) bool {
	w := c.reg.Get(h)
	if w == nil {
		return false
	}
	return c.eval.MayActivate(w, t, focusIn, ignoreDesktop)
}

func (c *Coordinator) MayRaise(h wm.Handle, t usertime.Timestamp) bool {
	w := c.reg.Get(h)
	if w == nil {
		return false
	}
	return c.eval.MayRaise(w, t)
}

func (c *Coordinator) decide(action string, w *wm.Window, t usertime.Timestamp, focusIn, ignoreDesktop bool) bool {
	v := c.eval.DecideActivation(w, t, focusIn, ignoreDesktop)
	c.auditor.Decided(action, w, v)
	return v.Allowed
}

// SetActive makes the window behind h the active window, or clears the
// active window for wm.NoWindow. Only windows that have actually received
// focus are passed here.
func (c *Coordinator) SetActive(h wm.Handle) {
	w := c.reg.Get(h)
	if w == nil {
		h = wm.NoWindow
	}
	if h == c.active {
		return
	}

	if c.popup.Valid() && c.popupOwner != h && c.depth == 0 {
		c.closePopup()
	}

	c.depth++
	// Deactivation hooks may activate another window, so keep going until
	// no other window holds the flag.
	for prev := c.reg.Get(c.active); prev != nil && c.active != h; prev = c.reg.Get(c.active) {
		if !prev.SetActive(false) {
			break
		}
		c.log.Debug("Window deactivated", "window", prev.String())
		if c.onDeactivate != nil {
			c.onDeactivate(prev.Handle())
		}
	}

	c.active = h
	if w != nil {
		w.SetActive(true)
		c.lastActive = h
		c.updateChain(w, true)
		c.setDemandsAttention(w, false)

		// Another window on the active screen may hold the active layer
		// only while it is the active one.
		if c.screens.Count() > 1 {
			for _, oh := range c.reg.Handles() {
				o := c.reg.Get(oh)
				if oh != h && o.InActiveLayer && o.Screen == w.Screen {
					c.deferCall(func() { c.stacking.UpdateLayer(o) })
				}
			}
		}
	}
	c.markStackingDirty()
	c.markActiveChanged()
	c.depth--

	c.log.Info("Active window changed", "window", w.String())
	c.flush()
}

// Activate does what clicking a taskbar entry does: raise the window,
// switch to its desktop and activity, unminimize and unhide it, then
// request focus if the focus policy allows the window manager to move it.
// Activating wm.NoWindow clears focus.
func (c *Coordinator) Activate(h wm.Handle, force bool) {
	w := c.reg.Get(h)
	if w == nil {
		c.input.ClearInputFocus()
		c.SetActive(wm.NoWindow)
		return
	}
	c.stacking.Raise(w)
	if !w.IsOnDesktop(c.desktops.Current()) {
		c.suppress(func() { c.desktops.SetCurrent(w.Desktop) })
	}
	if !w.IsOnActivity(c.activities.Current()) {
		c.suppress(func() { c.activities.SetCurrent(w.Activities[0]) })
	}
	if w.Minimized {
		c.control.Unminimize(w)
	}
	c.control.Unhide(w)

	if c.opts.FocusPolicy.Reasonable() || force {
		c.RequestFocus(h, false, force)
	}

	// Clients with the stealing workaround misreport which window owns
	// their user time. Refreshing it would age the active window instead.
	if w = c.reg.Get(h); w != nil && !w.Policy.StealingWorkaround {
		w.UpdateUserTime(usertime.CurrentTime, c.clock)
	}
}

// RequestFocus asks the backend to focus the window behind h. It does not
// show, raise (unless raise is set) or switch desktops.
func (c *Coordinator) RequestFocus(h wm.Handle, raise, force bool) {
	w := c.reg.Get(h)
	if w == nil {
		c.input.ClearInputFocus()
		return
	}
	take := c.suppressed == 0 || h == c.active

	if take {
		if m := c.reg.FindModal(h); m != h {
			if modal := c.reg.Get(m); modal != nil {
				if !modal.IsOnDesktop(w.Desktop) {
					c.control.SetDesktop(modal, w.Desktop)
					c.updateChain(modal, false)
				}
				if !modal.Shown() && !modal.Minimized {
					c.Activate(m, false)
				}
				// The modal takes the focus, the parent still gets raised.
				if raise {
					c.stacking.Raise(w)
				}
				h, w = m, c.reg.Get(m)
				if w == nil {
					return
				}
			}
		}
		c.pending.Prune(c.alive)
	}

	if !force && w.Kind.IsDockOrSplash() && !w.Policy.WantsInput {
		take = false
	}
	if w.Shaded {
		if w.Policy.WantsInput && take {
			// Active without input focus, so the window menu still works.
			c.SetActive(h)
			c.input.ClearInputFocus()
		}
		take = false
	}
	if !w.Shown() {
		c.log.Warn("Focus requested for a window that is not shown", "window", w.String())
		return
	}

	if take {
		c.takeFocus(h, w)
	}
	if raise {
		c.stacking.Raise(w)
	}
	if w.Screen != c.screens.Current() {
		c.screens.SetCurrent(w.Screen)
	}
}

func (c *Coordinator) takeFocus(h wm.Handle, w *wm.Window) {
	c.log.Debug("Taking input focus", "window", w.String())
	c.input.TakeInputFocus(w)
	if c.opts.SynchronousFocus {
		c.SetActive(h)
		return
	}
	c.pending.Push(h)
	// Some windows change layer while they are about to become active.
	c.markStackingDirty()
	c.flush()
}

// ActivateNext deactivates the departing window and focuses a successor.
// It does nothing unless departing is the active window or the most recent
// pending activation. It reports whether it handled the departure.
func (c *Coordinator) ActivateNext(departing wm.Handle) bool {
	if !(departing == c.active || (c.pending.Len() > 0 && departing == c.pending.Back())) {
		return false
	}
	c.closePopup()

	if departing.Valid() {
		if departing == c.active {
			c.SetActive(wm.NoWindow)
		}
		c.pending.Remove(departing)
	}

	// Focus is resolved again once the suppressed change is done.
	if c.suppressed > 0 {
		c.input.ClearInputFocus()
		return true
	}
	if !c.opts.FocusPolicy.Reasonable() {
		return false
	}

	d := c.reg.Get(departing)
	desktop := c.desktops.Current()
	next := wm.NoWindow

	if c.showingDesktop {
		next = c.reg.FindDesktop(desktop)
	}

	if !next.Valid() && c.opts.NextFocusPrefersMouse {
		screen := c.screens.Current()
		if d != nil {
			screen = d.Screen
		}
		m := c.pointer.WindowUnderPointer(screen)
		if mw := c.reg.Get(m); mw != nil && m != departing && !mw.Kind.IsDesktop() && c.visible(mw) {
			next = m
		}
	}

	if !next.Valid() && d != nil && d.IsTransient() {
		if leaders := transientLeaders(d); len(leaders) == 1 && c.usable(leaders[0], d) {
			next = leaders[0]
			// We don't know where the leader came from.
			c.stacking.Raise(c.reg.Get(next))
		}
	}

	if !next.Valid() {
		next = c.chain.NextForDesktop(departing, desktop, func(h wm.Handle) bool {
			return c.usable(h, d)
		})
	}

	if !next.Valid() {
		next = c.reg.FindDesktop(desktop)
	}

	if next.Valid() {
		c.log.Debug("Activating next window", "window", c.reg.Get(next).String())
		c.RequestFocus(next, false, false)
	} else {
		c.log.Debug("No window to activate next, clearing focus")
		c.input.ClearInputFocus()
	}
	return true
}

// RestoreFocus puts focus back after a focus-in the engine neither caused
// nor allowed.
func (c *Coordinator) RestoreFocus() {
	// Focus-in events carry no timestamp, so the clock would be older than
	// whatever caused the change and the request would be refused.
	c.clock.Refresh()
	if c.pending.Len() > 0 {
		c.RequestFocus(c.pending.Back(), false, false)
	} else if c.reg.Get(c.lastActive) != nil {
		c.RequestFocus(c.lastActive, false, false)
	}
}

// AttentionChanged updates the attention set after the demands-attention
// flag of h changed.
func (c *Coordinator) AttentionChanged(h wm.Handle, set bool) {
	c.attention.Remove(h)
	if set {
		c.attention.PushFront(h)
	}
	// Observers hear about the change even if the window is gone by the
	// time the deferred call runs.
	w := c.reg.Get(h)
	if w == nil {
		return
	}
	c.deferCall(func() { c.observer.AttentionChanged(w, set) })
}

// ConfirmPending records that h received the focus it was asked to take.
func (c *Coordinator) ConfirmPending(h wm.Handle) bool {
	return c.pending.Confirm(h)
}

// usable reports whether h may receive focus in place of prev.
func (c *Coordinator) usable(h wm.Handle, prev *wm.Window) bool {
	w := c.reg.Get(h)
	if w == nil || w == prev || !c.visible(w) {
		return false
	}
	if c.opts.SeparateScreenFocus {
		screen := c.screens.Current()
		if prev != nil {
			screen = prev.Screen
		}
		return w.Screen == screen
	}
	return true
}

// visible reports whether w is shown on the current desktop and activity.
func (c *Coordinator) visible(w *wm.Window) bool {
	return w.Shown() && w.IsOnDesktop(c.desktops.Current()) && w.IsOnActivity(c.activities.Current())
}

func (c *Coordinator) alive(h wm.Handle) bool { return c.reg.Get(h) != nil }

// updateChain puts w into the focus chain of every desktop it is on. With
// first it becomes the most recent entry there.
func (c *Coordinator) updateChain(w *wm.Window, first bool) {
	c.syncChain()
	c.chain.Update(w.Handle(), w.Desktop, w.OnAllDesktops, c.desktops.Current(), first)
}

// syncChain gives desktops added since the last call their own chain.
func (c *Coordinator) syncChain() {
	if n := c.desktops.Count(); n > c.chain.Desktops() {
		c.chain.Resize(n, c.desktops.Current(), func(h wm.Handle) bool {
			w := c.reg.Get(h)
			return w != nil && w.OnAllDesktops
		})
	}
}

func transientLeaders(w *wm.Window) []wm.Handle {
	leaders := append([]wm.Handle(nil), w.TransientFor...)
	if w.ModalFor.Valid() {
		for _, l := range leaders {
			if l == w.ModalFor {
				return leaders
			}
		}
		leaders = append(leaders, w.ModalFor)
	}
	return leaders
}

func (c *Coordinator) suppress(fn func()) {
	c.suppressed++
	defer func() { c.suppressed-- }()
	fn()
}

// Suppressed reports whether focus changes are currently held back.
func (c *Coordinator) Suppressed() bool { return c.suppressed > 0 }

func (c *Coordinator) closePopup() {
	if !c.popup.Valid() {
		return
	}
	p := c.popup
	c.popup, c.popupOwner = wm.NoWindow, wm.NoWindow
	c.popups.Close(p)
}

func (c *Coordinator) deferCall(fn func()) {
	c.deferred = append(c.deferred, fn)
	c.flush()
}

func (c *Coordinator) markStackingDirty() { c.stackingDirty = true }

func (c *Coordinator) markActiveChanged() { c.activeNotified = true }

// flush runs queued work once the outermost SetActive has returned.
func (c *Coordinator) flush() {
	if c.depth > 0 {
		return
	}
	for len(c.deferred) > 0 {
		fn := c.deferred[0]
		c.deferred = c.deferred[1:]
		fn()
	}
	if c.stackingDirty {
		c.stackingDirty = false
		c.stacking.UpdateStackingOrder()
	}
	if c.activeNotified {
		c.activeNotified = false
		c.observer.ActiveWindowChanged(c.reg.Get(c.active))
	}
}
