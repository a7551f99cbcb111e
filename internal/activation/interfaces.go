package activation

import (
	"focus-warden/internal/policy"
	"focus-warden/internal/wm"
)

// Stacking owns the stacking order.
type Stacking interface {
	Raise(w *wm.Window)
	// RaiseWithinApplication puts w right above the topmost window for
	// which sameApp holds. It never lowers w.
	RaiseWithinApplication(w *wm.Window, sameApp func(other *wm.Window) bool)
	// UpdateLayer recomputes the layer of w, which may depend on whether a
	// window on the same screen is active.
	UpdateLayer(w *wm.Window)
	UpdateStackingOrder()
}

// Desktops is the virtual desktop service. Desktops are numbered from 1.
type Desktops interface {
	Current() int
	SetCurrent(desktop int)
	Count() int
}

type Activities interface {
	// Current returns the current activity, or "" when activities are not
	// in use.
	Current() string
	SetCurrent(activity string)
}

type Screens interface {
	Current() int
	SetCurrent(screen int)
	Count() int
}

// InputFocus moves the real keyboard focus.
type InputFocus interface {
	TakeInputFocus(w *wm.Window)
	ClearInputFocus()
}

type Pointer interface {
	// WindowUnderPointer returns the topmost window under the pointer on
	// screen, or wm.NoWindow.
	WindowUnderPointer(screen int) wm.Handle
}

type Popups interface {
	Close(popup wm.Handle)
}

// WindowControl carries out window state changes requested by activation.
type WindowControl interface {
	Unminimize(w *wm.Window)
	Unhide(w *wm.Window)
	SetDesktop(w *wm.Window, desktop int)
}

// Observer is told about activation changes once the outermost coordinator
// call has finished. A nil window means no window is active.
type Observer interface {
	ActiveWindowChanged(w *wm.Window)
	AttentionChanged(w *wm.Window, demands bool)
}

// Auditor receives every policy decision the coordinator makes.
type Auditor interface {
	Decided(action string, w *wm.Window, v policy.Verdict)
}

// Deps bundles the collaborators of a Coordinator. Registry is required;
// the rest fall back to inert implementations when nil.
type Deps struct {
	Registry   *wm.Registry
	Matcher    wm.AppMatcher
	Stacking   Stacking
	Desktops   Desktops
	Activities Activities
	Screens    Screens
	Input      InputFocus
	Pointer    Pointer
	Popups     Popups
	Control    WindowControl
	Observer   Observer
	Auditor    Auditor
}

type inert struct{}

func (inert) Raise(*wm.Window) {}
func (inert) RaiseWithinApplication(*wm.Window, func(*wm.Window) bool) {}
func (inert) UpdateLayer(*wm.Window) {}
func (inert) UpdateStackingOrder() {}
func (inert) SetCurrent(int) {}
func (inert) Count() int { return 1 }
func (inert) TakeInputFocus(*wm.Window) {}
func (inert) ClearInputFocus() {}
func (inert) WindowUnderPointer(int) wm.Handle { return wm.NoWindow }
func (inert) Close(wm.Handle) {}
func (inert) ActiveWindowChanged(*wm.Window) {}
func (inert) AttentionChanged(*wm.Window, bool) {}
func (inert) Decided(string, *wm.Window, policy.Verdict) {}
func (inert) SameApplication(a, b *wm.Window, _ bool) bool { return a == b }

type singleDesktop struct{}

func (singleDesktop) Current() int { return 1 }
func (singleDesktop) SetCurrent(int) {}
func (singleDesktop) Count() int { return 1 }

type singleScreen struct{ inert }

func (singleScreen) Current() int { return 0 }

type noActivities struct{}

func (noActivities) Current() string { return "" }
func (noActivities) SetCurrent(string) {}

func (d *Deps) fill() {
	if d.Registry == nil {
		d.Registry = wm.NewRegistry()
	}
	if d.Matcher == nil {
		d.Matcher = inert{}
	}
	if d.Stacking == nil {
		d.Stacking = inert{}
	}
	if d.Desktops == nil {
		d.Desktops = singleDesktop{}
	}
	if d.Activities == nil {
		d.Activities = noActivities{}
	}
	if d.Screens == nil {
		d.Screens = singleScreen{}
	}
	if d.Input == nil {
		d.Input = inert{}
	}
	if d.Pointer == nil {
		d.Pointer = inert{}
	}
	if d.Popups == nil {
		d.Popups = inert{}
	}
	if d.Control == nil {
		d.Control = d.Registry
	}
	if d.Observer == nil {
		d.Observer = inert{}
	}
	if d.Auditor == nil {
		d.Auditor = inert{}
	}
}
