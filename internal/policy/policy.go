// Package policy decides whether a window may take activation or raise
// itself above the active window. Decisions never mutate state.
package policy

import (
	"fmt"
	"strings"

	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

// SessionState is the state of the session manager.
type SessionState int

const (
	SessionNormal SessionState = iota
	SessionSaving
	SessionQuitting
)

func (s SessionState) String() string {
	switch s {
	case SessionSaving:
		return "saving"
	case SessionQuitting:
		return "quitting"
	}
	return "normal"
}

func ParseSessionState(s string) (SessionState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return SessionNormal, nil
	case "saving":
		return SessionSaving, nil
	case "quitting":
		return SessionQuitting, nil
	}
	return SessionNormal, fmt.Errorf("unknown session state %q", s)
}

// State is the read-only view of the activation state the evaluator needs.
type State interface {
	Window(h wm.Handle) *wm.Window
	SessionState() SessionState
	// MostRecentlyActivated is the newest pending activation, or the active
	// window when nothing is pending.
	MostRecentlyActivated() wm.Handle
	LastActive() wm.Handle
	IsPending(h wm.Handle) bool
	CurrentDesktop() int
	SameApplication(a, b *wm.Window, relaxed bool) bool
}

// Rule names the check that settled a decision.
type Rule string

const (
	RuleSessionSaving   Rule = "session-saving"
	RuleOwnFocusIn      Rule = "own-focus-in"
	RuleZeroTime        Rule = "zero-time"
	RuleNoPrevention    Rule = "no-prevention"
	RuleExtreme         Rule = "extreme"
	RuleOtherDesktop    Rule = "other-desktop"
	RuleNoActive        Rule = "no-active-window"
	RuleSameApplication Rule = "same-application"
	RuleHighLevel       Rule = "high-level"
	RuleNoTimestamp     Rule = "no-timestamp"
	RuleTimestamp       Rule = "timestamp"
)

// Verdict is a decision with the rule that produced it.
type Verdict struct {
	Allowed bool
	Rule    Rule
	// Time is the requested time after substituting the window's own.
	Time usertime.Timestamp
	// Against is the window the request was weighed against, if any.
	Against wm.Handle
}

func allow(r Rule) Verdict { return Verdict{Allowed: true, Rule: r} }
func deny(r Rule) Verdict  { return Verdict{Allowed: false, Rule: r} }

// Evaluator applies focus stealing prevention.
type Evaluator struct {
	state State
	log   core.Logger
}

func NewEvaluator(state State, log core.Logger) *Evaluator {
	return &Evaluator{state: state, log: log}
}

// MayActivate reports whether w may become active for a request made at t.
// focusIn is set when the request is a focus-in the window already
// received; ignoreDesktop when it comes from an explicit activation request
// that may switch desktops.
func (e *Evaluator) MayActivate(w *wm.Window, t usertime.Timestamp, focusIn, ignoreDesktop bool) bool {
	return e.DecideActivation(w, t, focusIn, ignoreDesktop).Allowed
}

// DecideActivation is MayActivate with the reasoning attached.
func (e *Evaluator) DecideActivation(w *wm.Window, t usertime.Timestamp, focusIn, ignoreDesktop bool) Verdict {
	v := e.decideActivation(w, t, focusIn, ignoreDesktop)
	e.log.Debug("Activation decision",
		"window", w.String(),
		"time", v.Time.String(),
		"allowed", v.Allowed,
		"rule", string(v.Rule))
	return v
}

func (e *Evaluator) decideActivation(w *wm.Window, t usertime.Timestamp, focusIn, ignoreDesktop bool) Verdict {
	if t == usertime.Unknown {
		t = w.EffectiveUserTime()
	}
	stamp := func(v Verdict, against wm.Handle) Verdict {
		v.Time = t
		v.Against = against
		return v
	}

	level := w.Policy.FocusStealing
	if e.state.SessionState() == SessionSaving && level <= wm.LevelMedium {
		return stamp(allow(RuleSessionSaving), wm.NoWindow)
	}

	acHandle := e.state.MostRecentlyActivated()
	if focusIn {
		if e.state.IsPending(w.Handle()) {
			return stamp(allow(RuleOwnFocusIn), wm.NoWindow)
		}
		// The active window lost focus before this focus-in arrived.
		acHandle = e.state.LastActive()
	}
	ac := e.state.Window(acHandle)
	if ac == nil {
		acHandle = wm.NoWindow
	}

	if t == usertime.CurrentTime && !w.Policy.AcceptFocusIfZeroTime {
		return stamp(deny(RuleZeroTime), acHandle)
	}

	protection := wm.LevelNone
	if ac != nil {
		protection = ac.Policy.FocusProtection
	}

	if level == wm.LevelNone || protection == wm.LevelNone {
		return stamp(allow(RuleNoPrevention), acHandle)
	}
	if level == wm.LevelExtreme || protection == wm.LevelExtreme {
		return stamp(deny(RuleExtreme), acHandle)
	}

	onCurrent := w.IsOnDesktop(e.state.CurrentDesktop())
	if !ignoreDesktop && !onCurrent {
		return stamp(deny(RuleOtherDesktop), acHandle)
	}

	if ac == nil || ac.Kind.IsDesktop() {
		return stamp(allow(RuleNoActive), acHandle)
	}

	if e.state.SameApplication(w, ac, true) && protection < wm.LevelHigh {
		return stamp(allow(RuleSameApplication), acHandle)
	}

	// Crossing desktops is only trusted within one application.
	if !onCurrent {
		return stamp(deny(RuleOtherDesktop), acHandle)
	}

	if level > wm.LevelMedium && protection > wm.LevelLow {
		return stamp(deny(RuleHighLevel), acHandle)
	}

	if t == usertime.Unknown {
		if level < wm.LevelMedium && protection < wm.LevelHigh {
			return stamp(allow(RuleNoTimestamp), acHandle)
		}
		return stamp(deny(RuleNoTimestamp), acHandle)
	}

	v := deny(RuleTimestamp)
	v.Allowed = usertime.Compare(t, ac.EffectiveUserTime()) >= 0
	return stamp(v, acHandle)
}

// MayRaise reports whether w may raise itself above the active window for a
// request made at t.
func (e *Evaluator) MayRaise(w *wm.Window, t usertime.Timestamp) bool {
	return e.DecideRaise(w, t).Allowed
}

// DecideRaise is MayRaise with the reasoning attached.
func (e *Evaluator) DecideRaise(w *wm.Window, t usertime.Timestamp) Verdict {
	v := e.decideRaise(w, t)
	e.log.Debug("Raise decision",
		"window", w.String(),
		"time", v.Time.String(),
		"allowed", v.Allowed,
		"rule", string(v.Rule))
	return v
}

func (e *Evaluator) decideRaise(w *wm.Window, t usertime.Timestamp) Verdict {
	stamp := func(v Verdict, against wm.Handle) Verdict {
		v.Time = t
		v.Against = against
		return v
	}

	level := w.Policy.FocusStealing
	if e.state.SessionState() == SessionSaving && level <= wm.LevelMedium {
		return stamp(allow(RuleSessionSaving), wm.NoWindow)
	}
	acHandle := e.state.MostRecentlyActivated()
	ac := e.state.Window(acHandle)
	if ac == nil {
		acHandle = wm.NoWindow
	}

	if level == wm.LevelNone {
		return stamp(allow(RuleNoPrevention), acHandle)
	}
	if level == wm.LevelExtreme {
		return stamp(deny(RuleExtreme), acHandle)
	}
	if ac == nil || ac.Kind.IsDesktop() {
		return stamp(allow(RuleNoActive), acHandle)
	}
	if e.state.SameApplication(w, ac, true) {
		return stamp(allow(RuleSameApplication), acHandle)
	}
	if level == wm.LevelHigh {
		return stamp(deny(RuleHighLevel), acHandle)
	}

	v := deny(RuleTimestamp)
	v.Allowed = usertime.Compare(t, ac.EffectiveUserTime()) >= 0
	return stamp(v, acHandle)
}
