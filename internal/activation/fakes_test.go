package activation

import (
	"testing"

	"focus-warden/internal/policy"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
	"focus-warden/pkg/logger"
)

type fakeStacking struct {
	raised    []string
	appRaised []string
	layered   []string
	updates   int

	// appPeers lists, per raise within the application, the windows the
	// predicate accepted among those given in peers.
	peers    []*wm.Window
	appPeers [][]string
}

func (f *fakeStacking) Raise(w *wm.Window) { f.raised = append(f.raised, w.ID) }

func (f *fakeStacking) RaiseWithinApplication(w *wm.Window, sameApp func(*wm.Window) bool) {
	f.appRaised = append(f.appRaised, w.ID)
	var ids []string
	for _, p := range f.peers {
		if sameApp(p) {
			ids = append(ids, p.ID)
		}
	}
	f.appPeers = append(f.appPeers, ids)
}

func (f *fakeStacking) UpdateLayer(w *wm.Window) { f.layered = append(f.layered, w.ID) }
func (f *fakeStacking) UpdateStackingOrder()     { f.updates++ }

type fakeDesktops struct {
	current  int
	count    int
	switches []int
	onSwitch func(desktop int)
}

func (f *fakeDesktops) Current() int { return f.current }

func (f *fakeDesktops) Count() int {
	if f.current > f.count {
		return f.current
	}
	return f.count
}

func (f *fakeDesktops) SetCurrent(desktop int) {
	f.current = desktop
	f.switches = append(f.switches, desktop)
	if f.onSwitch != nil {
		f.onSwitch(desktop)
	}
}

type fakeActivities struct{ current string }

func (f *fakeActivities) Current() string     { return f.current }
func (f *fakeActivities) SetCurrent(a string) { f.current = a }

type fakeScreens struct {
	current int
	count   int
}

func (f *fakeScreens) Current() int     { return f.current }
func (f *fakeScreens) SetCurrent(s int) { f.current = s }
func (f *fakeScreens) Count() int       { return f.count }

type fakeInput struct {
	focused []string
	cleared int
}

func (f *fakeInput) TakeInputFocus(w *wm.Window) { f.focused = append(f.focused, w.ID) }
func (f *fakeInput) ClearInputFocus()            { f.cleared++ }

func (f *fakeInput) last() string {
	if len(f.focused) == 0 {
		return ""
	}
	return f.focused[len(f.focused)-1]
}

type fakePointer struct{ under wm.Handle }

func (f *fakePointer) WindowUnderPointer(int) wm.Handle { return f.under }

type fakePopups struct{ closed []wm.Handle }

func (f *fakePopups) Close(p wm.Handle) { f.closed = append(f.closed, p) }

type attentionEvent struct {
	id      string
	demands bool
}

type fakeObserver struct {
	active    []string
	attention []attentionEvent
}

func (f *fakeObserver) ActiveWindowChanged(w *wm.Window) {
	id := ""
	if w != nil {
		id = w.ID
	}
	f.active = append(f.active, id)
}

func (f *fakeObserver) AttentionChanged(w *wm.Window, demands bool) {
	f.attention = append(f.attention, attentionEvent{w.ID, demands})
}

type decision struct {
	action  string
	id      string
	verdict policy.Verdict
}

type fakeAuditor struct{ decisions []decision }

func (f *fakeAuditor) Decided(action string, w *wm.Window, v policy.Verdict) {
	f.decisions = append(f.decisions, decision{action, w.ID, v})
}

// classMatcher treats windows of one class as one application.
type classMatcher struct{}

func (classMatcher) SameApplication(a, b *wm.Window, _ bool) bool {
	return a == b || (a.Class != "" && a.Class == b.Class)
}

type harness struct {
	t        *testing.T
	reg      *wm.Registry
	clock    *usertime.ManualClock
	stack    *fakeStacking
	desktops *fakeDesktops
	acts     *fakeActivities
	screens  *fakeScreens
	input    *fakeInput
	pointer  *fakePointer
	popups   *fakePopups
	obs      *fakeObserver
	audit    *fakeAuditor
	c        *Coordinator
}

func newHarness(t *testing.T, opts Options) *harness {
	h := &harness{
		t:        t,
		reg:      wm.NewRegistry(),
		clock:    usertime.NewManualClock(10000),
		stack:    &fakeStacking{},
		desktops: &fakeDesktops{current: 1},
		acts:     &fakeActivities{},
		screens:  &fakeScreens{count: 1},
		input:    &fakeInput{},
		pointer:  &fakePointer{},
		popups:   &fakePopups{},
		obs:      &fakeObserver{},
		audit:    &fakeAuditor{},
	}
	h.c = New(Deps{
		Registry:   h.reg,
		Matcher:    classMatcher{},
		Stacking:   h.stack,
		Desktops:   h.desktops,
		Activities: h.acts,
		Screens:    h.screens,
		Input:      h.input,
		Pointer:    h.pointer,
		Popups:     h.popups,
		Observer:   h.obs,
		Auditor:    h.audit,
	}, h.clock, opts, logger.Nop())
	return h
}

// add registers a normal window of its own class on desktop 1.
func (h *harness) add(id string, mods ...func(*wm.Window)) wm.Handle {
	w := &wm.Window{
		ID:       id,
		Class:    id,
		Desktop:  1,
		UserTime: usertime.Unknown,
		Policy: wm.Policy{
			FocusStealing:   wm.LevelMedium,
			FocusProtection: wm.LevelMedium,
			WantsInput:      true,
		},
	}
	for _, m := range mods {
		m(w)
	}
	return h.reg.Add(w)
}

func (h *harness) win(hd wm.Handle) *wm.Window { return h.reg.Get(hd) }

// activeWindows lists every window holding the active flag.
func (h *harness) activeWindows() []string {
	var out []string
	for _, hd := range h.reg.Handles() {
		if w := h.reg.Get(hd); w.Active() {
			out = append(out, w.ID)
		}
	}
	return out
}

func onDesktop(d int) func(*wm.Window) { return func(w *wm.Window) { w.Desktop = d } }

func onScreen(s int) func(*wm.Window) { return func(w *wm.Window) { w.Screen = s } }

func withKind(k wm.Kind) func(*wm.Window) { return func(w *wm.Window) { w.Kind = k } }

func withClass(c string) func(*wm.Window) { return func(w *wm.Window) { w.Class = c } }

func withUserTime(t usertime.Timestamp) func(*wm.Window) {
	return func(w *wm.Window) { w.UserTime = t }
}

func transientFor(l wm.Handle) func(*wm.Window) {
	return func(w *wm.Window) { w.TransientFor = []wm.Handle{l} }
}

func minimized(w *wm.Window) { w.Minimized = true }

func sticky(w *wm.Window) { w.OnAllDesktops = true }
