package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-warden/internal/policy"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
)

func TestRequestActivationFromTool(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b", onDesktop(2))
	h.c.SetActive(a)

	h.c.RequestActivation(b, SourceTool, usertime.CurrentTime, wm.NoWindow)
	assert.Equal(t, []int{2}, h.desktops.switches)
	assert.Equal(t, []string{"b"}, h.input.focused)
	assert.Empty(t, h.audit.decisions, "tools are trusted")
}

func TestRequestActivationUnknownSourceIsTool(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b", withUserTime(10))
	h.c.SetActive(a)

	h.c.RequestActivation(b, SourceUnknown, 10, wm.NoWindow)
	assert.Equal(t, []string{"b"}, h.input.focused)
}

func TestRequestActivationFromApplication(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b")
	h.c.SetActive(a)

	h.c.RequestActivation(b, SourceApplication, 4000, wm.NoWindow)
	assert.Empty(t, h.input.focused)
	assert.True(t, h.win(b).DemandsAttention())

	h.c.RequestActivation(b, SourceApplication, 6000, wm.NoWindow)
	assert.Equal(t, []string{"b"}, h.input.focused)
	require.Len(t, h.audit.decisions, 2)
	assert.Equal(t, "request", h.audit.decisions[1].action)
	assert.Equal(t, policy.RuleTimestamp, h.audit.decisions[1].verdict.Rule)
}

func TestRequestActivationOnBehalfOfRequestor(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b")
	r := h.add("r", withUserTime(7000))
	h.c.SetActive(a)

	h.c.RequestActivation(b, SourceApplication, 4000, r)
	assert.Equal(t, []string{"b"}, h.input.focused)
	assert.False(t, h.win(b).DemandsAttention())
	require.Len(t, h.audit.decisions, 2)
	assert.Equal(t, "request_by", h.audit.decisions[1].action)
	assert.Equal(t, "r", h.audit.decisions[1].id)
	assert.Equal(t, usertime.Timestamp(7000), h.audit.decisions[1].verdict.Time)
}

func TestRequestActivationOfMostRecentIsIgnored(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	h.c.SetActive(a)

	h.c.RequestActivation(a, SourceApplication, 9000, wm.NoWindow)
	assert.Empty(t, h.input.focused)
	assert.Empty(t, h.audit.decisions)
}

func TestRequestActivationAcrossDesktopsWithinApplication(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withClass("mail"), withUserTime(5000))
	compose := h.add("compose", withClass("mail"), onDesktop(3))
	h.c.SetActive(a)

	h.c.RequestActivation(compose, SourceApplication, 1, wm.NoWindow)
	assert.Equal(t, []int{3}, h.desktops.switches)
	assert.Equal(t, []string{"compose"}, h.input.focused)
}

func TestWindowMappedAllowed(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	h.c.SetActive(a)

	n := h.add("n", withUserTime(6000))
	assert.True(t, h.c.WindowMapped(n))
	assert.Equal(t, []string{"n"}, h.stack.raised)
	assert.Equal(t, []string{"n"}, h.input.focused)
	assert.Equal(t, []wm.Handle{a, n}, h.c.Chain().List(1))
}

func TestWindowMappedDenied(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	h.c.SetActive(a)

	n := h.add("n", withUserTime(4000))
	assert.False(t, h.c.WindowMapped(n))
	assert.Empty(t, h.input.focused)
	assert.Empty(t, h.stack.raised)
	assert.True(t, h.win(n).DemandsAttention())
	assert.True(t, h.c.Chain().Contains(n, 1))

	z := h.add("z", withUserTime(usertime.CurrentTime))
	assert.False(t, h.c.WindowMapped(z))
	last := h.audit.decisions[len(h.audit.decisions)-1]
	assert.Equal(t, policy.RuleZeroTime, last.verdict.Rule)

	dock := h.add("dock", withKind(wm.KindDock), withUserTime(1))
	assert.False(t, h.c.WindowMapped(dock))
	assert.False(t, h.win(dock).DemandsAttention(), "special windows never demand attention")
	assert.False(t, h.c.Chain().Contains(dock, 1))
}

func TestWindowMappedOnOtherDesktop(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	n := h.add("n", onDesktop(2), withUserTime(10))

	assert.True(t, h.c.WindowMapped(n), "nothing to protect")
	assert.Equal(t, []int{2}, h.desktops.switches)
	assert.Equal(t, []string{"n"}, h.input.focused)
}

func TestWindowRemoved(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a")
	b := h.add("b")
	h.c.SetActive(b)
	h.c.SetActive(a)
	h.c.SetDemandsAttention(b, true)

	h.c.WindowRemoved(a)
	assert.Nil(t, h.reg.Get(a))
	assert.Equal(t, wm.NoWindow, h.c.LastActive())
	assert.Equal(t, wm.NoWindow, h.c.Active())
	assert.Equal(t, []wm.Handle{b}, h.c.Chain().List(1))
	assert.Equal(t, []string{"b"}, h.input.focused)

	h.c.WindowRemoved(b)
	assert.Zero(t, h.reg.Len())
	assert.Zero(t, h.c.pending.Len())
	assert.Zero(t, h.c.attention.Len())
	assert.Empty(t, h.c.Chain().List(1))
	assert.Equal(t, 1, h.input.cleared)

	h.c.WindowRemoved(b)
	assert.Equal(t, 1, h.input.cleared, "removing twice is a no-op")
}

func TestWindowRemovedClosesItsPopup(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a")
	menu := h.add("menu", withKind(wm.KindMenu))
	h.c.SetActive(a)
	h.c.SetActivePopup(menu, a)

	h.c.WindowRemoved(menu)
	assert.Equal(t, []wm.Handle{menu}, h.popups.closed)
	assert.Equal(t, a, h.c.Active())
}

func TestActivateAttentionWindow(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	assert.False(t, h.c.ActivateAttentionWindow())

	a := h.add("a")
	b := h.add("b", onDesktop(2))
	h.c.SetActive(a)
	h.c.SetDemandsAttention(b, true)

	assert.True(t, h.c.ActivateAttentionWindow())
	assert.Equal(t, []string{"b"}, h.input.focused)
	assert.Equal(t, 2, h.desktops.current)

	h.c.FocusIn(b)
	assert.Equal(t, b, h.c.Active())
	assert.False(t, h.win(b).DemandsAttention())
	assert.Zero(t, h.c.attention.Len())
}

func TestSetCurrentScreen(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.screens.count = 2
	a := h.add("a", onScreen(0))
	b := h.add("b", onScreen(1))
	h.c.SetActive(b)
	h.c.SetActive(a)

	h.c.SetCurrentScreen(5)
	assert.Empty(t, h.input.focused)

	h.c.SetCurrentScreen(1)
	assert.Equal(t, []string{"b"}, h.input.focused)
	assert.Equal(t, 1, h.screens.current)

	h.c.SetCurrentScreen(1)
	assert.Len(t, h.input.focused, 1, "b is already the most recent activation")
}

func TestCurrentDesktopChanged(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a")
	b := h.add("b", onDesktop(2))
	c2 := h.add("c", onDesktop(2))
	h.c.SetActive(b)
	h.c.SetActive(c2)
	h.c.SetActive(a)

	h.desktops.current = 2
	h.c.CurrentDesktopChanged(2)
	assert.Equal(t, wm.NoWindow, h.c.Active())
	assert.Equal(t, []string{"c"}, h.input.focused)
}

func TestCurrentDesktopChangedPrefersPointer(t *testing.T) {
	opts := DefaultOptions()
	opts.NextFocusPrefersMouse = true
	h := newHarness(t, opts)
	a := h.add("a")
	b := h.add("b", onDesktop(2))
	c2 := h.add("c", onDesktop(2))
	h.c.SetActive(b)
	h.c.SetActive(c2)
	h.c.SetActive(a)
	h.pointer.under = b

	h.desktops.current = 2
	h.c.CurrentDesktopChanged(2)
	assert.Equal(t, []string{"b"}, h.input.focused)
}

func TestCurrentDesktopChangedFallsBackToDesktopWindow(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.add("desk", withKind(wm.KindDesktop), func(w *wm.Window) { w.OnAllDesktops = true })
	a := h.add("a")
	h.c.SetActive(a)

	h.desktops.current = 4
	h.c.CurrentDesktopChanged(4)
	assert.Equal(t, []string{"desk"}, h.input.focused)

	h.c.SetActive(wm.NoWindow)
	h.reg.Remove(h.c.pending.Back())
	h.c.CurrentDesktopChanged(5)
	assert.Equal(t, 1, h.input.cleared)
}

func TestCurrentDesktopChangedKeepsStickyWindowUnderMouse(t *testing.T) {
	h := newHarness(t, Options{FocusPolicy: FocusUnderMouse})
	a := h.add("a", func(w *wm.Window) { w.OnAllDesktops = true })
	h.c.SetActive(a)

	h.desktops.current = 2
	h.c.CurrentDesktopChanged(2)
	assert.Equal(t, a, h.c.Active())
	assert.Equal(t, []string{"a"}, h.input.focused)
}

func TestSetShowingDesktop(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	h.add("desk", withKind(wm.KindDesktop))
	h.add("panel", withKind(wm.KindDock))
	a := h.add("a")
	h.c.SetActive(a)

	h.c.SetShowingDesktop(true)
	assert.True(t, h.c.ShowingDesktop())
	assert.Equal(t, []string{"desk", "panel"}, h.stack.layered)
	assert.Equal(t, []string{"desk"}, h.input.focused)

	h.c.SetShowingDesktop(false)
	assert.False(t, h.c.ShowingDesktop())
	assert.Equal(t, []string{"desk", "a"}, h.input.focused)
	assert.Equal(t, []string{"a"}, h.stack.raised)
}

func TestRaiseRequest(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b")
	h.c.SetActive(a)

	assert.True(t, h.c.RaiseRequest(b, SourceApplication, 6000))
	assert.Equal(t, []string{"b"}, h.stack.raised)
	require.Len(t, h.audit.decisions, 1)
	assert.Equal(t, "raise", h.audit.decisions[0].action)
	assert.False(t, h.c.RaiseRequest(wm.NoWindow, SourceApplication, 1))
}

func TestRefusedRaiseDemandsAttention(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b")
	peer := h.add("peer", withClass("b"))
	h.stack.peers = []*wm.Window{h.win(a), h.win(peer)}
	h.c.SetActive(a)

	assert.False(t, h.c.RaiseRequest(b, SourceApplication, 4000))
	assert.Empty(t, h.stack.raised)
	assert.Equal(t, []string{"b"}, h.stack.appRaised)
	assert.Equal(t, [][]string{{"peer"}}, h.stack.appPeers)
	assert.True(t, h.win(b).DemandsAttention())
	assert.Equal(t, []string{"b"}, h.c.Snapshot().Attention)
	assert.Equal(t, []attentionEvent{{"b", true}}, h.obs.attention)
}

func TestToolRaiseSkipsPolicy(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b")
	h.c.SetActive(a)

	assert.True(t, h.c.RaiseRequest(b, SourceTool, 4000))
	assert.True(t, h.c.RaiseRequest(b, SourceUnknown, 4000))
	assert.Equal(t, []string{"b", "b"}, h.stack.raised)
	assert.Empty(t, h.audit.decisions)
	assert.False(t, h.win(b).DemandsAttention())
}

func TestStartupNotified(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	b := h.add("b")

	assert.True(t, h.c.StartupNotified(b, 3000))
	assert.False(t, h.c.StartupNotified(b, 2000))
	assert.Equal(t, usertime.Timestamp(3000), h.win(b).EffectiveUserTime())
}

func TestClick(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a", withUserTime(5000))
	b := h.add("b", withUserTime(10))
	h.c.SetActive(a)

	h.c.Click(b)
	assert.Equal(t, usertime.Timestamp(10000), h.win(b).UserTime)
	assert.Equal(t, []string{"b"}, h.input.focused)
	assert.Equal(t, []string{"b"}, h.stack.raised)
	assert.Equal(t, 1, h.clock.Refreshes())
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t, DefaultOptions())
	a := h.add("a")
	b := h.add("b")
	c2 := h.add("c")
	h.c.SetActive(a)
	h.c.RequestFocus(b, false, false)
	h.c.SetDemandsAttention(c2, true)
	h.c.SetSessionState(policy.SessionSaving)

	s := h.c.Snapshot()
	assert.Equal(t, "a", s.Active)
	assert.Equal(t, "a", s.LastActive)
	assert.Equal(t, []string{"b"}, s.Pending)
	assert.Equal(t, []string{"c"}, s.Attention)
	assert.Equal(t, []string{"a"}, s.Chain)
	assert.Equal(t, 1, s.Desktop)
	assert.Equal(t, "saving", s.Session)
	assert.Equal(t, "click", s.Policy)
}
