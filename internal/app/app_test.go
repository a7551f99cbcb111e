package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-warden/internal/ipc"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
	"focus-warden/pkg/config"
	"focus-warden/pkg/logger"
	"focus-warden/pkg/notify"
)

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	dir, err := os.MkdirTemp("", "fw")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	body := fmt.Sprintf(`
focus_policy = "click"
synchronous_focus = true
focus_stealing_prevention = 2
focus_protection = 2
backend = "none"
socket_path = %q
journal_dsn = %q
dbus_export = false
attention_notify = false
attention_bell = false
%s
`, filepath.Join(dir, "s.sock"), filepath.Join(dir, "journal.db"), extra)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg := config.New(logger.Nop())
	require.NoError(t, cfg.LoadFromFile(path, logger.Nop()))
	return cfg
}

func newTestApp(t *testing.T, extra string) *FocusWarden {
	t.Helper()
	a, err := New(testConfig(t, extra), logger.Nop(), WithClock(usertime.NewManualClock(5000)))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func u32(v uint32) *uint32 { return &v }

func state(t *testing.T, a *FocusWarden) ipc.Response {
	t.Helper()
	resp := a.dispatch(ipc.Request{Command: ipc.CmdState})
	require.True(t, resp.OK())
	require.NotNil(t, resp.State)
	return resp
}

func TestMapDeniesOlderWindow(t *testing.T) {
	a := newTestApp(t, "")

	resp := a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term", UserTime: u32(1000)})
	require.True(t, resp.OK(), resp.Message)
	assert.True(t, *resp.Allowed)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "b", Class: "chat", UserTime: u32(500)})
	require.True(t, resp.OK(), resp.Message)
	assert.False(t, *resp.Allowed)

	s := state(t, a).State
	assert.Equal(t, "a", s.Active)
	assert.Equal(t, []string{"b"}, s.Attention)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdActivate, Window: "b", Source: "tool"})
	require.True(t, resp.OK(), resp.Message)
	assert.True(t, *resp.Allowed)
	s = state(t, a).State
	assert.Equal(t, "b", s.Active)
	assert.Empty(t, s.Attention)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdHistory, Limit: 10})
	require.True(t, resp.OK(), resp.Message)
	require.Len(t, resp.History, 2)
	var windows []string
	for _, e := range resp.History {
		assert.Equal(t, "map", e.Action)
		windows = append(windows, e.Window)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, windows)
}

func TestRaiseRefusedForOlderRequest(t *testing.T) {
	a := newTestApp(t, "")
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term", UserTime: u32(1000)})
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "b", Class: "chat", UserTime: u32(2000)})
	require.Equal(t, "b", state(t, a).State.Active)

	resp := a.dispatch(ipc.Request{Command: ipc.CmdRaise, Window: "a", Source: "application", Time: u32(1500)})
	require.True(t, resp.OK(), resp.Message)
	assert.False(t, *resp.Allowed)
	assert.Equal(t, []string{"a"}, state(t, a).State.Attention)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdRaise, Window: "a", Source: "tool", Time: u32(1500)})
	require.True(t, resp.OK(), resp.Message)
	assert.True(t, *resp.Allowed)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdRaise, Window: "a", Source: "robot"})
	assert.False(t, resp.OK())
}

func TestClickAndUnmap(t *testing.T) {
	a := newTestApp(t, "")
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term", UserTime: u32(1000)})
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "b", Class: "chat", UserTime: u32(2000)})
	require.Equal(t, "b", state(t, a).State.Active)

	resp := a.dispatch(ipc.Request{Command: ipc.CmdClick, Window: "a"})
	assert.True(t, *resp.Allowed)
	assert.Equal(t, "a", state(t, a).State.Active)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdUnmap, Window: "a"})
	require.True(t, resp.OK())
	s := state(t, a).State
	assert.Equal(t, "b", s.Active)
	assert.Equal(t, []string{"b"}, s.Chain)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdFocusIn, Window: "a"})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Message, "unknown window")
}

func TestDesktopSwitchActivatesWindowThere(t *testing.T) {
	a := newTestApp(t, "")
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term", UserTime: u32(1000)})

	resp := a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "d", Class: "mail", Desktop: 2, UserTime: u32(9000)})
	assert.False(t, *resp.Allowed, "window on another desktop")

	resp = a.dispatch(ipc.Request{Command: ipc.CmdDesktop, Desktop: 2})
	require.True(t, resp.OK())
	s := state(t, a).State
	assert.Equal(t, 2, s.Desktop)
	assert.Equal(t, "d", s.Active)

	resp = a.dispatch(ipc.Request{Command: ipc.CmdDesktop, Desktop: 0})
	assert.False(t, resp.OK())
}

func TestRulesApplyPerClass(t *testing.T) {
	a := newTestApp(t, `
[[rule]]
class = "chat"
focus_stealing = 0
`)
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term", UserTime: u32(1000)})
	resp := a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "b", Class: "chat", UserTime: u32(500)})
	assert.True(t, *resp.Allowed, "prevention disabled for chat")

	w := a.reg.Get(mustLookup(t, a, "b"))
	assert.Equal(t, wm.LevelNone, w.Policy.FocusStealing)
	assert.Equal(t, wm.LevelMedium, w.Policy.FocusProtection)
}

func TestSessionAndErrors(t *testing.T) {
	a := newTestApp(t, "")
	resp := a.dispatch(ipc.Request{Command: ipc.CmdSession, Session: "saving"})
	require.True(t, resp.OK())
	assert.Equal(t, "saving", state(t, a).State.Session)

	assert.False(t, a.dispatch(ipc.Request{Command: ipc.CmdSession, Session: "bogus"}).OK())
	assert.False(t, a.dispatch(ipc.Request{Command: ipc.CmdMap}).OK())
	assert.False(t, a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "x", Kind: "toolbar"}).OK())
	assert.False(t, a.dispatch(ipc.Request{Command: "bogus", Window: "x"}).OK())
}

func TestApplyConfigReresolvesPolicies(t *testing.T) {
	a := newTestApp(t, "")
	a.dispatch(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term"})

	a.applyConfig(testConfig(t, `
next_focus_prefers_mouse = true

[[rule]]
class = "term"
focus_protection = 4
`))
	w := a.reg.Get(mustLookup(t, a, "a"))
	assert.Equal(t, wm.LevelExtreme, w.Policy.FocusProtection)
	assert.True(t, a.coord.Options().NextFocusPrefersMouse)
}

func mustLookup(t *testing.T, a *FocusWarden, id string) wm.Handle {
	t.Helper()
	h, ok := a.reg.Lookup(id)
	require.True(t, ok)
	return h
}

func TestRunServesSocket(t *testing.T) {
	a := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	client := ipc.NewClient(a.cfg.GetSocketPath(), logger.Nop())
	var resp ipc.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = client.Send(ipc.Request{Command: ipc.CmdMap, Window: "a", Class: "term"})
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, resp.OK(), resp.Message)

	resp, err := client.Send(ipc.Request{Command: ipc.CmdState})
	require.NoError(t, err)
	assert.Equal(t, "a", resp.State.Active)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

type fakeNotifier struct {
	shown []string
}

func (f *fakeNotifier) Show(title, message string, nType notify.NotificationType) error {
	f.shown = append(f.shown, title+": "+message)
	return nil
}

type fakeBell struct {
	rings int
	err   error
}

func (f *fakeBell) Ring() error {
	f.rings++
	return f.err
}

func TestAttentionAlerts(t *testing.T) {
	n := &fakeNotifier{}
	b := &fakeBell{}
	alerts := &attentionAlerts{
		notifier: n,
		bell:     b,
		log:      logger.Nop(),
		async:    func(fn func()) { fn() },
	}

	alerts.AttentionChanged(&wm.Window{ID: "w", Class: "chat", Title: "New message"}, true)
	alerts.AttentionChanged(&wm.Window{ID: "w"}, false)
	alerts.AttentionChanged(&wm.Window{ID: "x"}, true)

	assert.Equal(t, []string{"chat: New message", "x: wants your attention"}, n.shown)
	assert.Equal(t, 2, b.rings)

	b.err = errors.New("no audio device")
	alerts.AttentionChanged(&wm.Window{ID: "y"}, true)
	assert.Nil(t, alerts.bell)
}
