package wm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"focus-warden/pkg/logger"
)

func newTestMatcher(exes map[int32]string) (*ProcessMatcher, *int) {
	calls := 0
	m := NewProcessMatcher(logger.Nop())
	m.exeOf = func(pid int32) (string, error) {
		calls++
		if exe, ok := exes[pid]; ok {
			return exe, nil
		}
		return "", errors.New("no such process")
	}
	return m, &calls
}

func TestSameApplicationStrict(t *testing.T) {
	m, _ := newTestMatcher(nil)
	a := &Window{ID: "a", Leader: "L", PID: 10}
	assert.True(t, m.SameApplication(a, a, false))
	assert.True(t, m.SameApplication(a, &Window{ID: "b", Leader: "L"}, false))
	assert.True(t, m.SameApplication(a, &Window{ID: "c", PID: 10}, false))
	assert.False(t, m.SameApplication(a, &Window{ID: "d", Class: "x", PID: 11}, false))
	assert.False(t, m.SameApplication(a, nil, true))
}

func TestSameApplicationRelaxed(t *testing.T) {
	m, calls := newTestMatcher(map[int32]string{1: "/usr/bin/firefox", 2: "/usr/bin/firefox", 3: "/usr/bin/xterm"})
	a := &Window{ID: "a", Class: "Firefox", PID: 1}

	assert.True(t, m.SameApplication(a, &Window{ID: "b", Class: "Firefox", PID: 9}, true))
	assert.True(t, m.SameApplication(a, &Window{ID: "c", Class: "Other", PID: 2}, true))
	assert.False(t, m.SameApplication(a, &Window{ID: "d", Class: "XTerm", PID: 3}, true))
	assert.False(t, m.SameApplication(a, &Window{ID: "e", Class: "Other", PID: 2}, false))

	before := *calls
	m.SameApplication(a, &Window{ID: "f", PID: 3}, true)
	assert.Equal(t, before, *calls, "executables are cached")

	m.Forget(3)
	m.SameApplication(a, &Window{ID: "g", PID: 3}, true)
	assert.Equal(t, before+1, *calls)
}

func TestRulesResolve(t *testing.T) {
	high := LevelHigh
	none := LevelNone
	yes := true
	r := NewRules(LevelMedium, LevelLow, []Rule{
		{Class: "Konsole", FocusStealing: &high, AcceptFocus: &yes},
		{Class: "Legacy", FocusProtection: &none, StealingWorkaround: &yes},
	})

	p := r.Resolve("Unknown", true)
	assert.Equal(t, Policy{FocusStealing: LevelMedium, FocusProtection: LevelLow, WantsInput: true}, p)

	p = r.Resolve("Konsole", false)
	assert.Equal(t, LevelHigh, p.FocusStealing)
	assert.Equal(t, LevelLow, p.FocusProtection)
	assert.True(t, p.AcceptFocusIfZeroTime)

	p = r.Resolve("Legacy", true)
	assert.Equal(t, LevelNone, p.FocusProtection)
	assert.True(t, p.StealingWorkaround)
}
