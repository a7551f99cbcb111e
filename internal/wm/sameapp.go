package wm

import (
	"github.com/shirou/gopsutil/v4/process"

	"focus-warden/pkg/core"
)

// AppMatcher decides whether two windows belong to one application.
type AppMatcher interface {
	// SameApplication compares a and b. relaxed also accepts matches by
	// window class and executable, used when checking against the active
	// window.
	SameApplication(a, b *Window, relaxed bool) bool
}

// ProcessMatcher matches by group leader and PID, and in relaxed mode by
// class and the executable behind the PIDs.
type ProcessMatcher struct {
	log     core.Logger
	exeOf   func(pid int32) (string, error)
	exeByID map[int32]string
}

func NewProcessMatcher(log core.Logger) *ProcessMatcher {
	return &ProcessMatcher{
		log:     log,
		exeOf:   processExe,
		exeByID: make(map[int32]string),
	}
}

func processExe(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Exe()
}

func (m *ProcessMatcher) SameApplication(a, b *Window, relaxed bool) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	if a.Group != nil && a.Group == b.Group {
		return true
	}
	if a.Leader != "" && a.Leader == b.Leader {
		return true
	}
	if a.PID > 0 && a.PID == b.PID {
		return true
	}
	if !relaxed {
		return false
	}
	if a.Class != "" && a.Class == b.Class {
		return true
	}
	ea, eb := m.exe(a.PID), m.exe(b.PID)
	return ea != "" && ea == eb
}

func (m *ProcessMatcher) exe(pid int32) string {
	if pid <= 0 {
		return ""
	}
	if exe, ok := m.exeByID[pid]; ok {
		return exe
	}
	exe, err := m.exeOf(pid)
	if err != nil {
		m.log.Debug("Cannot resolve executable", "pid", pid, "error", err.Error())
		exe = ""
	}
	m.exeByID[pid] = exe
	return exe
}

// Forget drops the cached executable of pid, for when the process exits.
func (m *ProcessMatcher) Forget(pid int32) {
	delete(m.exeByID, pid)
}
