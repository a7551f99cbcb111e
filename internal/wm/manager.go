package wm

import (
	"fmt"
	"os"

	"focus-warden/pkg/core"
)

// Manager handles window system effects based on the session type
type Manager struct {
	backend Backend
	log     core.Logger
}

// NewManager creates a manager for the named backend. "auto" picks one from
// the session type, "none" only logs.
func NewManager(name string, log core.Logger) (*Manager, error) {
	var backend Backend
	var err error

	switch name {
	case "", "auto":
		backend, err = detectBackend(log)
	case "x11":
		backend, err = NewX11(log)
	case "hyprland":
		backend, err = NewHyprland(log)
	case "none":
		backend = &Headless{log: log}
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", name, err)
	}

	log.Info("Window backend initialized", "name", backend.Name())
	return &Manager{backend: backend, log: log}, nil
}

func detectBackend(log core.Logger) (Backend, error) {
	// Check session type
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	log.Info("Session type detected", "session", sessionType)

	switch sessionType {
	case "wayland":
		if sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE"); sig != "" {
			log.Debug("Initializing compositor support", "type", "Hyprland")
			return NewHyprland(log)
		}
		return nil, fmt.Errorf("unsupported Wayland compositor: only Hyprland is supported")
	case "x11":
		log.Debug("Initializing compositor support", "type", "X11")
		return NewX11(log)
	default:
		log.Warn("No window system detected, running headless", "session", sessionType)
		return &Headless{log: log}, nil
	}
}

// NewManagerWithBackend wraps an existing backend.
func NewManagerWithBackend(backend Backend, log core.Logger) *Manager {
	return &Manager{backend: backend, log: log}
}

// FocusWindow wraps the backend, logging failures
func (m *Manager) FocusWindow(w *Window) {
	if err := m.backend.FocusWindow(w); err != nil {
		m.log.Error("Backend focus failed", err, "window", w.ID)
	}
}

// RaiseWindow wraps the backend, logging failures
func (m *Manager) RaiseWindow(w *Window) {
	if err := m.backend.RaiseWindow(w); err != nil {
		m.log.Error("Backend raise failed", err, "window", w.ID)
	}
}

// SwitchDesktop wraps the backend, logging failures
func (m *Manager) SwitchDesktop(desktop int) {
	if err := m.backend.SwitchDesktop(desktop); err != nil {
		m.log.Error("Backend desktop switch failed", err, "desktop", desktop)
	}
}

// WindowUnderPointer returns "" when the backend cannot tell.
func (m *Manager) WindowUnderPointer() string {
	id, err := m.backend.WindowUnderPointer()
	if err != nil {
		m.log.Debug("Pointer query failed", "error", err.Error())
		return ""
	}
	return id
}

// GetWMName returns the name of the current window backend
func (m *Manager) GetWMName() string {
	return m.backend.Name()
}

// Headless logs effects without touching a window system.
type Headless struct {
	log core.Logger
}

func (h *Headless) Name() string { return "headless" }

func (h *Headless) FocusWindow(w *Window) error {
	h.log.Debug("Headless focus", "window", w.ID)
	return nil
}

func (h *Headless) RaiseWindow(w *Window) error {
	h.log.Debug("Headless raise", "window", w.ID)
	return nil
}

func (h *Headless) SwitchDesktop(desktop int) error {
	h.log.Debug("Headless desktop switch", "desktop", desktop)
	return nil
}

func (h *Headless) WindowUnderPointer() (string, error) { return "", nil }
