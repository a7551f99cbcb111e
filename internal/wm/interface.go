package wm

// Backend carries out focus effects on the real window system.
type Backend interface {
	// FocusWindow moves input focus to the window
	FocusWindow(w *Window) error
	// RaiseWindow puts the window on top of the stack
	RaiseWindow(w *Window) error
	// SwitchDesktop makes desktop (1-based) current
	SwitchDesktop(desktop int) error
	// WindowUnderPointer returns the external id of the window below the
	// pointer, or "" when there is none
	WindowUnderPointer() (string, error)
	// Name returns the WM name for logging/display
	Name() string
}
