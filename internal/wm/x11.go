package wm

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"focus-warden/pkg/core"
)

// X11 drives an X server through xdotool. Window ids are decimal XIDs.
type X11 struct {
	log core.Logger
	run func(args ...string) ([]byte, error)
}

func NewX11(log core.Logger) (*X11, error) {
	// Check if xdotool is available
	path, err := exec.LookPath("xdotool")
	if err != nil {
		return nil, fmt.Errorf("xdotool is required for X11 support but was not found: %w", err)
	}
	log.Debug("Found xdotool", "path", path)

	return &X11{
		log: log,
		run: func(args ...string) ([]byte, error) {
			return exec.Command("xdotool", args...).CombinedOutput()
		},
	}, nil
}

func (x *X11) Name() string {
	return "X11"
}

func (x *X11) FocusWindow(w *Window) error {
	if w.ID == "" {
		return fmt.Errorf("cannot focus window: no window ID provided")
	}
	if out, err := x.run("windowfocus", w.ID); err != nil {
		x.log.Error("Failed to focus window", err, "window", w.ID, "output", string(out))
		return fmt.Errorf("failed to focus window: %w", err)
	}
	return nil
}

func (x *X11) RaiseWindow(w *Window) error {
	if w.ID == "" {
		return fmt.Errorf("cannot raise window: no window ID provided")
	}
	if out, err := x.run("windowraise", w.ID); err != nil {
		x.log.Error("Failed to raise window", err, "window", w.ID, "output", string(out))
		return fmt.Errorf("failed to raise window: %w", err)
	}
	return nil
}

func (x *X11) SwitchDesktop(desktop int) error {
	// xdotool counts desktops from zero
	if out, err := x.run("set_desktop", strconv.Itoa(desktop-1)); err != nil {
		x.log.Error("Failed to switch desktop", err, "desktop", desktop, "output", string(out))
		return fmt.Errorf("failed to switch desktop: %w", err)
	}
	return nil
}

func (x *X11) WindowUnderPointer() (string, error) {
	out, err := x.run("getmouselocation", "--shell")
	if err != nil {
		return "", fmt.Errorf("failed to query pointer: %w", err)
	}
	return parseMouseLocation(string(out)), nil
}

// parseMouseLocation extracts WINDOW from `xdotool getmouselocation --shell`.
func parseMouseLocation(out string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if ok && key == "WINDOW" {
			return value
		}
	}
	return ""
}
