package wm

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"focus-warden/pkg/core"
)

// Hyprland drives the compositor through hyprctl. Window ids are client
// addresses.
type Hyprland struct {
	log core.Logger
	run func(args ...string) ([]byte, error)
}

func NewHyprland(log core.Logger) (*Hyprland, error) {
	// Check if hyprctl is available
	path, err := exec.LookPath("hyprctl")
	if err != nil {
		log.Error("hyprctl not found in PATH", err)
		return nil, fmt.Errorf("hyprctl not found in PATH: %w", err)
	}
	log.Debug("Found hyprctl", "path", path)

	return &Hyprland{
		log: log,
		run: func(args ...string) ([]byte, error) {
			return exec.Command("hyprctl", args...).CombinedOutput()
		},
	}, nil
}

func (h *Hyprland) Name() string {
	return "Hyprland"
}

func (h *Hyprland) dispatch(args ...string) error {
	output, err := h.run(append([]string{"dispatch"}, args...)...)
	if err != nil {
		h.log.Error("hyprctl dispatch failed", err, "args", args, "output", string(output))
		return fmt.Errorf("hyprctl error: %w", err)
	}
	return nil
}

func (h *Hyprland) FocusWindow(w *Window) error {
	h.log.Debug("Focusing window", "address", w.ID)
	if err := h.dispatch("focuswindow", "address:"+w.ID); err != nil {
		return fmt.Errorf("failed to focus window: %w", err)
	}
	return nil
}

func (h *Hyprland) RaiseWindow(w *Window) error {
	if err := h.dispatch("alterzorder", "top,address:"+w.ID); err != nil {
		return fmt.Errorf("failed to raise window: %w", err)
	}
	return nil
}

func (h *Hyprland) SwitchDesktop(desktop int) error {
	if err := h.dispatch("workspace", strconv.Itoa(desktop)); err != nil {
		return fmt.Errorf("failed to switch workspace: %w", err)
	}
	return nil
}

type hyprClient struct {
	Address        string `json:"address"`
	Class          string `json:"class"`
	Title          string `json:"title"`
	At             [2]int `json:"at"`
	Size           [2]int `json:"size"`
	Mapped         bool   `json:"mapped"`
	Hidden         bool   `json:"hidden"`
	FocusHistoryID int    `json:"focusHistoryID"`
}

func (h *Hyprland) WindowUnderPointer() (string, error) {
	posOut, err := h.run("cursorpos")
	if err != nil {
		return "", fmt.Errorf("hyprctl error: %w", err)
	}
	x, y, err := parseCursorPos(string(posOut))
	if err != nil {
		return "", err
	}

	output, err := h.run("clients", "-j")
	if err != nil {
		h.log.Error("Failed to execute hyprctl", err, "output", string(output))
		return "", fmt.Errorf("hyprctl error: %w", err)
	}
	var clients []hyprClient
	if err := json.Unmarshal(output, &clients); err != nil {
		h.log.Error("Failed to parse hyprctl output", err, "output", string(output))
		return "", fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	return clientAt(clients, x, y), nil
}

// clientAt picks the most recently focused visible client containing (x, y).
func clientAt(clients []hyprClient, x, y int) string {
	best := ""
	bestHistory := -1
	for _, c := range clients {
		if !c.Mapped || c.Hidden {
			continue
		}
		if x < c.At[0] || y < c.At[1] || x >= c.At[0]+c.Size[0] || y >= c.At[1]+c.Size[1] {
			continue
		}
		if bestHistory == -1 || c.FocusHistoryID < bestHistory {
			best = c.Address
			bestHistory = c.FocusHistoryID
		}
	}
	return best
}

func parseCursorPos(out string) (int, int, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(out), ",")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected cursorpos output %q", out)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse cursor x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse cursor y: %w", err)
	}
	return x, y, nil
}
