// Package export publishes activation changes on the D-Bus session bus.
package export

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"

	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

const (
	BusName   = "org.focuswarden.Activation"
	Path      = dbus.ObjectPath("/org/focuswarden/Activation")
	Interface = "org.focuswarden.Activation"
)

// Emitter sends signals. *dbus.Conn satisfies it.
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// Exporter implements activation.Observer. It keeps a copy of the exported
// state so bus method calls never touch the coordinator.
type Exporter struct {
	emitter  Emitter
	conn     *dbus.Conn
	log      core.Logger
	disabled bool

	mu        sync.RWMutex
	active    string
	class     string
	attention []string
}

// Connect claims BusName on the session bus and exports the query methods.
func Connect(log core.Logger) (*Exporter, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, errors.New("bus name already taken")
	}

	e := New(conn, log)
	e.conn = conn
	if err := conn.Export(e, Path, Interface); err != nil {
		conn.ReleaseName(BusName)
		return nil, fmt.Errorf("failed to export activation object: %w", err)
	}

	log.Info("D-Bus export started", "name", BusName, "path", string(Path))
	return e, nil
}

// New wraps an emitter without touching the bus.
func New(emitter Emitter, log core.Logger) *Exporter {
	return &Exporter{emitter: emitter, log: log}
}

func (e *Exporter) ActiveWindowChanged(w *wm.Window) {
	id, class := "", ""
	if w != nil {
		id, class = w.ID, w.Class
	}

	e.mu.Lock()
	e.active, e.class = id, class
	e.mu.Unlock()

	e.emit("ActiveWindowChanged", id, class)
}

func (e *Exporter) AttentionChanged(w *wm.Window, demands bool) {
	e.mu.Lock()
	e.attention = slices.DeleteFunc(e.attention, func(id string) bool { return id == w.ID })
	if demands {
		e.attention = append([]string{w.ID}, e.attention...)
	}
	e.mu.Unlock()

	e.emit("AttentionChanged", w.ID, demands)
}

func (e *Exporter) emit(signal string, values ...interface{}) {
	if e.disabled {
		return
	}
	if err := e.emitter.Emit(Path, Interface+"."+signal, values...); err != nil {
		e.log.Error("Failed to emit D-Bus signal, disabling export", err, "signal", signal)
		e.disabled = true
	}
}

// ActiveWindow is exported on the bus. It returns the id and class of the
// active window, both empty when none is active.
func (e *Exporter) ActiveWindow() (string, string, *dbus.Error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active, e.class, nil
}

// Attention is exported on the bus. Most recent demand first.
func (e *Exporter) Attention() ([]string, *dbus.Error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.attention), nil
}

func (e *Exporter) Close() error {
	if e.conn == nil {
		return nil
	}
	e.conn.ReleaseName(BusName)
	return e.conn.Close()
}
