package workspace

import (
	"focus-warden/internal/wm"
)

// Pointer answers which window is under the mouse. A window set with Set
// wins over the backend.
type Pointer struct {
	reg      *wm.Registry
	mgr      *wm.Manager
	override string
}

func NewPointer(reg *wm.Registry, mgr *wm.Manager) *Pointer {
	return &Pointer{reg: reg, mgr: mgr}
}

// Set records the window under the pointer. An empty id hands the question
// back to the backend.
func (p *Pointer) Set(id string) { p.override = id }

func (p *Pointer) WindowUnderPointer(screen int) wm.Handle {
	id := p.override
	if id == "" {
		id = p.mgr.WindowUnderPointer()
	}
	if id == "" {
		return wm.NoWindow
	}
	h, ok := p.reg.Lookup(id)
	if !ok {
		return wm.NoWindow
	}
	if w := p.reg.Get(h); w == nil || w.Screen != screen {
		return wm.NoWindow
	}
	return h
}
