package workspace

import (
	"slices"

	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

// Stack keeps the stacking order, bottom first, and moves input focus
// through the window backend.
type Stack struct {
	reg   *wm.Registry
	mgr   *wm.Manager
	log   core.Logger
	order []wm.Handle

	restacks int
}

func NewStack(reg *wm.Registry, mgr *wm.Manager, log core.Logger) *Stack {
	return &Stack{reg: reg, mgr: mgr, log: log}
}

func (s *Stack) Raise(w *wm.Window) {
	h := w.Handle()
	s.order = slices.DeleteFunc(s.order, func(x wm.Handle) bool { return x == h })
	s.order = append(s.order, h)
	s.mgr.RaiseWindow(w)
}

// RaiseWithinApplication moves w right above the topmost window sameApp
// accepts. The backend can only raise to the top, so it is not told.
func (s *Stack) RaiseWithinApplication(w *wm.Window, sameApp func(other *wm.Window) bool) {
	h := w.Handle()
	for i := len(s.order) - 1; i >= 0; i-- {
		other := s.order[i]
		if other == h {
			return
		}
		if o := s.reg.Get(other); o == nil || !sameApp(o) {
			continue
		}
		s.order = slices.DeleteFunc(s.order, func(x wm.Handle) bool { return x == h })
		s.order = slices.Insert(s.order, slices.Index(s.order, other)+1, h)
		s.log.Debug("Raised within application", "window", w.ID, "above", s.reg.Get(other).ID)
		return
	}
}

func (s *Stack) UpdateLayer(w *wm.Window) {
	s.log.Debug("Layer update", "window", w.ID, "active_layer", w.InActiveLayer)
}

// UpdateStackingOrder drops windows that are gone and records a restack.
func (s *Stack) UpdateStackingOrder() {
	s.order = slices.DeleteFunc(s.order, func(h wm.Handle) bool { return s.reg.Get(h) == nil })
	s.restacks++
}

// Restacks counts UpdateStackingOrder calls.
func (s *Stack) Restacks() int { return s.restacks }

// Order returns window ids top first.
func (s *Stack) Order() []string {
	ids := make([]string, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if w := s.reg.Get(s.order[i]); w != nil {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func (s *Stack) TakeInputFocus(w *wm.Window) {
	s.mgr.FocusWindow(w)
}

func (s *Stack) ClearInputFocus() {
	s.log.Debug("Input focus cleared")
}

// Popups closes popups by logging; the daemon has no popup windows of its
// own.
type Popups struct {
	log core.Logger
}

func NewPopups(log core.Logger) *Popups { return &Popups{log: log} }

func (p *Popups) Close(popup wm.Handle) {
	p.log.Debug("Closing popup", "popup", popup.String())
}
