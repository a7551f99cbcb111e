package wm

import (
	"fmt"

	"focus-warden/internal/usertime"
)

// Handle is a generation-checked reference into a Registry. A handle to a
// removed window resolves to nil even after its slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// NoWindow is the zero handle.
var NoWindow Handle

func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

type slot struct {
	win *Window
	gen uint32
}

// Registry is the arena of managed windows and their application groups.
type Registry struct {
	slots  []slot
	free   []uint32
	byID   map[string]Handle
	order  []Handle
	groups *usertime.Groups
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]Handle),
		groups: usertime.NewGroups(),
	}
}

// Add registers w and attaches it to the group of its leader, or a group of
// its own when it has none. Adding an ID twice replaces the old window.
func (r *Registry) Add(w *Window) Handle {
	if old, ok := r.byID[w.ID]; ok {
		r.Remove(old)
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, slot{})
		idx = uint32(len(r.slots) - 1)
	}
	s := &r.slots[idx]
	s.gen++
	s.win = w

	h := Handle{index: idx, gen: s.gen}
	w.handle = h
	leader := w.Leader
	if leader == "" {
		leader = w.ID
	}
	w.Group = r.groups.Get(leader)
	r.byID[w.ID] = h
	r.order = append(r.order, h)
	return h
}

// Remove drops the window behind h. It reports false for stale handles.
func (r *Registry) Remove(h Handle) bool {
	w := r.Get(h)
	if w == nil {
		return false
	}
	s := &r.slots[h.index]
	s.win = nil
	r.free = append(r.free, h.index)
	delete(r.byID, w.ID)
	for i, o := range r.order {
		if o == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	w.handle = NoWindow

	if w.Group != nil && !r.groupInUse(w.Group) {
		r.groups.Drop(w.Group.Leader)
	}
	return true
}

func (r *Registry) groupInUse(g *usertime.Group) bool {
	for _, h := range r.order {
		if r.slots[h.index].win.Group == g {
			return true
		}
	}
	return false
}

// Get resolves h, returning nil when the window is gone.
func (r *Registry) Get(h Handle) *Window {
	if !h.Valid() || int(h.index) >= len(r.slots) {
		return nil
	}
	s := r.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.win
}

// Lookup finds a window by its external id.
func (r *Registry) Lookup(id string) (Handle, bool) {
	h, ok := r.byID[id]
	return h, ok
}

// Handles returns the live handles in the order they were added.
func (r *Registry) Handles() []Handle {
	out := make([]Handle, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.order) }

// Groups exposes the application groups.
func (r *Registry) Groups() *usertime.Groups { return r.groups }

// FindModal follows modal dialogs of h down to the innermost one. It returns
// h itself when no modal is open.
func (r *Registry) FindModal(h Handle) Handle {
	seen := map[Handle]bool{h: true}
	cur := h
	for {
		next := NoWindow
		for i := len(r.order) - 1; i >= 0; i-- {
			if w := r.slots[r.order[i].index].win; w.ModalFor == cur {
				next = r.order[i]
				break
			}
		}
		if !next.Valid() || seen[next] {
			return cur
		}
		seen[next] = true
		cur = next
	}
}

// FindDesktop returns the most recently mapped desktop window shown on
// desktop.
func (r *Registry) FindDesktop(desktop int) Handle {
	for i := len(r.order) - 1; i >= 0; i-- {
		w := r.slots[r.order[i].index].win
		if w.Kind.IsDesktop() && w.Shown() && w.IsOnDesktop(desktop) {
			return r.order[i]
		}
	}
	return NoWindow
}

// Unminimize, Unhide and SetDesktop carry out window state changes the
// activation engine asks for.

func (r *Registry) Unminimize(w *Window) { w.Minimized = false }

func (r *Registry) Unhide(w *Window) { w.Hidden = false }

func (r *Registry) SetDesktop(w *Window, desktop int) {
	w.Desktop = desktop
	w.OnAllDesktops = false
}
