package activation

import "focus-warden/internal/wm"

// AttentionSet lists windows demanding attention, most recent first.
type AttentionSet struct {
	items []wm.Handle
}

// Remove reports whether h was present.
func (a *AttentionSet) Remove(h wm.Handle) bool {
	for i, e := range a.items {
		if e == h {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return true
		}
	}
	return false
}

// PushFront makes h the most recent entry.
func (a *AttentionSet) PushFront(h wm.Handle) {
	a.Remove(h)
	a.items = append([]wm.Handle{h}, a.items...)
}

func (a *AttentionSet) Front() wm.Handle {
	if len(a.items) == 0 {
		return wm.NoWindow
	}
	return a.items[0]
}

func (a *AttentionSet) Contains(h wm.Handle) bool {
	for _, e := range a.items {
		if e == h {
			return true
		}
	}
	return false
}

func (a *AttentionSet) Len() int { return len(a.items) }

func (a *AttentionSet) List() []wm.Handle {
	out := make([]wm.Handle, len(a.items))
	copy(out, a.items)
	return out
}
