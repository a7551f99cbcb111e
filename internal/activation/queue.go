package activation

import "focus-warden/internal/wm"

// Queue holds windows that were asked to take focus and have not reported
// it yet, oldest first.
type Queue struct {
	items []wm.Handle
}

func (q *Queue) Push(h wm.Handle) {
	q.items = append(q.items, h)
}

func (q *Queue) Len() int { return len(q.items) }

// Back returns the most recent request, or wm.NoWindow.
func (q *Queue) Back() wm.Handle {
	if len(q.items) == 0 {
		return wm.NoWindow
	}
	return q.items[len(q.items)-1]
}

func (q *Queue) Contains(h wm.Handle) bool {
	for _, e := range q.items {
		if e == h {
			return true
		}
	}
	return false
}

// Remove drops every entry for h.
func (q *Queue) Remove(h wm.Handle) {
	out := q.items[:0]
	for _, e := range q.items {
		if e != h {
			out = append(out, e)
		}
	}
	q.items = out
}

// Confirm records that h received focus. The first entry for h and every
// older entry are dropped; the older ones will never be confirmed. It
// reports false when h was not pending.
func (q *Queue) Confirm(h wm.Handle) bool {
	for i, e := range q.items {
		if e == h {
			q.items = append(q.items[:0], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops entries whose window is gone.
func (q *Queue) Prune(alive func(wm.Handle) bool) {
	out := q.items[:0]
	for _, e := range q.items {
		if alive(e) {
			out = append(out, e)
		}
	}
	q.items = out
}

func (q *Queue) List() []wm.Handle {
	out := make([]wm.Handle, len(q.items))
	copy(out, q.items)
	return out
}
