// Package focuschain keeps per-desktop focus recency lists.
package focuschain

import (
	"sort"

	"focus-warden/internal/wm"
)

// Usable reports whether a chain entry may receive focus right now.
type Usable func(h wm.Handle) bool

// Chain holds, for each desktop, the windows focused there with the most
// recent first. A window appears at most once per desktop, and only in the
// lists of desktops it is on.
type Chain struct {
	desktops map[int][]wm.Handle
	// count is the number of desktops the chain knows about.
	count int
}

func New() *Chain {
	return &Chain{desktops: make(map[int][]wm.Handle)}
}

// MoveToFront makes h the most recent entry of desktop.
func (c *Chain) MoveToFront(h wm.Handle, desktop int) {
	list := remove(c.desktops[desktop], h)
	list = append(list, wm.NoWindow)
	copy(list[1:], list)
	list[0] = h
	c.desktops[desktop] = list
}

// Insert adds h to desktop without making it the most recent. It goes right
// after the current front entry, or to the front of an empty list. Existing
// entries stay where they are.
func (c *Chain) Insert(h wm.Handle, desktop int) {
	list := c.desktops[desktop]
	if contains(list, h) {
		return
	}
	if len(list) == 0 {
		c.desktops[desktop] = []wm.Handle{h}
		return
	}
	list = append(list, wm.NoWindow)
	copy(list[2:], list[1:])
	list[1] = h
	c.desktops[desktop] = list
}

// Update places h in the lists of the desktops it is on and drops it from
// the others. A window on all desktops is added to every list; with first
// it becomes the most recent entry of current only. A window on a single
// desktop becomes the most recent entry there with first, and is inserted
// otherwise.
func (c *Chain) Update(h wm.Handle, desktop int, onAll bool, current int, first bool) {
	if onAll {
		for _, d := range c.known(current) {
			if first && d == current {
				c.MoveToFront(h, d)
			} else {
				c.Insert(h, d)
			}
		}
		return
	}
	for d := range c.desktops {
		if d != desktop {
			c.RemoveFrom(h, d)
		}
	}
	if first {
		c.MoveToFront(h, desktop)
	} else {
		c.Insert(h, desktop)
	}
}

// Resize grows the chain to count desktops. The list of a new desktop
// receives the windows on all desktops in the order they have on from, or
// on desktop 1 when from is new itself.
func (c *Chain) Resize(count, from int, onAll func(wm.Handle) bool) {
	if from > c.count {
		from = 1
	}
	src := append([]wm.Handle(nil), c.desktops[from]...)
	for d := c.count + 1; d <= count; d++ {
		list := c.desktops[d]
		for _, h := range src {
			if onAll(h) && !contains(list, h) {
				list = append(list, h)
			}
		}
		c.desktops[d] = list
	}
	if count > c.count {
		c.count = count
	}
}

// Desktops returns the number of desktops the chain knows about.
func (c *Chain) Desktops() int { return c.count }

// known lists desktops 1 to count together with every desktop that has a
// list, and extra.
func (c *Chain) known(extra int) []int {
	seen := make(map[int]bool)
	var out []int
	add := func(d int) {
		if d >= 1 && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for d := 1; d <= c.count; d++ {
		add(d)
	}
	for d := range c.desktops {
		add(d)
	}
	add(extra)
	sort.Ints(out)
	return out
}

// Remove drops h from every desktop.
func (c *Chain) Remove(h wm.Handle) {
	for d, list := range c.desktops {
		c.desktops[d] = remove(list, h)
	}
}

// RemoveFrom drops h from one desktop.
func (c *Chain) RemoveFrom(h wm.Handle, desktop int) {
	c.desktops[desktop] = remove(c.desktops[desktop], h)
}

func (c *Chain) Contains(h wm.Handle, desktop int) bool {
	return contains(c.desktops[desktop], h)
}

// List returns a copy of the entries of desktop, most recent first.
func (c *Chain) List(desktop int) []wm.Handle {
	out := make([]wm.Handle, len(c.desktops[desktop]))
	copy(out, c.desktops[desktop])
	return out
}

// NextForDesktop returns the most recent usable entry of desktop other than
// excluding.
func (c *Chain) NextForDesktop(excluding wm.Handle, desktop int, usable Usable) wm.Handle {
	for _, h := range c.desktops[desktop] {
		if h != excluding && usable(h) {
			return h
		}
	}
	return wm.NoWindow
}

// BestForActivation returns the most recent usable entry of desktop whose
// screen matches. A negative screen matches any.
func (c *Chain) BestForActivation(desktop, screen int, usable Usable, screenOf func(wm.Handle) int) wm.Handle {
	for _, h := range c.desktops[desktop] {
		if !usable(h) {
			continue
		}
		if screen >= 0 && screenOf(h) != screen {
			continue
		}
		return h
	}
	return wm.NoWindow
}

func contains(list []wm.Handle, h wm.Handle) bool {
	for _, e := range list {
		if e == h {
			return true
		}
	}
	return false
}

func remove(list []wm.Handle, h wm.Handle) []wm.Handle {
	for i, e := range list {
		if e == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
