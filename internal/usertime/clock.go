package usertime

import (
	"sync"
	"time"
)

// Clock is the authoritative source of timestamps.
type Clock interface {
	Now() Timestamp
	// Refresh resynchronises the clock with its source. Events without a
	// usable timestamp call it before comparing times.
	Refresh()
}

// SystemClock derives timestamps from the monotonic clock, counting
// milliseconds since an epoch and wrapping at 32 bits.
type SystemClock struct {
	mu    sync.Mutex
	epoch time.Time
	last  Timestamp
}

func NewSystemClock() *SystemClock {
	c := &SystemClock{epoch: time.Now()}
	c.Refresh()
	return c
}

func (c *SystemClock) Now() Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *SystemClock) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = fromMillis(time.Since(c.epoch).Milliseconds() + 1)
}

// fromMillis skips the two sentinel values so a live reading is never
// mistaken for CurrentTime or Unknown.
func fromMillis(ms int64) Timestamp {
	t := Timestamp(uint32(ms))
	if t == CurrentTime || t == Unknown {
		t = 1
	}
	return t
}

// ManualClock is a settable clock.
type ManualClock struct {
	mu        sync.Mutex
	now       Timestamp
	refreshes int
}

func NewManualClock(start Timestamp) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshes++
}

// Set moves the clock to t.
func (c *ManualClock) Set(t Timestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(ms)
}

// Refreshes reports how many times Refresh was called.
func (c *ManualClock) Refreshes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshes
}
