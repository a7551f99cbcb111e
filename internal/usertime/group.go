package usertime

// Group aggregates the user time of all windows of one application,
// keyed by its leader.
type Group struct {
	Leader string
	time   Timestamp
}

func NewGroup(leader string) *Group {
	return &Group{Leader: leader, time: Unknown}
}

// Time returns the aggregated user time, or Unknown.
func (g *Group) Time() Timestamp {
	if g == nil {
		return Unknown
	}
	return g.time
}

// Merge raises the aggregated time to t when the group has no time yet or t
// is newer. CurrentTime is resolved from clock first; Unknown is ignored.
// It reports whether the time changed.
func (g *Group) Merge(t Timestamp, clock Clock) bool {
	if g == nil {
		return false
	}
	if t == CurrentTime {
		clock.Refresh()
		t = clock.Now()
	}
	return g.raise(t)
}

// MergeStartupNotification applies a timestamp reported by startup
// notification data for this group. A zero timestamp carries no information.
func (g *Group) MergeStartupNotification(t Timestamp) bool {
	if g == nil || t == CurrentTime {
		return false
	}
	return g.raise(t)
}

func (g *Group) raise(t Timestamp) bool {
	if t == Unknown || t == CurrentTime {
		return false
	}
	if g.time == Unknown || g.time == CurrentTime || Compare(t, g.time) > 0 {
		g.time = t
		return true
	}
	return false
}

// Groups is a leader-keyed set of groups.
type Groups struct {
	byLeader map[string]*Group
}

func NewGroups() *Groups {
	return &Groups{byLeader: make(map[string]*Group)}
}

// Get returns the group for leader, creating it on first use.
func (gs *Groups) Get(leader string) *Group {
	if g, ok := gs.byLeader[leader]; ok {
		return g
	}
	g := NewGroup(leader)
	gs.byLeader[leader] = g
	return g
}

// Lookup returns the group for leader if it is tracked.
func (gs *Groups) Lookup(leader string) (*Group, bool) {
	g, ok := gs.byLeader[leader]
	return g, ok
}

// Drop forgets a group.
func (gs *Groups) Drop(leader string) {
	delete(gs.byLeader, leader)
}

func (gs *Groups) Len() int {
	return len(gs.byLeader)
}
