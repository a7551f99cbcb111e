package usertime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Timestamp
		want int
	}{
		{"equal", 100, 100, 0},
		{"newer", 200, 100, 1},
		{"older", 100, 200, -1},
		{"after wrap", 5, 0xFFFFFFF0, 1},
		{"before wrap", 0xFFFFFFF0, 5, -1},
		{"half range apart reads as older", 0x80000000, 0, -1},
		{"just under half range", 0x7FFFFFFF, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	values := []Timestamp{0, 1, 5, 1000, 0x7FFFFFFE, 0x80000001, 0xFFFFFFF0, 0xFFFFFFFE}
	for _, a := range values {
		for _, b := range values {
			if uint32(a-b) == 0x80000000 {
				continue
			}
			assert.Equal(t, -Compare(b, a), Compare(a, b), "a=%d b=%d", a, b)
		}
	}
}

func TestTimestampAddWraps(t *testing.T) {
	assert.Equal(t, Timestamp(4), Timestamp(0xFFFFFFFE).Add(6))
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "current", CurrentTime.String())
	assert.Equal(t, "42", Timestamp(42).String())
}

func TestGroupMergeMonotonic(t *testing.T) {
	clock := NewManualClock(1000)
	g := NewGroup("leader")
	require.Equal(t, Unknown, g.Time())

	seq := []Timestamp{500, 400, 0xFFFFFFF0, 3, 2, Unknown, 10}
	prev := g.Time()
	for _, ts := range seq {
		g.Merge(ts, clock)
		if prev != Unknown {
			assert.GreaterOrEqual(t, Compare(g.Time(), prev), 0, "merge of %v lowered time", ts)
		}
		prev = g.Time()
	}
	// Every value after 500 sorts before it on the wrapping counter.
	assert.Equal(t, Timestamp(500), g.Time())
}

func TestGroupMergeAcrossWraparound(t *testing.T) {
	clock := NewManualClock(1)
	g := NewGroup("leader")
	require.True(t, g.Merge(0xFFFFFFF0, clock))
	assert.True(t, g.Merge(5, clock), "5 follows 0xFFFFFFF0 after wrap")
	assert.Equal(t, Timestamp(5), g.Time())
	assert.False(t, g.Merge(0xFFFFFFF8, clock))
}

func TestGroupMergeCurrentTimeUsesClock(t *testing.T) {
	clock := NewManualClock(7000)
	g := NewGroup("leader")
	assert.True(t, g.Merge(CurrentTime, clock))
	assert.Equal(t, Timestamp(7000), g.Time())
	assert.Equal(t, 1, clock.Refreshes())
}

func TestGroupMergeStartupNotification(t *testing.T) {
	clock := NewManualClock(1)
	g := NewGroup("leader")
	assert.False(t, g.MergeStartupNotification(CurrentTime))
	assert.True(t, g.MergeStartupNotification(300))
	assert.False(t, g.MergeStartupNotification(200))
	g.Merge(400, clock)
	assert.True(t, g.MergeStartupNotification(450))
	assert.Equal(t, Timestamp(450), g.Time())
}

func TestNilGroup(t *testing.T) {
	var g *Group
	assert.Equal(t, Unknown, g.Time())
	assert.False(t, g.Merge(5, NewManualClock(1)))
}

func TestGroups(t *testing.T) {
	gs := NewGroups()
	a := gs.Get("a")
	assert.Same(t, a, gs.Get("a"))
	_, ok := gs.Lookup("b")
	assert.False(t, ok)
	gs.Drop("a")
	assert.Equal(t, 0, gs.Len())
}

func TestSystemClockSkipsSentinels(t *testing.T) {
	assert.Equal(t, Timestamp(1), fromMillis(0))
	assert.Equal(t, Timestamp(1), fromMillis(0xFFFFFFFF))
	c := NewSystemClock()
	assert.NotEqual(t, CurrentTime, c.Now())
}
