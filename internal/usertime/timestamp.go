package usertime

import "strconv"

// Timestamp is a wrapping millisecond counter, as carried by X11 events.
type Timestamp uint32

const (
	// CurrentTime asks for the live clock when updating a user time. As a
	// requested activation time it means the client does not want focus.
	CurrentTime Timestamp = 0
	// Unknown marks a missing timestamp.
	Unknown Timestamp = 0xFFFFFFFF
)

// Compare orders a and b on the wrapping counter. The difference is taken in
// 32 bits and read as signed, so values less than half the range apart
// compare the way they were produced, across a wraparound.
func Compare(a, b Timestamp) int {
	d := int32(a - b)
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

// Add returns t advanced by ms milliseconds, wrapping.
func (t Timestamp) Add(ms int64) Timestamp {
	return t + Timestamp(uint32(ms))
}

func (t Timestamp) String() string {
	switch t {
	case Unknown:
		return "unknown"
	case CurrentTime:
		return "current"
	}
	return strconv.FormatUint(uint64(t), 10)
}
