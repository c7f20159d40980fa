package domain

// FreeInterval is a derived, never persisted span of contiguous free time for
// one professional on one date, expressed in minutes since midnight.
// The interval is half-open: [StartMinute, EndMinute).
type FreeInterval struct {
	StartMinute int
	EndMinute   int
}

// DurationMinutes returns the length of the interval
func (i FreeInterval) DurationMinutes() int {
	return i.EndMinute - i.StartMinute
}

// Contains returns true if the given minute falls inside the interval
func (i FreeInterval) Contains(minute int) bool {
	return minute >= i.StartMinute && minute < i.EndMinute
}

// IsEmpty returns true for a zero-length or inverted interval
func (i FreeInterval) IsEmpty() bool {
	return i.EndMinute <= i.StartMinute
}

// DaySlot is a single bookable start time within a day, paired with its
// availability flag for UI consumption.
type DaySlot struct {
	Time      string // "HH:MM"
	Available bool
}
