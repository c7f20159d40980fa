package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// BusinessDayHours is the business operating window for one weekday.
type BusinessDayHours struct {
	Open   types.TimeString
	Close  types.TimeString
	Closed bool
}

// ProfessionalDayHours is a professional's working window for one weekday,
// with an optional break. The absence of a value (nil pointer at the call
// site) is the day-off signal: no row means the professional does not work
// that day.
type ProfessionalDayHours struct {
	Start      types.TimeString
	End        types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// DayFacts bundles every constraint source for one professional on one date.
type DayFacts struct {
	BusinessHours BusinessDayHours
	WorkingHours  *ProfessionalDayHours // nil = day off
	BufferMinutes int
	// Occupied holds appointment and time-block intervals already clipped to
	// the day, in minutes since midnight, half-open.
	Occupied []domain.FreeInterval
}

// ResolveFreeIntervals computes the ordered free intervals for one
// professional on one date.
//
// The nominal window is the professional's hours intersected with business
// hours on both sides. The buffer is subtracted once from the window end: the
// last minute a service may start plus its trailing buffer never passes
// closing. Breaks and occupied intervals are then removed with half-open
// semantics, so an appointment ending exactly where a window starts does not
// conflict.
func ResolveFreeIntervals(facts DayFacts) ([]domain.FreeInterval, error) {
	if facts.BusinessHours.Closed {
		return []domain.FreeInterval{}, nil
	}
	if facts.BusinessHours.Open.IsZero() || facts.BusinessHours.Close.IsZero() {
		return []domain.FreeInterval{}, nil
	}
	if facts.WorkingHours == nil {
		return []domain.FreeInterval{}, nil
	}

	bizOpen, err := facts.BusinessHours.Open.Minutes()
	if err != nil {
		return nil, err
	}
	bizClose, err := facts.BusinessHours.Close.Minutes()
	if err != nil {
		return nil, err
	}
	profStart, err := facts.WorkingHours.Start.Minutes()
	if err != nil {
		return nil, err
	}
	profEnd, err := facts.WorkingHours.End.Minutes()
	if err != nil {
		return nil, err
	}

	start := profStart
	if bizOpen > start {
		start = bizOpen
	}
	end := profEnd
	if bizClose < end {
		end = bizClose
	}

	// Single end-of-day buffer subtraction. Deliberately not applied after
	// each individual appointment.
	effectiveEnd := end - facts.BufferMinutes
	if effectiveEnd <= start {
		return []domain.FreeInterval{}, nil
	}

	free := []domain.FreeInterval{{StartMinute: start, EndMinute: effectiveEnd}}

	if facts.WorkingHours.BreakStart != nil && facts.WorkingHours.BreakEnd != nil {
		breakStart, err := facts.WorkingHours.BreakStart.Minutes()
		if err != nil {
			return nil, err
		}
		breakEnd, err := facts.WorkingHours.BreakEnd.Minutes()
		if err != nil {
			return nil, err
		}
		free = Subtract(free, domain.FreeInterval{StartMinute: breakStart, EndMinute: breakEnd})
	}

	for _, occupied := range facts.Occupied {
		free = Subtract(free, occupied)
	}

	sort.Slice(free, func(i, j int) bool {
		return free[i].StartMinute < free[j].StartMinute
	})

	return free, nil
}

// Subtract removes a half-open interval from an ordered set of free intervals.
func Subtract(free []domain.FreeInterval, block domain.FreeInterval) []domain.FreeInterval {
	if block.IsEmpty() {
		return free
	}

	result := make([]domain.FreeInterval, 0, len(free)+1)
	for _, interval := range free {
		// No overlap: the block starts at or after the interval end, or ends
		// at or before the interval start.
		if block.StartMinute >= interval.EndMinute || block.EndMinute <= interval.StartMinute {
			result = append(result, interval)
			continue
		}
		if left := (domain.FreeInterval{StartMinute: interval.StartMinute, EndMinute: block.StartMinute}); !left.IsEmpty() {
			result = append(result, left)
		}
		if right := (domain.FreeInterval{StartMinute: block.EndMinute, EndMinute: interval.EndMinute}); !right.IsEmpty() {
			result = append(result, right)
		}
	}
	return result
}

// FindContaining returns the free interval containing the given minute.
func FindContaining(free []domain.FreeInterval, minute int) (domain.FreeInterval, bool) {
	for _, interval := range free {
		if interval.Contains(minute) {
			return interval, true
		}
	}
	return domain.FreeInterval{}, false
}

// SlotStarts discretizes a free interval into candidate start minutes at a
// fixed step, keeping only starts where the whole service still fits.
func SlotStarts(interval domain.FreeInterval, stepMinutes, durationMinutes int) []int {
	if stepMinutes <= 0 || durationMinutes <= 0 {
		return nil
	}
	var starts []int
	for candidate := interval.StartMinute; candidate+durationMinutes <= interval.EndMinute; candidate += stepMinutes {
		starts = append(starts, candidate)
	}
	return starts
}

// Fits reports whether a service of the given duration starting at
// startMinute lies entirely inside one of the free intervals.
func Fits(free []domain.FreeInterval, startMinute, durationMinutes int) bool {
	for _, interval := range free {
		if startMinute >= interval.StartMinute && startMinute+durationMinutes <= interval.EndMinute {
			return true
		}
	}
	return false
}

// ClipToDate converts an absolute timestamp interval to minutes since
// midnight of the given date, clipping to the day's bounds. The second return
// is false when the interval does not touch the date at all.
func ClipToDate(startsAt, endsAt time.Time, date time.Time) (domain.FreeInterval, bool) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	if !startsAt.Before(dayEnd) || !endsAt.After(dayStart) {
		return domain.FreeInterval{}, false
	}

	startMinute := 0
	if startsAt.After(dayStart) {
		startMinute = startsAt.Hour()*60 + startsAt.Minute()
	}
	endMinute := 24 * 60
	if endsAt.Before(dayEnd) {
		endMinute = endsAt.Hour()*60 + endsAt.Minute()
	}

	return domain.FreeInterval{StartMinute: startMinute, EndMinute: endMinute}, true
}
