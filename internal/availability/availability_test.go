package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func TestResolveFreeIntervals_ClosedBusiness(t *testing.T) {
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Closed: true},
		WorkingHours:  &ProfessionalDayHours{Start: ts("09:00"), End: ts("18:00")},
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestResolveFreeIntervals_DayOff(t *testing.T) {
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("09:00"), Close: ts("18:00")},
		WorkingHours:  nil,
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestResolveFreeIntervals_WindowIsIntersection(t *testing.T) {
	// Professional starts before the business opens and wants to work past
	// closing: the window is clipped on both sides.
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("09:00"), Close: ts("18:00")},
		WorkingHours:  &ProfessionalDayHours{Start: ts("08:00"), End: ts("20:00")},
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, 9*60, free[0].StartMinute)
	assert.Equal(t, 18*60, free[0].EndMinute)
}

func TestResolveFreeIntervals_BufferSubtractedOnceAtEnd(t *testing.T) {
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("09:00"), Close: ts("18:00")},
		WorkingHours:  &ProfessionalDayHours{Start: ts("09:00"), End: ts("18:00")},
		BufferMinutes: 30,
		Occupied: []domain.FreeInterval{
			{StartMinute: 10 * 60, EndMinute: 11 * 60},
		},
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	require.Len(t, free, 2)
	// The buffer shortens only the end of the day, not each appointment.
	assert.Equal(t, domain.FreeInterval{StartMinute: 9 * 60, EndMinute: 10 * 60}, free[0])
	assert.Equal(t, domain.FreeInterval{StartMinute: 11 * 60, EndMinute: 17*60 + 30}, free[1])
}

func TestResolveFreeIntervals_BufferConsumesWholeDay(t *testing.T) {
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("09:00"), Close: ts("10:00")},
		WorkingHours:  &ProfessionalDayHours{Start: ts("09:00"), End: ts("10:00")},
		BufferMinutes: 60,
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestResolveFreeIntervals_BreakSplitsDay(t *testing.T) {
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("09:00"), Close: ts("18:00")},
		WorkingHours: &ProfessionalDayHours{
			Start:      ts("09:00"),
			End:        ts("18:00"),
			BreakStart: tsPtr("13:00"),
			BreakEnd:   tsPtr("14:00"),
		},
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, domain.FreeInterval{StartMinute: 9 * 60, EndMinute: 13 * 60}, free[0])
	assert.Equal(t, domain.FreeInterval{StartMinute: 14 * 60, EndMinute: 18 * 60}, free[1])
}

func TestResolveFreeIntervals_AdjacentAppointmentsDoNotConflict(t *testing.T) {
	// Half-open semantics: one appointment ends at 11:00, the next starts at
	// 11:00. Between them nothing is free, but no minute is double-blocked.
	facts := DayFacts{
		BusinessHours: BusinessDayHours{Open: ts("10:00"), Close: ts("12:00")},
		WorkingHours:  &ProfessionalDayHours{Start: ts("10:00"), End: ts("12:00")},
		Occupied: []domain.FreeInterval{
			{StartMinute: 10 * 60, EndMinute: 11 * 60},
			{StartMinute: 11 * 60, EndMinute: 11*60 + 30},
		},
	}

	free, err := ResolveFreeIntervals(facts)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, domain.FreeInterval{StartMinute: 11*60 + 30, EndMinute: 12 * 60}, free[0])
}

func TestSubtract(t *testing.T) {
	base := []domain.FreeInterval{{StartMinute: 540, EndMinute: 1080}} // 09:00-18:00

	tests := []struct {
		name  string
		block domain.FreeInterval
		want  []domain.FreeInterval
	}{
		{
			name:  "middle split",
			block: domain.FreeInterval{StartMinute: 600, EndMinute: 660},
			want: []domain.FreeInterval{
				{StartMinute: 540, EndMinute: 600},
				{StartMinute: 660, EndMinute: 1080},
			},
		},
		{
			name:  "touching start boundary is no overlap",
			block: domain.FreeInterval{StartMinute: 480, EndMinute: 540},
			want:  base,
		},
		{
			name:  "touching end boundary is no overlap",
			block: domain.FreeInterval{StartMinute: 1080, EndMinute: 1140},
			want:  base,
		},
		{
			name:  "covers everything",
			block: domain.FreeInterval{StartMinute: 0, EndMinute: 1440},
			want:  []domain.FreeInterval{},
		},
		{
			name:  "clips left edge",
			block: domain.FreeInterval{StartMinute: 500, EndMinute: 600},
			want:  []domain.FreeInterval{{StartMinute: 600, EndMinute: 1080}},
		},
		{
			name:  "empty block is ignored",
			block: domain.FreeInterval{StartMinute: 600, EndMinute: 600},
			want:  base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtract(base, tt.block)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindContaining(t *testing.T) {
	free := []domain.FreeInterval{
		{StartMinute: 540, EndMinute: 600},
		{StartMinute: 660, EndMinute: 1080},
	}

	interval, ok := FindContaining(free, 550)
	require.True(t, ok)
	assert.Equal(t, free[0], interval)

	// End boundary is exclusive
	_, ok = FindContaining(free, 600)
	assert.False(t, ok)

	_, ok = FindContaining(free, 630)
	assert.False(t, ok)
}

func TestSlotStarts(t *testing.T) {
	interval := domain.FreeInterval{StartMinute: 540, EndMinute: 660} // 09:00-11:00

	// 60-minute service at 30-minute step: last viable start is 10:00.
	starts := SlotStarts(interval, 30, 60)
	assert.Equal(t, []int{540, 570, 600}, starts)

	// Service longer than the interval yields nothing.
	starts = SlotStarts(interval, 30, 180)
	assert.Empty(t, starts)

	// Degenerate step guards.
	assert.Nil(t, SlotStarts(interval, 0, 60))
	assert.Nil(t, SlotStarts(interval, 30, 0))
}

func TestFits(t *testing.T) {
	free := []domain.FreeInterval{
		{StartMinute: 540, EndMinute: 660},
		{StartMinute: 720, EndMinute: 780},
	}

	assert.True(t, Fits(free, 540, 120))  // exactly fills the first interval
	assert.False(t, Fits(free, 600, 90))  // spills past 11:00
	assert.True(t, Fits(free, 720, 60))   // second interval
	assert.False(t, Fits(free, 660, 30))  // inside the gap
	assert.False(t, Fits(free, 700, 120)) // straddles two intervals
}

func TestClipToDate(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// Block fully inside the day.
	interval, ok := ClipToDate(
		time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
		date,
	)
	require.True(t, ok)
	assert.Equal(t, domain.FreeInterval{StartMinute: 13 * 60, EndMinute: 15*60 + 30}, interval)

	// Multi-day vacation covering the date blocks the whole day.
	interval, ok = ClipToDate(
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		date,
	)
	require.True(t, ok)
	assert.Equal(t, domain.FreeInterval{StartMinute: 0, EndMinute: 24 * 60}, interval)

	// Block ending exactly at midnight of the date does not touch it.
	_, ok = ClipToDate(
		time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		date,
	)
	assert.False(t, ok)
}

func TestOccupiedFromAppointments_SkipsInactive(t *testing.T) {
	appointments := []*domain.Appointment{
		{StartTime: ts("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
		{StartTime: ts("11:00"), DurationMinutes: 60, Status: domain.StatusCancelledByClient},
		{StartTime: ts("12:00"), DurationMinutes: 30, Status: domain.StatusNoShow},
		{StartTime: ts("13:00"), DurationMinutes: 45, Status: domain.StatusPending},
	}

	occupied, err := OccupiedFromAppointments(appointments)
	require.NoError(t, err)
	require.Len(t, occupied, 2)
	assert.Equal(t, domain.FreeInterval{StartMinute: 600, EndMinute: 660}, occupied[0])
	assert.Equal(t, domain.FreeInterval{StartMinute: 780, EndMinute: 825}, occupied[1])
}

func TestOccupiedFromBlocks_FiltersProfessional(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	otherID := int64(99)

	blocks := []*domain.TimeBlock{
		{
			// Business-wide block applies to everyone.
			StartsAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			// Someone else's personal block.
			ProfessionalID: &otherID,
			StartsAt:       time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
			EndsAt:         time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			// A block on another date.
			StartsAt: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC),
		},
	}

	occupied := OccupiedFromBlocks(blocks, 7, date)
	require.Len(t, occupied, 1)
	assert.Equal(t, domain.FreeInterval{StartMinute: 540, EndMinute: 600}, occupied[0])
}
