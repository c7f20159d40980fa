package availability

import (
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// BuildDayFacts assembles the constraint sources for one professional on one
// date from BusinessService master data and the day's occupancy rows.
//
// Appointments must already belong to the professional; time blocks are
// filtered here (a block without a professional applies to everyone).
func BuildDayFacts(
	business *businessservice.Business,
	professional *businessservice.Professional,
	date time.Time,
	appointments []*domain.Appointment,
	blocks []*domain.TimeBlock,
) (DayFacts, error) {
	weekday := date.Weekday()
	schedule := business.ScheduleFor(weekday)

	facts := DayFacts{
		BusinessHours: BusinessDayHours{Closed: !schedule.IsOpen},
		BufferMinutes: professional.EffectiveBufferMinutes(business.DefaultBufferMinutes, domain.DefaultBufferMinutes),
	}

	if schedule.IsOpen && schedule.OpenTime != nil && schedule.CloseTime != nil {
		open, err := types.NewTimeStringFromString(*schedule.OpenTime)
		if err != nil {
			return DayFacts{}, err
		}
		close, err := types.NewTimeStringFromString(*schedule.CloseTime)
		if err != nil {
			return DayFacts{}, err
		}
		facts.BusinessHours.Open = open
		facts.BusinessHours.Close = close
	} else {
		facts.BusinessHours.Closed = true
	}

	if day := professional.AvailabilityFor(weekday); day != nil {
		hours, err := professionalHours(day)
		if err != nil {
			return DayFacts{}, err
		}
		facts.WorkingHours = hours
	}

	occupied, err := OccupiedFromAppointments(appointments)
	if err != nil {
		return DayFacts{}, err
	}
	occupied = append(occupied, OccupiedFromBlocks(blocks, professional.ID, date)...)
	facts.Occupied = occupied

	return facts, nil
}

// OccupiedFromAppointments converts active appointments to occupied minute
// intervals. Cancelled and no-show appointments are skipped.
func OccupiedFromAppointments(appointments []*domain.Appointment) ([]domain.FreeInterval, error) {
	occupied := make([]domain.FreeInterval, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		start, err := appt.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		occupied = append(occupied, domain.FreeInterval{
			StartMinute: start,
			EndMinute:   start + appt.DurationMinutes,
		})
	}
	return occupied, nil
}

// OccupiedFromBlocks converts the time blocks affecting a professional to
// occupied minute intervals, clipped to the date.
func OccupiedFromBlocks(blocks []*domain.TimeBlock, professionalID int64, date time.Time) []domain.FreeInterval {
	var occupied []domain.FreeInterval
	for _, block := range blocks {
		if !block.AppliesTo(professionalID) {
			continue
		}
		if interval, ok := ClipToDate(block.StartsAt, block.EndsAt, date); ok {
			occupied = append(occupied, interval)
		}
	}
	return occupied
}

func professionalHours(day *businessservice.DayAvailability) (*ProfessionalDayHours, error) {
	start, err := types.NewTimeStringFromString(day.Start)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(day.End)
	if err != nil {
		return nil, err
	}

	hours := &ProfessionalDayHours{Start: start, End: end}

	if day.BreakStart != nil && day.BreakEnd != nil {
		breakStart, err := types.NewTimeStringFromString(*day.BreakStart)
		if err != nil {
			return nil, err
		}
		breakEnd, err := types.NewTimeStringFromString(*day.BreakEnd)
		if err != nil {
			return nil, err
		}
		hours.BreakStart = &breakStart
		hours.BreakEnd = &breakEnd
	}

	return hours, nil
}
