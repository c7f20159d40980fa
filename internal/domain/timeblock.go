package domain

import "time"

// BlockType classifies an ad-hoc unavailability window
type BlockType string

const (
	BlockVacation    BlockType = "vacation"
	BlockHoliday     BlockType = "holiday"
	BlockPersonal    BlockType = "personal"
	BlockMaintenance BlockType = "maintenance"
	BlockEvent       BlockType = "event"
)

// TimeBlock is an ad-hoc unavailability window, distinct from the weekly
// schedule: vacations, maintenance, private events. A block without a
// professional reference applies to every professional of the business.
// Like an appointment it occupies the half-open interval [StartsAt, EndsAt).
type TimeBlock struct {
	ID             int64
	BusinessID     int64
	ProfessionalID *int64 // nil = whole business
	StartsAt       time.Time
	EndsAt         time.Time
	BlockType      BlockType
	Reason         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AppliesTo returns true if the block affects the given professional
func (b *TimeBlock) AppliesTo(professionalID int64) bool {
	return b.ProfessionalID == nil || *b.ProfessionalID == professionalID
}

// OverlapsDate returns true if the block touches the given calendar date
func (b *TimeBlock) OverlapsDate(date time.Time) bool {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return b.StartsAt.Before(dayEnd) && b.EndsAt.After(dayStart)
}
