package domain

import "time"

// BookingSettings represents the booking configuration for a business.
// Supports hierarchical configuration:
// 1. Service with specific professional (business_id, professional_id, service_id)
// 2. Professional-wide (business_id, professional_id, NULL)
// 3. Service-wide (business_id, NULL, service_id)
// 4. Business-wide (business_id, NULL, NULL)
type BookingSettings struct {
	ID                      int64
	BusinessID              int64
	ProfessionalID          *int64 // NULL = settings for all professionals
	ServiceID               *int64 // NULL = settings for all services
	SlotStepMinutes         int
	MinBookingNoticeMinutes int
	AdvanceBookingDays      int // 0 = unlimited
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsGlobal returns true if these are the business-wide settings
func (s *BookingSettings) IsGlobal() bool {
	return s.ProfessionalID == nil && s.ServiceID == nil
}

// IsProfessionalSpecific returns true if the settings target a specific professional
func (s *BookingSettings) IsProfessionalSpecific() bool {
	return s.ProfessionalID != nil && s.ServiceID == nil
}

// IsServiceSpecific returns true if the settings target a specific service
func (s *BookingSettings) IsServiceSpecific() bool {
	return s.ProfessionalID == nil && s.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (s *BookingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}
