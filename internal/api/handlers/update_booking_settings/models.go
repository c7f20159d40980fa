package update_booking_settings

import (
	"github.com/m04kA/SBS-AvailabilityService/internal/service/settings/models"
)

// UpdateBookingSettingsRequest HTTP request model
type UpdateBookingSettingsRequest struct {
	ProfessionalID          *int64 `json:"professionalId,omitempty"` // NULL = для всех мастеров
	ServiceID               *int64 `json:"serviceId,omitempty"`      // NULL = для всех услуг
	SlotStepMinutes         int    `json:"slotStepMinutes"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// UserID берется из контекста авторизации
func (r *UpdateBookingSettingsRequest) ToServiceRequest(businessID, userID int64) *models.CreateSettingsRequest {
	return &models.CreateSettingsRequest{
		UserID:                  userID,
		BusinessID:              businessID,
		ProfessionalID:          r.ProfessionalID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
	}
}
