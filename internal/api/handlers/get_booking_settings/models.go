package get_booking_settings

import (
	"strconv"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/internal/service/settings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(businessID int64, professionalIDStr, serviceIDStr string) (*models.GetSettingsRequest, error) {
	req := &models.GetSettingsRequest{
		BusinessID: businessID,
	}

	if professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &professionalID
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}

// GetDefaultSettingsResponse возвращает дефолтные настройки,
// когда в БД нет ни одной строки для бизнеса
func GetDefaultSettingsResponse(businessID int64) *models.SettingsResponse {
	return &models.SettingsResponse{
		BusinessID:              businessID,
		SlotStepMinutes:         domain.DefaultSlotStepMinutes,
		MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
	}
}
