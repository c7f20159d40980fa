package get_booking_settings

import (
	"context"

	"github.com/m04kA/SBS-AvailabilityService/internal/service/settings/models"
)

type SettingsService interface {
	GetWithHierarchy(ctx context.Context, req *models.GetSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
