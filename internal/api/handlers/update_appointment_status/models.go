package update_appointment_status

import (
	"github.com/m04kA/SBS-AvailabilityService/internal/service/appointments/models"
)

// UpdateAppointmentStatusRequest HTTP request model
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// UserID берется из контекста авторизации
func (r *UpdateAppointmentStatusRequest) ToServiceRequest(userID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: userID,
		Status: r.Status,
	}
}
