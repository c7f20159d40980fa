package update_payment_status

import (
	"github.com/m04kA/SBS-AvailabilityService/internal/service/appointments/models"
)

// UpdatePaymentStatusRequest HTTP request model
// Статус оплаты выставляется менеджером по данным внешнего платежного сервиса
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// UserID берется из контекста авторизации
func (r *UpdatePaymentStatusRequest) ToServiceRequest(userID int64) *models.UpdatePaymentStatusRequest {
	return &models.UpdatePaymentStatusRequest{
		UserID:        userID,
		PaymentStatus: r.PaymentStatus,
	}
}
