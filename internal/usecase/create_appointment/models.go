package create_appointment

import (
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID     int64
	ProfessionalID int64
	ServiceID      int64
	ClientID       int64

	Date      time.Time        // Дата записи
	StartTime types.TimeString // Время начала "HH:MM"

	CustomerName  string
	CustomerPhone string
	Notes         *string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
