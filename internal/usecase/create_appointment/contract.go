package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// Create создает новую запись
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)

	// GetByBusinessWithFilter получает записи бизнеса;
	// внутри транзакции с фильтром по дате берет блокировку FOR UPDATE
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error)
}

// TimeBlockRepository интерфейс репозитория блокировок времени
type TimeBlockRepository interface {
	// GetOverlappingDate получает блокировки, затрагивающие календарную дату
	GetOverlappingDate(ctx context.Context, businessID int64, professionalID *int64, date time.Time) ([]*domain.TimeBlock, error)
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	// GetWithHierarchy получает настройки с учетом иерархии:
	// мастер+услуга -> мастер -> услуга -> бизнес
	GetWithHierarchy(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetProfessionals(ctx context.Context, businessID int64) ([]*businessservice.Professional, error)
	GetServices(ctx context.Context, businessID int64) ([]*businessservice.Service, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	// DoSerializable выполняет функцию в транзакции SERIALIZABLE
	// с повторами при конфликте сериализации
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
