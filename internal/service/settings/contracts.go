package settings

import (
	"context"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	"github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	Create(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingSettings, error)
	GetByScope(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error)
	GetWithHierarchy(ctx context.Context, businessID int64, professionalID *int64, serviceID *int64) (*domain.BookingSettings, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingSettings, error)
	Update(ctx context.Context, id int64, settings *domain.BookingSettings) (*domain.BookingSettings, error)
	Delete(ctx context.Context, id int64) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetProfessionals(ctx context.Context, businessID int64) ([]*businessservice.Professional, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
