package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/availability"
	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	bsClient "github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	settingsStorage "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/settings"
	"github.com/m04kA/SBS-AvailabilityService/pkg/ptr"
)

// UseCase use case создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeBlockRepo   TimeBlockRepository
	settingsRepo    SettingsRepository
	businessClient  BusinessServiceClient
	txManager       TxManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	settingsRepo SettingsRepository,
	businessClient BusinessServiceClient,
	txManager TxManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeBlockRepo:   timeBlockRepo,
		settingsRepo:    settingsRepo,
		businessClient:  businessClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
//
// Проверка занятости и вставка выполняются в одной SERIALIZABLE транзакции
// с блокировкой записей дня через FOR UPDATE: две конкурирующие брони на
// один слот не могут пройти обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, professional=%d, service=%d, client=%d, date=%s, time=%s",
		req.BusinessID, req.ProfessionalID, req.ServiceID, req.ClientID,
		req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Находим услугу
	services, err := uc.businessClient.GetServices(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get services for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	service := findService(services, req.ServiceID)
	if service == nil || !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 4. Находим мастера и проверяем, что он оказывает услугу
	professionals, err := uc.businessClient.GetProfessionals(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get professionals for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
	}

	professional := findProfessional(professionals, req.ProfessionalID)
	if professional == nil || !professional.IsActive {
		uc.logger.Warn("CreateAppointment: professional id=%d not found in business id=%d", req.ProfessionalID, req.BusinessID)
		return nil, ErrProfessionalNotFound
	}

	if !service.OfferedBy(professional.ID, isUnrestricted(services)) {
		uc.logger.Warn("CreateAppointment: professional id=%d does not offer service id=%d", req.ProfessionalID, req.ServiceID)
		return nil, ErrProfessionalNotFound
	}

	// 5. Проверяем временные ограничения настроек бронирования
	startMinute, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := uc.checkBookingWindow(ctx, req, startMinute); err != nil {
		return nil, err
	}

	// 6. Проверка занятости и вставка в одной SERIALIZABLE транзакции
	appointment := uc.buildAppointment(req, service)

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем записи дня под FOR UPDATE
		filter := domain.BusinessAppointmentsFilter{
			BusinessID:      req.BusinessID,
			ProfessionalID:  ptr.Ptr(req.ProfessionalID),
			StartDate:       ptr.Ptr(req.Date),
			EndDate:         ptr.Ptr(req.Date),
			IncludeInactive: false,
		}

		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		blocks, err := uc.timeBlockRepo.GetOverlappingDate(txCtx, req.BusinessID, nil, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
		}

		facts, err := availability.BuildDayFacts(business, professional, req.Date, appointments, blocks)
		if err != nil {
			return fmt.Errorf("%w: failed to build day facts: %v", ErrInternal, err)
		}

		free, err := availability.ResolveFreeIntervals(facts)
		if err != nil {
			return fmt.Errorf("%w: failed to resolve free intervals: %v", ErrInternal, err)
		}

		if !availability.Fits(free, startMinute, service.DurationMinutes) {
			return ErrSlotUnavailable
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			uc.logger.Warn("CreateAppointment: slot %s %s is unavailable for professional id=%d",
				req.Date.Format(domain.DateFormat), req.StartTime, req.ProfessionalID)
			return nil, ErrSlotUnavailable
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateAppointment: %v", err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d for professional id=%d on %s %s",
		created.ID, req.ProfessionalID, req.Date.Format(domain.DateFormat), req.StartTime)

	return &Response{Appointment: created}, nil
}

// checkBookingWindow проверяет минимальное уведомление заранее
// и лимит глубины бронирования
func (uc *UseCase) checkBookingWindow(ctx context.Context, req *Request, startMinute int) error {
	settings := uc.resolveSettings(ctx, req.BusinessID, req.ProfessionalID, req.ServiceID)

	now := uc.timeProvider.Now()
	today := startOfDay(now)
	date := startOfDay(req.Date)

	if date.Before(today) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return ErrTooEarly
	}

	if date.Equal(today) {
		nowMinutes := now.Hour()*60 + now.Minute()
		if startMinute < nowMinutes+settings.MinBookingNoticeMinutes {
			uc.logger.Warn("CreateAppointment: start %s violates notice of %d minutes",
				req.StartTime, settings.MinBookingNoticeMinutes)
			return ErrTooEarly
		}
	}

	if settings.HasAdvanceBookingLimit() {
		limit := today.AddDate(0, 0, settings.AdvanceBookingDays)
		if date.After(limit) {
			uc.logger.Warn("CreateAppointment: date %s exceeds advance limit of %d days",
				req.Date.Format(domain.DateFormat), settings.AdvanceBookingDays)
			return ErrTooFarAhead
		}
	}

	return nil
}

// resolveSettings получает настройки бронирования по иерархии,
// при их отсутствии возвращает дефолты
func (uc *UseCase) resolveSettings(ctx context.Context, businessID, professionalID, serviceID int64) *domain.BookingSettings {
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, businessID, &professionalID, &serviceID)
	if err != nil {
		if !errors.Is(err, settingsStorage.ErrSettingsNotFound) {
			uc.logger.Warn("CreateAppointment: failed to get settings for business id=%d: %v, using defaults", businessID, err)
		}
		return &domain.BookingSettings{
			BusinessID:              businessID,
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
		}
	}
	return settings
}

// buildAppointment собирает доменную модель записи с денормализованными
// данными услуги и клиента
func (uc *UseCase) buildAppointment(req *Request, service *bsClient.Service) *domain.Appointment {
	price := 0.0
	if service.Price != nil {
		price = *service.Price
	}

	return &domain.Appointment{
		BusinessID:      req.BusinessID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		ClientID:        req.ClientID,
		AppointmentDate: startOfDay(req.Date),
		StartTime:       req.StartTime,
		DurationMinutes: service.DurationMinutes,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentUnpaid,
		ServiceName:     service.Name,
		ServicePrice:    price,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
	}
}

// isUnrestricted проверяет, что связка услуга-мастер не настроена ни у одной услуги
func isUnrestricted(services []*bsClient.Service) bool {
	for _, svc := range services {
		if len(svc.ProfessionalIDs) > 0 {
			return false
		}
	}
	return true
}

// findService ищет услугу по ID
func findService(services []*bsClient.Service, serviceID int64) *bsClient.Service {
	for _, svc := range services {
		if svc.ID == serviceID {
			return svc
		}
	}
	return nil
}

// findProfessional ищет мастера по ID
func findProfessional(professionals []*bsClient.Professional, professionalID int64) *bsClient.Professional {
	for _, prof := range professionals {
		if prof.ID == professionalID {
			return prof
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
