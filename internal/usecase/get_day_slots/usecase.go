package get_day_slots

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

// UseCase use case построения слотов записи на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeBlockRepo   TimeBlockRepository
	settingsRepo    SettingsRepository
	businessClient  BusinessServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	settingsRepo SettingsRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeBlockRepo:   timeBlockRepo,
		settingsRepo:    settingsRepo,
		businessClient:  businessClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case построения слотов на день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDaySlots: business=%d, service=%d, professional=%v, date=%s",
		req.BusinessID, req.ServiceID, req.ProfessionalID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDaySlots: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		BusinessID:     req.BusinessID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date.Format(domain.DateFormat),
		Slots:          []domain.DaySlot{},
	}

	// 2. Получаем бизнес
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetDaySlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetDaySlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Прошедшая дата или закрытый день - пустой список слотов, не ошибка
	now := uc.timeProvider.Now()
	today := startOfDay(now)
	date := startOfDay(req.Date)

	if date.Before(today) {
		uc.logger.Info("GetDaySlots: date %s is in the past", resp.Date)
		return resp, nil
	}

	if !business.ScheduleFor(date.Weekday()).IsOpen {
		uc.logger.Info("GetDaySlots: business id=%d is closed on %s", req.BusinessID, resp.Date)
		return resp, nil
	}

	// 4. Находим услугу
	services, err := uc.businessClient.GetServices(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get services for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	service := findService(services, req.ServiceID)
	if service == nil || !service.IsActive {
		uc.logger.Warn("GetDaySlots: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	unrestricted := isUnrestricted(services)

	// 5. Получаем мастеров (одного, если указан фильтр)
	professionals, err := uc.businessClient.GetProfessionals(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get professionals for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
	}

	if req.ProfessionalID != nil {
		prof := findProfessional(professionals, *req.ProfessionalID)
		if prof == nil || !prof.IsActive {
			uc.logger.Warn("GetDaySlots: professional id=%d not found in business id=%d", *req.ProfessionalID, req.BusinessID)
			return nil, ErrProfessionalNotFound
		}
		professionals = []*bsClient.Professional{prof}
	}

	// 6. Получаем занятость на дату
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      req.BusinessID,
		ProfessionalID:  req.ProfessionalID,
		StartDate:       ptr.Ptr(date),
		EndDate:         ptr.Ptr(date),
		IncludeInactive: false, // Только активные записи
	}

	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	blocks, err := uc.timeBlockRepo.GetOverlappingDate(ctx, req.BusinessID, nil, date)
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	apptsByProfessional := groupByProfessional(appointments)

	// 7. Считаем стартовые минуты по каждому мастеру
	nowMinutes := now.Hour()*60 + now.Minute()
	isToday := date.Equal(today)

	candidateSet := make(map[int]bool)
	gridStep := domain.DefaultSlotStepMinutes

	for _, prof := range professionals {
		if !prof.IsActive {
			continue
		}
		if !service.OfferedBy(prof.ID, unrestricted) {
			continue
		}

		settings := uc.resolveSettings(ctx, req.BusinessID, prof.ID, req.ServiceID)
		gridStep = settings.SlotStepMinutes

		// Лимит глубины бронирования: дата дальше лимита - слотов нет
		if settings.HasAdvanceBookingLimit() {
			limit := today.AddDate(0, 0, settings.AdvanceBookingDays)
			if date.After(limit) {
				uc.logger.Info("GetDaySlots: date %s exceeds advance limit of %d days for professional id=%d",
					resp.Date, settings.AdvanceBookingDays, prof.ID)
				continue
			}
		}

		// Минимально допустимая стартовая минута с учетом уведомления заранее
		minStartMinute := 0
		if isToday {
			minStartMinute = nowMinutes + settings.MinBookingNoticeMinutes
		}

		facts, err := availability.BuildDayFacts(business, prof, date, apptsByProfessional[prof.ID], blocks)
		if err != nil {
			uc.logger.Warn("GetDaySlots: skipping professional id=%d, bad schedule data: %v", prof.ID, err)
			continue
		}

		free, err := availability.ResolveFreeIntervals(facts)
		if err != nil {
			uc.logger.Warn("GetDaySlots: skipping professional id=%d, failed to resolve intervals: %v", prof.ID, err)
			continue
		}

		for _, interval := range free {
			for _, start := range availability.SlotStarts(interval, settings.SlotStepMinutes, service.DurationMinutes) {
				if start < minStartMinute {
					continue
				}
				candidateSet[start] = true
			}
		}
	}

	// 8. Для конкретного мастера отдаем полную сетку дня с флагами,
	// для всех мастеров - объединение доступных времен
	if req.ProfessionalID != nil {
		resp.Slots, err = buildMarkedGrid(business.ScheduleFor(date.Weekday()), gridStep, service.DurationMinutes, candidateSet)
	} else {
		resp.Slots, err = buildUnion(candidateSet)
	}
	if err != nil {
		uc.logger.Error("GetDaySlots: failed to build slots: %v", err)
		return nil, fmt.Errorf("%w: failed to build slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetDaySlots: %d slots for business=%d on %s", len(resp.Slots), req.BusinessID, resp.Date)

	return resp, nil
}

// resolveSettings получает настройки бронирования по иерархии,
// при их отсутствии возвращает дефолты
func (uc *UseCase) resolveSettings(ctx context.Context, businessID, professionalID, serviceID int64) *domain.BookingSettings {
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, businessID, &professionalID, &serviceID)
	if err != nil {
		if !errors.Is(err, settingsStorage.ErrSettingsNotFound) {
			uc.logger.Warn("GetDaySlots: failed to get settings for business id=%d: %v, using defaults", businessID, err)
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

// groupByProfessional группирует записи по мастерам
func groupByProfessional(appointments []*domain.Appointment) map[int64][]*domain.Appointment {
	grouped := make(map[int64][]*domain.Appointment, len(appointments))
	for _, appt := range appointments {
		grouped[appt.ProfessionalID] = append(grouped[appt.ProfessionalID], appt)
	}
	return grouped
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
