package get_available_now

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SBS-AvailabilityService/internal/availability"
	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	bsClient "github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SBS-AvailabilityService/pkg/types"
)

// UseCase use case "кто из мастеров свободен прямо сейчас"
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeBlockRepo   TimeBlockRepository
	businessClient  BusinessServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeBlockRepo:   timeBlockRepo,
		businessClient:  businessClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case поиска свободных мастеров
//
// Ошибки по отдельным мастерам не валят весь запрос: такой мастер просто
// исключается из результата с записью в лог. Падение всего списка из-за
// одной битой строки расписания хуже, чем неполный список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableNow: business=%d, service=%v, minFree=%d",
		req.BusinessID, req.ServiceID, req.MinFreeMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableNow: validation failed: %v", err)
		return nil, err
	}

	minFree := req.MinFreeMinutes
	if minFree == 0 {
		minFree = domain.DefaultMinFreeMinutes
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	nowMinutes := now.Hour()*60 + now.Minute()

	// 3. Получаем бизнес
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableNow: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableNow: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Если бизнес закрыт сегодня - пустой результат, это валидный ответ, а не ошибка
	if !business.ScheduleFor(now.Weekday()).IsOpen {
		uc.logger.Info("GetAvailableNow: business id=%d is closed today", req.BusinessID)
		return &Response{
			BusinessID:    req.BusinessID,
			GeneratedAt:   now,
			Professionals: []AvailableProfessional{},
		}, nil
	}

	// 5. Получаем мастеров и услуги
	professionals, err := uc.businessClient.GetProfessionals(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableNow: failed to get professionals for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
	}

	services, err := uc.businessClient.GetServices(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableNow: failed to get services for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// Если ни у одной услуги не настроена связка услуга-мастер,
	// считаем что каждый мастер оказывает каждую услугу
	unrestricted := isUnrestricted(services)

	// 6. Находим услугу-фильтр, если указана
	var filterService *bsClient.Service
	if req.ServiceID != nil {
		filterService = findService(services, *req.ServiceID)
		if filterService == nil {
			uc.logger.Warn("GetAvailableNow: service id=%d not found in business id=%d", *req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
	}

	// 7. Получаем занятость на сегодня одним запросом на весь бизнес
	filter := domain.BusinessAppointmentsFilter{
		BusinessID:      req.BusinessID,
		StartDate:       ptr.Ptr(now),
		EndDate:         ptr.Ptr(now),
		IncludeInactive: false, // Только активные записи
	}

	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableNow: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	blocks, err := uc.timeBlockRepo.GetOverlappingDate(ctx, req.BusinessID, nil, now)
	if err != nil {
		uc.logger.Error("GetAvailableNow: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	apptsByProfessional := groupByProfessional(appointments)

	// 8. Считаем доступность каждого мастера
	result := make([]AvailableProfessional, 0, len(professionals))

	for _, prof := range professionals {
		if !prof.IsActive {
			continue
		}

		// Фильтр по услуге
		if filterService != nil && !filterService.OfferedBy(prof.ID, unrestricted) {
			continue
		}

		facts, err := availability.BuildDayFacts(business, prof, now, apptsByProfessional[prof.ID], blocks)
		if err != nil {
			uc.logger.Warn("GetAvailableNow: skipping professional id=%d, bad schedule data: %v", prof.ID, err)
			continue
		}

		free, err := availability.ResolveFreeIntervals(facts)
		if err != nil {
			uc.logger.Warn("GetAvailableNow: skipping professional id=%d, failed to resolve intervals: %v", prof.ID, err)
			continue
		}

		// Мастер должен быть свободен прямо сейчас
		interval, ok := availability.FindContaining(free, nowMinutes)
		if !ok {
			continue
		}

		freeMinutes := interval.EndMinute - nowMinutes
		if freeMinutes < minFree {
			continue
		}

		freeFrom, err := types.NewTimeStringFromMinutes(nowMinutes)
		if err != nil {
			uc.logger.Warn("GetAvailableNow: skipping professional id=%d: %v", prof.ID, err)
			continue
		}
		freeUntil, err := types.NewTimeStringFromMinutes(interval.EndMinute)
		if err != nil {
			uc.logger.Warn("GetAvailableNow: skipping professional id=%d: %v", prof.ID, err)
			continue
		}

		result = append(result, AvailableProfessional{
			ProfessionalID: prof.ID,
			Name:           prof.Name,
			AvatarURL:      prof.AvatarURL,
			FreeFrom:       freeFrom,
			FreeUntil:      freeUntil,
			FreeMinutes:    freeMinutes,
			Services:       offeredServices(services, prof.ID, unrestricted),
		})
	}

	// 9. Сортируем по убыванию свободного времени - сначала мастера,
	// способные принять самую длинную услугу без записи
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].FreeMinutes > result[j].FreeMinutes
	})

	uc.logger.Info("GetAvailableNow: %d of %d professionals available for business=%d",
		len(result), len(professionals), req.BusinessID)

	return &Response{
		BusinessID:    req.BusinessID,
		GeneratedAt:   now,
		Professionals: result,
	}, nil
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

// offeredServices возвращает краткий список услуг, которые оказывает мастер
func offeredServices(services []*bsClient.Service, professionalID int64, unrestricted bool) []ServiceSummary {
	result := make([]ServiceSummary, 0, len(services))
	for _, svc := range services {
		if !svc.IsActive {
			continue
		}
		if svc.OfferedBy(professionalID, unrestricted) {
			result = append(result, ServiceSummary{ID: svc.ID, Name: svc.Name})
		}
	}
	return result
}

// groupByProfessional группирует записи по мастерам
func groupByProfessional(appointments []*domain.Appointment) map[int64][]*domain.Appointment {
	grouped := make(map[int64][]*domain.Appointment, len(appointments))
	for _, appt := range appointments {
		grouped[appt.ProfessionalID] = append(grouped[appt.ProfessionalID], appt)
	}
	return grouped
}
