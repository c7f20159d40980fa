package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	settingsRepo "github.com/m04kA/SBS-AvailabilityService/internal/infra/storage/settings"
	bsClient "github.com/m04kA/SBS-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SBS-AvailabilityService/internal/service/settings/models"
)

// Service сервис для работы с настройками бронирования
type Service struct {
	settingsRepo   SettingsRepository
	businessClient BusinessServiceClient
	logger         Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo:   settingsRepo,
		businessClient: businessClient,
		logger:         logger,
	}
}

// Create создает новые настройки бронирования
// Доступно только менеджерам бизнеса
// Проверяет существование бизнеса, мастера (если указан) и услуги (если указана)
func (s *Service) Create(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Create: creating settings for business=%d, professional=%v, service=%v by user=%d",
		req.BusinessID, req.ProfessionalID, req.ServiceID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateSettingsData(req.SlotStepMinutes, req.MinBookingNoticeMinutes, req.AdvanceBookingDays); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес для проверки прав доступа
	business, err := s.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("Create: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Create: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только менеджер бизнеса)
	if !business.IsManager(req.UserID) {
		s.logger.Warn("Create: user=%d is not a manager of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 4. Если указан professionalID, проверяем его существование
	if req.ProfessionalID != nil {
		if err := s.checkProfessionalExists(ctx, req.BusinessID, *req.ProfessionalID); err != nil {
			return nil, err
		}
	}

	// 5. Если указан serviceID, проверяем его существование
	if req.ServiceID != nil {
		if _, err := s.businessClient.GetService(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, bsClient.ErrServiceNotFound) {
				s.logger.Warn("Create: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Create: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 6. Проверяем, не существуют ли уже настройки с таким скоупом
	existing, err := s.settingsRepo.GetByScope(ctx, req.BusinessID, req.ProfessionalID, req.ServiceID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Create: failed to check existing settings: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing settings: %v", ErrInternal, err)
	}
	if existing != nil {
		s.logger.Warn("Create: settings already exist for business=%d, professional=%v, service=%v",
			req.BusinessID, req.ProfessionalID, req.ServiceID)
		return nil, ErrSettingsAlreadyExist
	}

	// 7. Создаем настройки
	created, err := s.settingsRepo.Create(ctx, req.ToDomainSettings())
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created settings id=%d", created.ID)
	return models.FromDomainSettings(created), nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов
// Публичный метод - используется при построении слотов и создании записи
// Приоритет: мастер+услуга > мастер > услуга > бизнес
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching settings for business=%d, professional=%v, service=%v",
		req.BusinessID, req.ProfessionalID, req.ServiceID)

	settings, err := s.settingsRepo.GetWithHierarchy(ctx, req.BusinessID, req.ProfessionalID, req.ServiceID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("GetWithHierarchy: no settings found for business=%d, professional=%v, service=%v",
				req.BusinessID, req.ProfessionalID, req.ServiceID)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("GetWithHierarchy: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetWithHierarchy: successfully fetched settings id=%d (level: %s)",
		settings.ID, s.getSettingsLevel(settings))
	return models.FromDomainSettings(settings), nil
}

// GetAllByBusiness получает все настройки бизнеса
// Доступно только менеджерам бизнеса
func (s *Service) GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.SettingsListResponse, error) {
	s.logger.Info("GetAllByBusiness: fetching settings for business=%d by user=%d", businessID, userID)

	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("GetAllByBusiness: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetAllByBusiness: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("GetAllByBusiness: user=%d is not a manager of business=%d", userID, businessID)
		return nil, ErrAccessDenied
	}

	settings, err := s.settingsRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAllByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAllByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByBusiness: successfully fetched %d settings for business=%d", len(settings), businessID)
	return models.FromDomainSettingsList(settings), nil
}

// Upsert создает или обновляет настройки для указанного скоупа
// Доступно только менеджерам бизнеса
// Поддерживает частичное обновление существующих настроек
func (s *Service) Upsert(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Upsert: upserting settings for business=%d, professional=%v, service=%v by user=%d",
		req.BusinessID, req.ProfessionalID, req.ServiceID, req.UserID)

	existing, err := s.settingsRepo.GetByScope(ctx, req.BusinessID, req.ProfessionalID, req.ServiceID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Upsert: failed to check existing settings: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing settings: %v", ErrInternal, err)
	}

	if existing == nil {
		return s.Create(ctx, req)
	}

	updateReq := &models.UpdateSettingsRequest{
		UserID:                  req.UserID,
		SlotStepMinutes:         &req.SlotStepMinutes,
		MinBookingNoticeMinutes: &req.MinBookingNoticeMinutes,
		AdvanceBookingDays:      &req.AdvanceBookingDays,
	}
	return s.Update(ctx, existing.ID, updateReq)
}

// Update обновляет существующие настройки
// Доступно только менеджерам бизнеса
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings id=%d by user=%d", id, req.UserID)

	// 1. Получаем существующие настройки
	settings, err := s.settingsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Update: settings id=%d not found", id)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Update: repository error for settings id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем обновления к копии для валидации
	tempSettings := *settings
	req.ApplyToSettings(&tempSettings)

	if err := s.validateSettingsData(tempSettings.SlotStepMinutes,
		tempSettings.MinBookingNoticeMinutes, tempSettings.AdvanceBookingDays); err != nil {
		s.logger.Warn("Update: validation failed for settings id=%d: %v", id, err)
		return nil, err
	}

	// 3. Проверяем права доступа
	business, err := s.businessClient.GetBusiness(ctx, settings.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("Update: business id=%d not found", settings.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("Update: failed to get business id=%d: %v", settings.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(req.UserID) {
		s.logger.Warn("Update: user=%d is not a manager of business=%d", req.UserID, settings.BusinessID)
		return nil, ErrAccessDenied
	}

	// 4. Применяем обновления и сохраняем
	req.ApplyToSettings(settings)

	updated, err := s.settingsRepo.Update(ctx, id, settings)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Update: settings id=%d not found during update", id)
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Update: repository error for settings id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated settings id=%d", id)
	return models.FromDomainSettings(updated), nil
}

// DeleteByScope удаляет настройки по скоупу (business, professional, service)
// Доступно только менеджерам бизнеса
func (s *Service) DeleteByScope(ctx context.Context, req *models.DeleteSettingsRequest) error {
	s.logger.Info("DeleteByScope: deleting settings for business=%d, professional=%v, service=%v by user=%d",
		req.BusinessID, req.ProfessionalID, req.ServiceID, req.UserID)

	business, err := s.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bsClient.ErrBusinessNotFound) {
			s.logger.Warn("DeleteByScope: business id=%d not found", req.BusinessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("DeleteByScope: failed to get business id=%d: %v", req.BusinessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(req.UserID) {
		s.logger.Warn("DeleteByScope: user=%d is not a manager of business=%d", req.UserID, req.BusinessID)
		return ErrAccessDenied
	}

	existing, err := s.settingsRepo.GetByScope(ctx, req.BusinessID, req.ProfessionalID, req.ServiceID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("DeleteByScope: settings not found for business=%d, professional=%v, service=%v",
				req.BusinessID, req.ProfessionalID, req.ServiceID)
			return ErrSettingsNotFound
		}
		s.logger.Error("DeleteByScope: repository error: %v", err)
		return fmt.Errorf("%w: DeleteByScope - repository error: %v", ErrInternal, err)
	}

	if err := s.settingsRepo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return ErrSettingsNotFound
		}
		s.logger.Error("DeleteByScope: repository error: %v", err)
		return fmt.Errorf("%w: DeleteByScope - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteByScope: successfully deleted settings id=%d", existing.ID)
	return nil
}

// Вспомогательные методы

// checkProfessionalExists проверяет, что мастер существует в бизнесе
func (s *Service) checkProfessionalExists(ctx context.Context, businessID, professionalID int64) error {
	professionals, err := s.businessClient.GetProfessionals(ctx, businessID)
	if err != nil {
		s.logger.Error("checkProfessionalExists: failed to get professionals for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
	}

	for _, prof := range professionals {
		if prof.ID == professionalID {
			return nil
		}
	}

	s.logger.Warn("checkProfessionalExists: professional id=%d not found in business=%d", professionalID, businessID)
	return ErrProfessionalNotFound
}

// validateSettingsData валидирует параметры настроек
func (s *Service) validateSettingsData(slotStep, minNotice, advanceDays int) error {
	if slotStep < domain.MinSlotStepMinutes || slotStep > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if minNotice < domain.MinBookingNoticeMinutes || minNotice > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	if advanceDays < domain.MinAdvanceBookingDays || advanceDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	return nil
}

// getSettingsLevel возвращает строковое представление уровня настроек для логирования
func (s *Service) getSettingsLevel(settings *domain.BookingSettings) string {
	if settings.ProfessionalID != nil && settings.ServiceID != nil {
		return "professional+service"
	}
	if settings.IsProfessionalSpecific() {
		return "professional"
	}
	if settings.IsServiceSpecific() {
		return "service"
	}
	return "global"
}
