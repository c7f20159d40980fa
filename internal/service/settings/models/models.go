package models

import (
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
)

// Request модели

// CreateSettingsRequest запрос на создание настроек бронирования
type CreateSettingsRequest struct {
	UserID                  int64  `json:"userId"`
	BusinessID              int64  `json:"businessId"`
	ProfessionalID          *int64 `json:"professionalId,omitempty"` // NULL = для всех мастеров
	ServiceID               *int64 `json:"serviceId,omitempty"`      // NULL = для всех услуг
	SlotStepMinutes         int    `json:"slotStepMinutes"`          // Шаг сетки слотов: 15, 30, 60
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`  // Минимальное уведомление заранее
	AdvanceBookingDays      int    `json:"advanceBookingDays"`       // 0 = без ограничений
}

// UpdateSettingsRequest запрос на обновление настроек
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID                  int64 `json:"userId"`
	SlotStepMinutes         *int  `json:"slotStepMinutes,omitempty"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`
}

// GetSettingsRequest запрос на получение настроек (для иерархического поиска)
type GetSettingsRequest struct {
	BusinessID     int64  `json:"businessId"`
	ProfessionalID *int64 `json:"professionalId,omitempty"` // nil означает любой мастер
	ServiceID      *int64 `json:"serviceId,omitempty"`      // nil означает любую услугу
}

// DeleteSettingsRequest запрос на удаление настроек по скоупу
type DeleteSettingsRequest struct {
	UserID         int64  `json:"userId"`
	BusinessID     int64  `json:"businessId"`
	ProfessionalID *int64 `json:"professionalId,omitempty"`
	ServiceID      *int64 `json:"serviceId,omitempty"`
}

// Response модели

// SettingsResponse ответ с данными настроек бронирования
type SettingsResponse struct {
	ID                      int64     `json:"id"`
	BusinessID              int64     `json:"businessId"`
	ProfessionalID          *int64    `json:"professionalId,omitempty"`
	ServiceID               *int64    `json:"serviceId,omitempty"`
	SlotStepMinutes         int       `json:"slotStepMinutes"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// SettingsListResponse ответ со списком настроек
type SettingsListResponse struct {
	Settings []SettingsResponse `json:"settings"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BookingSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		ID:                      s.ID,
		BusinessID:              s.BusinessID,
		ProfessionalID:          s.ProfessionalID,
		ServiceID:               s.ServiceID,
		SlotStepMinutes:         s.SlotStepMinutes,
		MinBookingNoticeMinutes: s.MinBookingNoticeMinutes,
		AdvanceBookingDays:      s.AdvanceBookingDays,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

// FromDomainSettingsList конвертирует список domain моделей в DTO
func FromDomainSettingsList(settings []*domain.BookingSettings) *SettingsListResponse {
	if settings == nil {
		return &SettingsListResponse{
			Settings: []SettingsResponse{},
		}
	}

	resp := &SettingsListResponse{
		Settings: make([]SettingsResponse, len(settings)),
	}

	for i, s := range settings {
		if settingsResp := FromDomainSettings(s); settingsResp != nil {
			resp.Settings[i] = *settingsResp
		}
	}

	return resp
}

// ToDomainSettings конвертирует CreateSettingsRequest в domain модель
func (r *CreateSettingsRequest) ToDomainSettings() *domain.BookingSettings {
	return &domain.BookingSettings{
		BusinessID:              r.BusinessID,
		ProfessionalID:          r.ProfessionalID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
	}
}

// ApplyToSettings применяет обновления к существующим настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(settings *domain.BookingSettings) {
	if r.SlotStepMinutes != nil {
		settings.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.MinBookingNoticeMinutes != nil {
		settings.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.AdvanceBookingDays != nil {
		settings.AdvanceBookingDays = *r.AdvanceBookingDays
	}
}
