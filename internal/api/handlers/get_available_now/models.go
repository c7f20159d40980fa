package get_available_now

import (
	"strconv"
	"time"

	getAvailableNow "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_available_now"
)

// AvailableNowResponse HTTP response model
type AvailableNowResponse struct {
	BusinessID    int64                   `json:"businessId"`
	GeneratedAt   string                  `json:"generatedAt"` // ISO 8601
	Professionals []AvailableProfessional `json:"professionals"`
}

// AvailableProfessional мастер, свободный прямо сейчас
type AvailableProfessional struct {
	ProfessionalID int64            `json:"professionalId"`
	Name           string           `json:"name"`
	AvatarURL      string           `json:"avatarUrl,omitempty"`
	FreeFrom       string           `json:"freeFrom"`  // "14:00"
	FreeUntil      string           `json:"freeUntil"` // "16:30"
	FreeMinutes    int              `json:"freeMinutes"`
	Services       []ServiceSummary `json:"services"`
}

// ServiceSummary краткая информация об услуге
type ServiceSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToUseCaseRequest создает запрос use case из параметров URL и query
func ToUseCaseRequest(businessID int64, serviceIDStr, minDurationStr string) (*getAvailableNow.Request, error) {
	req := &getAvailableNow.Request{
		BusinessID: businessID,
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if minDurationStr != "" {
		minDuration, err := strconv.Atoi(minDurationStr)
		if err != nil {
			return nil, err
		}
		req.MinFreeMinutes = minDuration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableNow.Response) *AvailableNowResponse {
	professionals := make([]AvailableProfessional, len(resp.Professionals))
	for i, prof := range resp.Professionals {
		services := make([]ServiceSummary, len(prof.Services))
		for j, svc := range prof.Services {
			services[j] = ServiceSummary{ID: svc.ID, Name: svc.Name}
		}

		professionals[i] = AvailableProfessional{
			ProfessionalID: prof.ProfessionalID,
			Name:           prof.Name,
			AvatarURL:      prof.AvatarURL,
			FreeFrom:       prof.FreeFrom.String(),
			FreeUntil:      prof.FreeUntil.String(),
			FreeMinutes:    prof.FreeMinutes,
			Services:       services,
		}
	}

	return &AvailableNowResponse{
		BusinessID:    resp.BusinessID,
		GeneratedAt:   resp.GeneratedAt.Format(time.RFC3339),
		Professionals: professionals,
	}
}
