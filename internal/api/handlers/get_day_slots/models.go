package get_day_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SBS-AvailabilityService/internal/domain"
	getDaySlots "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_day_slots"
)

// DaySlotsResponse HTTP response model
type DaySlotsResponse struct {
	BusinessID     int64   `json:"businessId"`
	ServiceID      int64   `json:"serviceId"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	Date           string  `json:"date"`
	Slots          []Slot  `json:"slots"`
}

// Slot временной слот с флагом доступности
type Slot struct {
	Time      string `json:"time"` // "10:00"
	Available bool   `json:"available"`
}

// ToUseCaseRequest создает запрос use case из параметров URL и query
func ToUseCaseRequest(businessID int64, dateStr, serviceIDStr, professionalIDStr string) (*getDaySlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	req := &getDaySlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &professionalID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDaySlots.Response) *DaySlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			Time:      slot.Time,
			Available: slot.Available,
		}
	}

	return &DaySlotsResponse{
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		Date:           resp.Date,
		Slots:          slots,
	}
}
