package get_booking_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBS-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SBS-AvailabilityService/internal/service/settings"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidParams     = "некорректные параметры запроса"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/booking-settings
// Query params: professionalId, serviceId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/booking-settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceReq, err := ToServiceRequest(
		businessID,
		r.URL.Query().Get("professionalId"),
		r.URL.Query().Get("serviceId"),
	)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/booking-settings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetWithHierarchy(r.Context(), serviceReq)
	if err != nil {
		// Настройки не заданы - возвращаем дефолтные значения
		if errors.Is(err, settings.ErrSettingsNotFound) {
			h.logger.Info("GET /businesses/{id}/booking-settings - Settings not found, returning defaults: business_id=%d",
				businessID)
			handlers.RespondJSON(w, http.StatusOK, GetDefaultSettingsResponse(businessID))
			return
		}

		h.logger.Error("GET /businesses/{id}/booking-settings - Failed to get settings: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/booking-settings - Settings retrieved successfully: business_id=%d, settings_id=%d",
		businessID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
