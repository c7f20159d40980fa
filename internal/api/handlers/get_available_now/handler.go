package get_available_now

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBS-AvailabilityService/internal/api/handlers"
	getAvailableNow "github.com/m04kA/SBS-AvailabilityService/internal/usecase/get_available_now"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableNowUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableNowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-now
// Query params: serviceId (опционально), minDuration (опционально, минуты)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessIDStr := vars["businessId"]

	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-now - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(
		businessID,
		r.URL.Query().Get("serviceId"),
		r.URL.Query().Get("minDuration"),
	)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-now - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableNow.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-now - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableNow.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-now - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableNow.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-now - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /businesses/{id}/available-now - Failed to get availability: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{id}/available-now - Availability retrieved successfully: business_id=%d, professionals_count=%d",
		businessID, len(result.Professionals))
	handlers.RespondJSON(w, http.StatusOK, response)
}
