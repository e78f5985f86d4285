package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingParams     = "параметры serviceId, staffId и date обязательны"
	msgInvalidParams     = "некорректные параметры запроса, дата ожидается в формате YYYY-MM-DD"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgStaffNotFound     = "сотрудник не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/availability
// Query params: serviceId, staffId, date (YYYY-MM-DD), все обязательны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()
	serviceIDStr, staffIDStr, dateStr := query.Get("serviceId"), query.Get("staffId"), query.Get("date")
	if serviceIDStr == "" || staffIDStr == "" || dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/availability - Missing query params: business_id=%d", businessID)
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceIDStr, staffIDStr, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/availability - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailability.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Business not found: business_id=%d", businessID)
			handlers.RespondCode(w, domain.RejectBusinessNotFound, msgBusinessNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Service not found: business_id=%d, service_id=%d",
				businessID, useCaseReq.ServiceID)
			handlers.RespondCode(w, domain.RejectServiceNotFound, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrStaffNotFound):
			h.logger.Warn("GET /businesses/{id}/availability - Staff not found: business_id=%d, staff_id=%d",
				businessID, useCaseReq.StaffID)
			handlers.RespondCode(w, domain.RejectStaffNotFound, msgStaffNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/availability - Failed to resolve availability: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/availability - Availability resolved: business_id=%d, staff_id=%d, slots_count=%d",
		businessID, useCaseReq.StaffID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
