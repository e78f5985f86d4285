package get_slot_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service SlotConfigService
	logger  Logger
}

func NewHandler(service SlotConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/slot-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/slot-config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	cfg, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, slotconfig.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/slot-config - Business not found: business_id=%d", businessID)
			handlers.RespondCode(w, domain.RejectBusinessNotFound, msgBusinessNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/slot-config - Failed to get slot config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/slot-config - Slot config retrieved: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
