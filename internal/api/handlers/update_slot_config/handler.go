package update_slot_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidConfig      = "конфигурация сетки слотов некорректна"
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

// Handle PUT /api/v1/businesses/{businessId}/slot-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/slot-config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/slot-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSlotConfigRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/slot-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := h.service.Update(r.Context(), businessID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, slotconfig.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/slot-config - Business not found: business_id=%d", businessID)
			handlers.RespondCode(w, domain.RejectBusinessNotFound, msgBusinessNotFound)

		case errors.Is(err, slotconfig.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/slot-config - Access denied: business_id=%d, user_id=%d", businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slotconfig.ErrInvalidConfig):
			h.logger.Warn("PUT /businesses/{id}/slot-config - Invalid config: business_id=%d, error=%v", businessID, err)
			handlers.RespondCode(w, domain.RejectInvalidSlotConfig, msgInvalidConfig)

		default:
			h.logger.Error("PUT /businesses/{id}/slot-config - Failed to update slot config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/slot-config - Slot config updated: business_id=%d, user_id=%d", businessID, userID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
