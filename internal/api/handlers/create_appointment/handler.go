package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
)

// rejectionMessages текст ответа для каждого кода отказа
var rejectionMessages = map[domain.RejectionCode]string{
	domain.RejectInvalidInput:          "некорректные данные записи",
	domain.RejectAccessDenied:          "доступ запрещен",
	domain.RejectBusinessNotFound:      "бизнес не найден",
	domain.RejectServiceNotFound:       "услуга не найдена",
	domain.RejectStaffNotFound:         "сотрудник не найден",
	domain.RejectClientNotEligible:     "клиенту запрещена запись",
	domain.RejectPastDatetime:          "время записи уже прошло",
	domain.RejectAlreadyEnrolled:       "клиент уже записан на этот слот",
	domain.RejectCapacityExceeded:      "в слоте не осталось мест",
	domain.RejectSlotNoLongerAvailable: "выбранный слот больше недоступен",
}

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actorID))
	if err != nil {
		h.respondRejection(w, r, "POST /appointments", actorID, req.BusinessID, err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d, business_id=%d",
		result.ID, result.ClientID, result.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// HandleGrid POST /api/v1/appointments/grid
func (h *Handler) HandleGrid(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments/grid - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateGridAppointmentRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /appointments/grid - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID)
	if err != nil {
		h.logger.Warn("POST /appointments/grid - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteGrid(r.Context(), useCaseReq)
	if err != nil {
		h.respondRejection(w, r, "POST /appointments/grid", actorID, req.BusinessID, err)
		return
	}

	h.logger.Info("POST /appointments/grid - Appointment created successfully: appointment_id=%d, slot=%d, business_id=%d",
		result.ID, useCaseReq.StartSlot, result.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondRejection(w http.ResponseWriter, r *http.Request, route string, actorID, businessID int64, err error) {
	code := createAppointment.RejectionCode(err)

	message, known := rejectionMessages[code]
	if !known {
		h.logger.Error("%s - Failed to create appointment: request_id=%s, user_id=%d, business_id=%d, error=%v",
			route, middleware.GetRequestID(r.Context()), actorID, businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Warn("%s - Rejected with %s: user_id=%d, business_id=%d, reason=%v",
		route, code, actorID, businessID, err)
	handlers.RespondCode(w, code, message)
}
