package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const msgInternalError = "внутренняя ошибка сервера"

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    domain.RejectionCode `json:"code,omitempty"`
	Message string               `json:"message"`
}

// RespondJSON пишет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError ответ с сообщением без машинного кода
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Message: message})
}

// RespondCode ответ с машинным кодом отказа, статус определяется кодом
func RespondCode(w http.ResponseWriter, code domain.RejectionCode, message string) {
	RespondJSON(w, StatusForCode(code), ErrorResponse{Code: code, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondCode(w, domain.RejectInvalidInput, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondCode(w, domain.RejectAccessDenied, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondCode(w, domain.RejectInternal, msgInternalError)
}

// StatusForCode HTTP статус для кода отказа
func StatusForCode(code domain.RejectionCode) int {
	switch code {
	case domain.RejectInvalidInput, domain.RejectInvalidSlotConfig:
		return http.StatusBadRequest
	case domain.RejectAccessDenied:
		return http.StatusForbidden
	case domain.RejectBusinessNotFound, domain.RejectServiceNotFound,
		domain.RejectStaffNotFound, domain.RejectAppointmentNotFound:
		return http.StatusNotFound
	case domain.RejectAlreadyEnrolled, domain.RejectCapacityExceeded,
		domain.RejectSlotNoLongerAvailable, domain.RejectCannotCancel:
		return http.StatusConflict
	case domain.RejectPastDatetime, domain.RejectClientNotEligible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON читает тело запроса, неизвестные поля запрещены. Пустое тело дает io.EOF.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// DecodeAndValidate DecodeJSON и проверка тегов validate
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

// ValidateStruct проверка тегов validate, ошибка перечисляет поля
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
}
