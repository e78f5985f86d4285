package create_appointment

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrAccessDenied пользователь не клиент и не сотрудник бизнеса
	ErrAccessDenied = errors.New("create_appointment: access denied")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_appointment: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в бизнесе
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден в бизнесе или неактивен
	ErrStaffNotFound = errors.New("create_appointment: staff not found")

	// ErrClientNotEligible клиенту запрещено записываться
	ErrClientNotEligible = errors.New("create_appointment: client is not eligible")

	// ErrPastDatetime время записи уже прошло
	ErrPastDatetime = errors.New("create_appointment: scheduled time is in the past")

	// ErrAlreadyEnrolled клиент уже записан в этот слот
	ErrAlreadyEnrolled = errors.New("create_appointment: client is already enrolled")

	// ErrCapacityExceeded в групповом слоте не осталось мест
	ErrCapacityExceeded = errors.New("create_appointment: slot capacity exceeded")

	// ErrSlotNotAvailable слот занят или вышел за пределы расписания
	ErrSlotNotAvailable = errors.New("create_appointment: slot is no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// RejectionCode машинный код отказа для ошибки Execute/ExecuteGrid
func RejectionCode(err error) domain.RejectionCode {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return domain.RejectInvalidInput
	case errors.Is(err, ErrAccessDenied):
		return domain.RejectAccessDenied
	case errors.Is(err, ErrBusinessNotFound):
		return domain.RejectBusinessNotFound
	case errors.Is(err, ErrServiceNotFound):
		return domain.RejectServiceNotFound
	case errors.Is(err, ErrStaffNotFound):
		return domain.RejectStaffNotFound
	case errors.Is(err, ErrClientNotEligible):
		return domain.RejectClientNotEligible
	case errors.Is(err, ErrPastDatetime):
		return domain.RejectPastDatetime
	case errors.Is(err, ErrAlreadyEnrolled):
		return domain.RejectAlreadyEnrolled
	case errors.Is(err, ErrCapacityExceeded):
		return domain.RejectCapacityExceeded
	case errors.Is(err, ErrSlotNotAvailable):
		return domain.RejectSlotNoLongerAvailable
	default:
		return domain.RejectInternal
	}
}
