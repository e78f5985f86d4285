package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrOverlap нарушено ограничение исключения: у сотрудника уже есть пересекающаяся запись
	ErrOverlap = errors.New("appointment.repository: overlapping appointment for staff")

	// ErrSeatTaken место в групповом слоте уже занято
	ErrSeatTaken = errors.New("appointment.repository: group slot seat already taken")

	// ErrAlreadyEnrolled клиент уже записан в этот групповой слот
	ErrAlreadyEnrolled = errors.New("appointment.repository: client already enrolled in slot")

	// ErrCannotCancel запись уже отменена или завершена
	ErrCannotCancel = errors.New("appointment.repository: appointment cannot be cancelled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
