package domain

// Значения сетки слотов по умолчанию (30-минутные слоты, рабочий день 09:00-18:00)
const (
	DefaultSlotDurationMinutes = 30
	DefaultSlotsPerDay         = 48
	DefaultGridStartHour       = 0
	DefaultGridEndHour         = 24
	DefaultWorkingStartSlot    = 18
	DefaultWorkingEndSlot      = 36
)

// ContinuousStepMinutes шаг перебора начала слота в непрерывной модели
const ContinuousStepMinutes = 30

// Ограничения бизнес-валидации
const (
	MinSlotDurationMinutes      = 5
	MaxGridSlotDurationMinutes  = 60
	MaxServiceDurationMinutes   = 720
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Причины недоступности слота и закрытого дня
const (
	ReasonBusinessClosed         = "business-closed"
	ReasonServiceUnavailableDay  = "service-unavailable-day"
	ReasonNoValidWindow          = "no-valid-window"
	ReasonPastDate               = "past-date"
	ReasonPastTime               = "past-time"
	ReasonOccupied               = "occupied"
	ReasonLunchBreak             = "lunch-break"
	ReasonOutsideWorkingHours    = "outside-working-hours"
	ReasonInsufficientContiguous = "insufficient-contiguous-capacity"
	ReasonWindowTooShort         = "window-too-short"
	ReasonCapacityExhausted      = "capacity-exhausted"
	ReasonOffStep                = "off-step"
)

// InactiveStatuses статусы, которые не занимают время сотрудника
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}
