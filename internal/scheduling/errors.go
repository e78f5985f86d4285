package scheduling

import "errors"

var (
	// ErrMalformedTime некорректное время "HH:MM" в расписании или окне услуги
	ErrMalformedTime = errors.New("scheduling: malformed time")

	// ErrInvalidPlan в плане дня не хватает обязательных данных
	ErrInvalidPlan = errors.New("scheduling: invalid day plan")
)
