package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи дня бизнеса
type Interval struct {
	Start int
	End   int
}

// Overlaps [a0,a1) и [b0,b1) пересекаются тогда и только тогда, когда a0 < b1 и b0 < a1
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains true, если other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return i.Start <= other.Start && other.End <= i.End
}

// Length длительность в минутах
func (i Interval) Length() int {
	return i.End - i.Start
}

// IsEmpty true для пустого или перевернутого интервала
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// ParseInterval разбирает пару "HH:MM". Интервалы не пересекают полночь: end должен быть больше start.
func ParseInterval(start, end string) (Interval, error) {
	s, err := types.TimeString(start).Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: start %q: %v", ErrMalformedTime, start, err)
	}
	e, err := types.TimeString(end).Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: end %q: %v", ErrMalformedTime, end, err)
	}
	iv := Interval{Start: s, End: e}
	if iv.IsEmpty() {
		return Interval{}, fmt.Errorf("%w: %s-%s is empty", ErrMalformedTime, start, end)
	}
	return iv, nil
}

func minutesToTime(m int) *types.TimeString {
	ts, err := types.FromMinutes(m)
	if err != nil {
		return nil
	}
	return &ts
}
