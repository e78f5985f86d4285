package scheduling

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// GenerateContinuous перебирает начала с шагом step от начала окна, пока слот длительностью
// duration помещается в окно. Возвращает все кандидаты, включая недоступные.
func GenerateContinuous(w Window, duration, step int, occ Occupancy) []domain.SlotDescriptor {
	if w.Closed || duration <= 0 || step <= 0 {
		return []domain.SlotDescriptor{}
	}

	slots := make([]domain.SlotDescriptor, 0, (w.End-w.Start)/step+1)
	for start := w.Start; start+duration <= w.End; start += step {
		iv := Interval{Start: start, End: start + duration}
		slots = append(slots, describe(iv, nil, occ.Check(iv), occ.Capacity))
	}
	return slots
}

// CheckContinuous проверяет начало при создании записи. Начало должно попадать
// на шаг step от начала окна, как у кандидатов GenerateContinuous.
func CheckContinuous(w Window, start, duration, step int, occ Occupancy) domain.SlotDescriptor {
	iv := Interval{Start: start, End: start + duration}
	if w.Closed {
		return describe(iv, nil, Verdict{Reason: w.Reason}, occ.Capacity)
	}
	if !w.Interval().Contains(iv) {
		return describe(iv, nil, Verdict{Reason: domain.ReasonOutsideWorkingHours}, occ.Capacity)
	}
	if step > 0 && (start-w.Start)%step != 0 {
		return describe(iv, nil, Verdict{Reason: domain.ReasonOffStep}, occ.Capacity)
	}
	return describe(iv, nil, occ.Check(iv), occ.Capacity)
}

func describe(iv Interval, index *int, v Verdict, capacity int) domain.SlotDescriptor {
	return domain.SlotDescriptor{
		StartTime:      minutesToTime(iv.Start),
		EndTime:        minutesToTime(iv.End),
		SlotIndex:      index,
		Available:      v.Available,
		Reason:         v.Reason,
		AvailableSpots: v.Spots,
		TotalSpots:     max(capacity, 1),
	}
}
