package scheduling

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// GenerateExplicit один кандидат на каждое явное окно услуги, без нарезки.
// Окно либо целиком свободно, либо заблокировано. Ошибка разбора любого окна
// возвращается вызывающему, который откатывается на непрерывную модель.
func GenerateExplicit(w Window, windows []domain.SlotWindow, duration int, occ Occupancy) ([]domain.SlotDescriptor, error) {
	if w.Closed {
		return []domain.SlotDescriptor{}, nil
	}

	intervals := make([]Interval, 0, len(windows))
	for i, sw := range windows {
		iv, err := ParseInterval(sw.StartTime, sw.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window #%d: %w", i, err)
		}
		intervals = append(intervals, iv)
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start == intervals[j].Start {
			return intervals[i].End < intervals[j].End
		}
		return intervals[i].Start < intervals[j].Start
	})

	slots := make([]domain.SlotDescriptor, 0, len(intervals))
	for _, iv := range intervals {
		var v Verdict
		switch {
		case !w.Interval().Contains(iv):
			v = Verdict{Reason: domain.ReasonOutsideWorkingHours}
		case iv.Length() < duration:
			v = Verdict{Reason: domain.ReasonWindowTooShort}
		default:
			v = occ.Check(iv)
		}
		slots = append(slots, describe(iv, nil, v, occ.Capacity))
	}
	return slots, nil
}
