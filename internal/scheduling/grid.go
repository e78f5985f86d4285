package scheduling

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// GridLayout сетка слотов, уже сведенная с окном дня
type GridLayout struct {
	Config      domain.BusinessSlotConfiguration
	SlotsNeeded int
	// WorkStart и WorkEnd рабочие индексы [WorkStart, WorkEnd) после пересечения с окном дня
	WorkStart int
	WorkEnd   int
}

// NewGridLayout пересекает рабочие индексы конфигурации с окном дня
func NewGridLayout(cfg domain.BusinessSlotConfiguration, w Window, duration int) GridLayout {
	layout := GridLayout{
		Config:      cfg,
		SlotsNeeded: cfg.SlotsNeeded(duration),
		WorkStart:   max(cfg.WorkingHours.Start, cfg.FirstSlot()),
		WorkEnd:     min(cfg.WorkingHours.End, cfg.LastSlot()),
	}

	if w.Closed {
		layout.WorkEnd = layout.WorkStart
		return layout
	}

	d := cfg.SlotDurationMinutes
	// Первый слот, начинающийся не раньше окна, и первый слот, не помещающийся в окно
	layout.WorkStart = max(layout.WorkStart, (w.Start+d-1)/d)
	layout.WorkEnd = min(layout.WorkEnd, w.End/d)
	return layout
}

// slotInterval интервал одного слота сетки
func (g GridLayout) slotInterval(index int) Interval {
	start := g.Config.IndexToMinutes(index)
	return Interval{Start: start, End: start + g.Config.SlotDurationMinutes}
}

// GenerateGrid одна запись на каждый индекс полной сетки, чтобы можно было
// отрисовать день целиком. Начало i допустимо, если все индексы [i, i+SlotsNeeded)
// внутри рабочих границ и свободны.
func GenerateGrid(g GridLayout, occ Occupancy) []domain.SlotDescriptor {
	first, last := g.Config.FirstSlot(), g.Config.LastSlot()
	if g.SlotsNeeded <= 0 || last <= first {
		return []domain.SlotDescriptor{}
	}

	slots := make([]domain.SlotDescriptor, 0, last-first)
	for i := first; i < last; i++ {
		slots = append(slots, CheckGrid(g, i, occ))
	}
	return slots
}

// CheckGrid проверяет одно начало i. Используется и генератором, и при создании записи.
func CheckGrid(g GridLayout, i int, occ Occupancy) domain.SlotDescriptor {
	index := i
	start := g.Config.IndexToMinutes(i)
	iv := Interval{Start: start, End: start + g.SlotsNeeded*g.Config.SlotDurationMinutes}

	v := g.verdict(i, occ)
	return describe(iv, &index, v, occ.Capacity)
}

func (g GridLayout) verdict(i int, occ Occupancy) Verdict {
	if i < g.WorkStart || i >= g.WorkEnd {
		return Verdict{Reason: domain.ReasonOutsideWorkingHours}
	}

	start := g.Config.IndexToMinutes(i)

	// Обед внутри сетки считается занятым слотом
	if isBlocked, _ := occ.blocked(g.slotInterval(i), start); isBlocked {
		return Verdict{Reason: domain.ReasonOccupied}
	}

	if i+g.SlotsNeeded > g.WorkEnd {
		return Verdict{Reason: domain.ReasonInsufficientContiguous}
	}
	for k := i + 1; k < i+g.SlotsNeeded; k++ {
		if isBlocked, _ := occ.blocked(g.slotInterval(k), start); isBlocked {
			return Verdict{Reason: domain.ReasonInsufficientContiguous}
		}
	}

	if start < occ.NotBefore {
		return Verdict{Reason: domain.ReasonPastTime}
	}

	capacity := max(occ.Capacity, 1)
	taken := occ.groupTaken(start)
	if taken >= capacity {
		return Verdict{Reason: domain.ReasonCapacityExhausted, Taken: taken}
	}
	return Verdict{Available: true, Spots: capacity - taken, Taken: taken}
}
