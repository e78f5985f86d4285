package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingRange диапазон рабочих слотов сетки [Start, End)
type WorkingRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// BusinessSlotConfiguration сетка фиксированных слотов бизнеса.
// Сетка покрывает [StartHour, EndHour), рабочая часть задается индексами слотов.
type BusinessSlotConfiguration struct {
	BusinessID          int64        `json:"businessId"`
	SlotDurationMinutes int          `json:"slotDurationMinutes"`
	SlotsPerDay         int          `json:"slotsPerDay"`
	StartHour           int          `json:"startHour"`
	EndHour             int          `json:"endHour"`
	WorkingHours        WorkingRange `json:"workingHours"`
	IsDefault           bool         `json:"isDefault"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// DefaultSlotConfiguration конфигурация, когда у бизнеса нет своей строки
func DefaultSlotConfiguration(businessID int64) BusinessSlotConfiguration {
	return BusinessSlotConfiguration{
		BusinessID:          businessID,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		SlotsPerDay:         DefaultSlotsPerDay,
		StartHour:           DefaultGridStartHour,
		EndHour:             DefaultGridEndHour,
		WorkingHours: WorkingRange{
			Start: DefaultWorkingStartSlot,
			End:   DefaultWorkingEndSlot,
		},
		IsDefault: true,
	}
}

// SlotsPerHour количество слотов в часе
func (c BusinessSlotConfiguration) SlotsPerHour() int {
	if c.SlotDurationMinutes <= 0 {
		return 0
	}
	return 60 / c.SlotDurationMinutes
}

// FirstSlot индекс первого слота сетки
func (c BusinessSlotConfiguration) FirstSlot() int {
	return c.StartHour * c.SlotsPerHour()
}

// LastSlot индекс за последним слотом сетки
func (c BusinessSlotConfiguration) LastSlot() int {
	last := c.EndHour * c.SlotsPerHour()
	if c.SlotsPerDay > 0 && last > c.SlotsPerDay {
		return c.SlotsPerDay
	}
	return last
}

// SlotsNeeded сколько подряд идущих слотов занимает услуга: ceil(duration / slotDuration)
func (c BusinessSlotConfiguration) SlotsNeeded(durationMinutes int) int {
	if c.SlotDurationMinutes <= 0 || durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + c.SlotDurationMinutes - 1) / c.SlotDurationMinutes
}

// IndexToMinutes единственное преобразование индекса слота во время суток
// (hours = i / slotsPerHour, minutes = (i % slotsPerHour) * slotDuration).
// Используется и при расчете доступности, и при создании записи.
func (c BusinessSlotConfiguration) IndexToMinutes(index int) int {
	perHour := c.SlotsPerHour()
	hours := index / perHour
	minutes := (index % perHour) * c.SlotDurationMinutes
	return hours*60 + minutes
}

// IndexToTime индекс слота в "HH:MM"
func (c BusinessSlotConfiguration) IndexToTime(index int) (types.TimeString, error) {
	return types.FromMinutes(c.IndexToMinutes(index))
}

// Validate проверяет инварианты конфигурации
func (c BusinessSlotConfiguration) Validate() error {
	if c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxGridSlotDurationMinutes {
		return fmt.Errorf("slotDurationMinutes must be between %d and %d", MinSlotDurationMinutes, MaxGridSlotDurationMinutes)
	}
	if 60%c.SlotDurationMinutes != 0 {
		return fmt.Errorf("slotDurationMinutes must divide an hour evenly")
	}
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("startHour must be less than endHour within 0..24")
	}
	if c.SlotsPerDay != 24*c.SlotsPerHour() {
		return fmt.Errorf("slotsPerDay must equal %d for %d-minute slots", 24*c.SlotsPerHour(), c.SlotDurationMinutes)
	}
	if c.WorkingHours.Start >= c.WorkingHours.End {
		return fmt.Errorf("workingHours.start must be less than workingHours.end")
	}
	if c.WorkingHours.Start < c.FirstSlot() || c.WorkingHours.End > c.LastSlot() {
		return fmt.Errorf("workingHours must lie within grid slots %d..%d", c.FirstSlot(), c.LastSlot())
	}
	return nil
}
