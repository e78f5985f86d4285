package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdateSlotConfigRequest запрос на изменение сетки слотов.
// Все поля опциональны, непереданные берутся из действующей конфигурации.
type UpdateSlotConfigRequest struct {
	UserID              int64 `json:"userId"`
	SlotDurationMinutes *int  `json:"slotDurationMinutes,omitempty"` // 5..60, делитель часа
	SlotsPerDay         *int  `json:"slotsPerDay,omitempty"`         // по умолчанию 24 * слотов в часе
	StartHour           *int  `json:"startHour,omitempty"`
	EndHour             *int  `json:"endHour,omitempty"`
	WorkingStartSlot    *int  `json:"workingStartSlot,omitempty"`
	WorkingEndSlot      *int  `json:"workingEndSlot,omitempty"`
}

// ApplyTo накладывает изменения на текущую конфигурацию
func (r *UpdateSlotConfigRequest) ApplyTo(current domain.BusinessSlotConfiguration) domain.BusinessSlotConfiguration {
	next := current

	if r.SlotDurationMinutes != nil {
		next.SlotDurationMinutes = *r.SlotDurationMinutes
		// при смене длительности число слотов пересчитывается, если не задано явно
		next.SlotsPerDay = 24 * next.SlotsPerHour()
	}
	if r.SlotsPerDay != nil {
		next.SlotsPerDay = *r.SlotsPerDay
	}
	if r.StartHour != nil {
		next.StartHour = *r.StartHour
	}
	if r.EndHour != nil {
		next.EndHour = *r.EndHour
	}
	if r.WorkingStartSlot != nil {
		next.WorkingHours.Start = *r.WorkingStartSlot
	}
	if r.WorkingEndSlot != nil {
		next.WorkingHours.End = *r.WorkingEndSlot
	}

	return next
}

// Response модели

// SlotConfigResponse действующая сетка слотов бизнеса
type SlotConfigResponse struct {
	BusinessID          int64  `json:"businessId"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	SlotsPerDay         int    `json:"slotsPerDay"`
	StartHour           int    `json:"startHour"`
	EndHour             int    `json:"endHour"`
	WorkingStartSlot    int    `json:"workingStartSlot"`
	WorkingEndSlot      int    `json:"workingEndSlot"`
	WorkingStartTime    string `json:"workingStartTime"` // "09:00"
	WorkingEndTime      string `json:"workingEndTime"`   // "18:00"
	IsDefault           bool   `json:"isDefault"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSlotConfig конвертирует domain модель в DTO
func FromDomainSlotConfig(c domain.BusinessSlotConfiguration) *SlotConfigResponse {
	resp := &SlotConfigResponse{
		BusinessID:          c.BusinessID,
		SlotDurationMinutes: c.SlotDurationMinutes,
		SlotsPerDay:         c.SlotsPerDay,
		StartHour:           c.StartHour,
		EndHour:             c.EndHour,
		WorkingStartSlot:    c.WorkingHours.Start,
		WorkingEndSlot:      c.WorkingHours.End,
		IsDefault:           c.IsDefault,
	}

	if start, err := c.IndexToTime(c.WorkingHours.Start); err == nil {
		resp.WorkingStartTime = start.String()
	}
	if end, err := c.IndexToTime(c.WorkingHours.End); err == nil {
		resp.WorkingEndTime = end.String()
	}

	if !c.IsDefault {
		createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
