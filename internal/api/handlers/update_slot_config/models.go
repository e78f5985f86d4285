package update_slot_config

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig/models"
)

// UpdateSlotConfigRequest HTTP request model. Инварианты сетки проверяет сервис,
// здесь только грубые границы.
type UpdateSlotConfigRequest struct {
	SlotDurationMinutes *int `json:"slotDurationMinutes,omitempty" validate:"omitempty,gte=5,lte=60"`
	SlotsPerDay         *int `json:"slotsPerDay,omitempty" validate:"omitempty,gt=0,lte=288"`
	StartHour           *int `json:"startHour,omitempty" validate:"omitempty,gte=0,lte=23"`
	EndHour             *int `json:"endHour,omitempty" validate:"omitempty,gte=1,lte=24"`
	WorkingStartSlot    *int `json:"workingStartSlot,omitempty" validate:"omitempty,gte=0"`
	WorkingEndSlot      *int `json:"workingEndSlot,omitempty" validate:"omitempty,gt=0"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSlotConfigRequest) ToServiceRequest(userID int64) *models.UpdateSlotConfigRequest {
	return &models.UpdateSlotConfigRequest{
		UserID:              userID,
		SlotDurationMinutes: r.SlotDurationMinutes,
		SlotsPerDay:         r.SlotsPerDay,
		StartHour:           r.StartHour,
		EndHour:             r.EndHour,
		WorkingStartSlot:    r.WorkingStartSlot,
		WorkingEndSlot:      r.WorkingEndSlot,
	}
}
