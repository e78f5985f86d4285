package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model (непрерывная модель и явные окна)
type CreateAppointmentRequest struct {
	ClientID     int64     `json:"clientId" validate:"omitempty,gt=0"` // по умолчанию сам пользователь
	BusinessID   int64     `json:"businessId" validate:"required,gt=0"`
	ServiceID    int64     `json:"serviceId" validate:"required,gt=0"`
	StaffID      int64     `json:"staffId" validate:"required,gt=0"`
	ScheduledFor time.Time `json:"scheduledFor" validate:"required"` // RFC3339
	Notes        *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CreateGridAppointmentRequest HTTP request model для сетки слотов
type CreateGridAppointmentRequest struct {
	ClientID    int64   `json:"clientId" validate:"omitempty,gt=0"`
	BusinessID  int64   `json:"businessId" validate:"required,gt=0"`
	ServiceID   int64   `json:"serviceId" validate:"required,gt=0"`
	StaffID     int64   `json:"staffId" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required"` // "2025-10-15"
	StartSlot   *int    `json:"startSlot" validate:"required,gte=0"`
	SlotsNeeded int     `json:"slotsNeeded" validate:"required,gt=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	StaffID         int64   `json:"staffId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	ScheduledFor    string  `json:"scheduledFor"`
	EndsAt          string  `json:"endsAt"`
	DurationMinutes int     `json:"durationMinutes"`
	SlotIndex       *int    `json:"slotIndex,omitempty"`
	SlotsNeeded     int     `json:"slotsNeeded,omitempty"`
	SeatNo          int     `json:"seatNo"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actorID int64) *createAppointment.Request {
	return &createAppointment.Request{
		ActorID:      actorID,
		ClientID:     clientOrActor(r.ClientID, actorID),
		BusinessID:   r.BusinessID,
		ServiceID:    r.ServiceID,
		StaffID:      r.StaffID,
		ScheduledFor: r.ScheduledFor,
		Notes:        r.Notes,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты)
func (r *CreateGridAppointmentRequest) ToUseCaseRequest(actorID int64) (*createAppointment.GridRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createAppointment.GridRequest{
		ActorID:     actorID,
		ClientID:    clientOrActor(r.ClientID, actorID),
		BusinessID:  r.BusinessID,
		ServiceID:   r.ServiceID,
		StaffID:     r.StaffID,
		Date:        date,
		StartSlot:   *r.StartSlot,
		SlotsNeeded: r.SlotsNeeded,
		Notes:       r.Notes,
	}, nil
}

func clientOrActor(clientID, actorID int64) int64 {
	if clientID == 0 {
		return actorID
	}
	return clientID
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		StaffID:         resp.StaffID,
		ClientID:        resp.ClientID,
		ServiceID:       resp.ServiceID,
		ScheduledFor:    resp.ScheduledFor.Format(time.RFC3339),
		EndsAt:          resp.EndsAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		SlotIndex:       resp.SlotIndex,
		SlotsNeeded:     resp.SlotsNeeded,
		SeatNo:          resp.SeatNo,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
