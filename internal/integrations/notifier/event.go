package notifier

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EventType тип события о записи
type EventType string

const (
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentCancelled EventType = "appointment.cancelled"
)

// Event событие для сервиса уведомлений. Доставкой клиенту занимается получатель.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	AppointmentID int64     `json:"appointmentId"`
	BusinessID    int64     `json:"businessId"`
	StaffID       int64     `json:"staffId"`
	ClientID      int64     `json:"clientId"`
	ServiceID     int64     `json:"serviceId"`
	ScheduledFor  time.Time `json:"scheduledFor"`
	Reason        *string   `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent собирает событие по записи
func NewEvent(eventType EventType, a *domain.Appointment, occurredAt time.Time) Event {
	e := Event{
		Type:          eventType,
		AppointmentID: a.ID,
		BusinessID:    a.BusinessID,
		StaffID:       a.StaffID,
		ClientID:      a.ClientID,
		ServiceID:     a.ServiceID,
		ScheduledFor:  a.ScheduledFor,
		OccurredAt:    occurredAt,
	}
	if eventType == EventAppointmentCancelled {
		e.Reason = a.CancellationReason
	}
	return e
}
