package domain

import (
	"fmt"
	"time"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Appointment зафиксированная запись клиента к сотруднику на услугу
type Appointment struct {
	ID         int64
	BusinessID int64
	StaffID    int64
	ClientID   int64
	ServiceID  int64

	ScheduledFor    time.Time // абсолютное время начала
	DurationMinutes int       // снимок длительности услуги на момент записи
	Status          AppointmentStatus

	// SlotKey ключ группового слота (услуга + сотрудник + начало), SeatNo номер места в нем
	SlotKey string
	SeatNo  int

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt время окончания (полуоткрытый интервал [ScheduledFor, EndsAt))
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledFor.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive true для всех статусов кроме CANCELLED: PENDING тоже занимает время
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled отменить можно только еще не завершенную запись
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// GroupSlotKey ключ группового слота: все записи на одну услугу к одному сотруднику
// с одинаковым началом делят вместимость услуги
func GroupSlotKey(serviceID, staffID int64, start time.Time) string {
	return fmt.Sprintf("%d:%d:%d", serviceID, staffID, start.UTC().Unix())
}

// StaffDayFilter фильтр записей сотрудника за день
type StaffDayFilter struct {
	StaffID         int64
	From            time.Time // начало дня (включительно)
	To              time.Time // конец дня (не включительно)
	IncludeInactive bool      // включать отмененные
}

// ClientFilter фильтр истории записей клиента
type ClientFilter struct {
	ClientID int64
	Status   *AppointmentStatus
}
