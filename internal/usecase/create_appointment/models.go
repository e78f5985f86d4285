package create_appointment

import "time"

// Request запись на произвольное время (непрерывная модель и явные окна)
type Request struct {
	ActorID      int64     // кто создает запись: сам клиент или сотрудник бизнеса
	ClientID     int64     // ID клиента
	BusinessID   int64     // ID бизнеса
	ServiceID    int64     // ID услуги
	StaffID      int64     // ID сотрудника
	ScheduledFor time.Time // абсолютное время начала
	Notes        *string   // заметки (опционально)
}

// GridRequest запись на индекс сетки слотов бизнеса
type GridRequest struct {
	ActorID     int64
	ClientID    int64
	BusinessID  int64
	ServiceID   int64
	StaffID     int64
	Date        time.Time // календарная дата в зоне бизнеса
	StartSlot   int       // индекс первого слота
	SlotsNeeded int       // должен совпадать с расчетом по длительности услуги
	Notes       *string
}

// Response созданная запись
type Response struct {
	ID              int64
	BusinessID      int64
	StaffID         int64
	ClientID        int64
	ServiceID       int64
	ScheduledFor    time.Time
	EndsAt          time.Time
	DurationMinutes int
	SlotIndex       *int // только для сетки
	SlotsNeeded     int
	SeatNo          int
	Status          string

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
