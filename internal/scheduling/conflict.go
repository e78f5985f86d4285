package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Busy занятый интервал сотрудника
type Busy struct {
	Interval
	ServiceID int64
	ClientID  int64
}

// BusyFromAppointments переводит записи в интервалы по настенным часам day.
// Отмененные записи время не занимают, PENDING занимает.
func BusyFromAppointments(day time.Time, appointments []*domain.Appointment) []Busy {
	busy := make([]Busy, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		start := MinuteOfDay(a.ScheduledFor, day.Location())
		busy = append(busy, Busy{
			Interval:  Interval{Start: start, End: start + a.DurationMinutes},
			ServiceID: a.ServiceID,
			ClientID:  a.ClientID,
		})
	}
	return busy
}

// Occupancy занятость сотрудника на день с точки зрения конкретной услуги
type Occupancy struct {
	Busy      []Busy
	Excluded  []Interval
	ServiceID int64
	Capacity  int
	// NotBefore слоты, начинающиеся раньше этой минуты, уже прошли
	NotBefore int
}

// Verdict результат проверки одного кандидата
type Verdict struct {
	Available bool
	Reason    string
	Spots     int // свободные места, 0 если слот недоступен
	Taken     int // места, уже занятые записями группового слота
}

// isGroupMember запись относится к тому же групповому слоту, что и кандидат
func (o Occupancy) isGroupMember(b Busy, candidateStart int) bool {
	return o.Capacity > 1 && b.ServiceID == o.ServiceID && b.Start == candidateStart
}

// blocked true, если интервал пересекается с обедом или чужой записью.
// Записи группового слота, начинающегося в groupStart, не мешают.
func (o Occupancy) blocked(iv Interval, groupStart int) (bool, string) {
	for _, lunch := range o.Excluded {
		if iv.Overlaps(lunch) {
			return true, domain.ReasonLunchBreak
		}
	}
	for _, b := range o.Busy {
		if o.isGroupMember(b, groupStart) {
			continue
		}
		if iv.Overlaps(b.Interval) {
			return true, domain.ReasonOccupied
		}
	}
	return false, ""
}

// groupTaken количество записей в групповом слоте, начинающемся в start
func (o Occupancy) groupTaken(start int) int {
	taken := 0
	for _, b := range o.Busy {
		if o.isGroupMember(b, start) {
			taken++
		}
	}
	return taken
}

// Check проверяет кандидата [Start, End): не в прошлом, не пересекается с обедом
// и чужими записями, в групповом слоте остались места.
func (o Occupancy) Check(iv Interval) Verdict {
	capacity := max(o.Capacity, 1)
	taken := o.groupTaken(iv.Start)

	if iv.Start < o.NotBefore {
		return Verdict{Reason: domain.ReasonPastTime, Taken: taken}
	}
	if isBlocked, reason := o.blocked(iv, iv.Start); isBlocked {
		return Verdict{Reason: reason, Taken: taken}
	}
	if taken >= capacity {
		return Verdict{Reason: domain.ReasonCapacityExhausted, Taken: taken}
	}
	return Verdict{Available: true, Spots: capacity - taken, Taken: taken}
}

// ClientEnrolled true, если клиент уже записан в групповой слот или на это же время
func (o Occupancy) ClientEnrolled(clientID int64, start int) bool {
	for _, b := range o.Busy {
		if b.ClientID == clientID && b.ServiceID == o.ServiceID && b.Start == start {
			return true
		}
	}
	return false
}
