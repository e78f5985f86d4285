package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Window результат разрешения ограничений дня: либо закрыто с причиной,
// либо открытое окно [Start, End) с исключенными интервалами (обеды)
type Window struct {
	Closed   bool
	Reason   string
	Start    int
	End      int
	Excluded []Interval
}

// Interval открытое окно как интервал
func (w Window) Interval() Interval {
	return Interval{Start: w.Start, End: w.End}
}

func closed(reason string) Window {
	return Window{Closed: true, Reason: reason}
}

// Constraints источники ограничений на конкретный день недели.
// Hours == nil означает отсутствие строки часов работы, Staff == nil отсутствие личного графика.
type Constraints struct {
	Weekday time.Weekday
	Hours   *domain.BusinessHours
	Staff   *domain.StaffDaySchedule
	Service *domain.Service
}

// Resolve сводит часы бизнеса, график сотрудника и ограничения услуги в одно окно дня.
// Чистая функция: одинаковые входные данные всегда дают одинаковый результат.
func Resolve(c Constraints) (Window, error) {
	// 1. Бизнес закрыт
	if c.Hours == nil || !c.Hours.IsOpen {
		return closed(domain.ReasonBusinessClosed), nil
	}

	// 2. Услуга не оказывается в этот день недели
	if c.Service != nil && !c.Service.Availability.IsAvailableOn(c.Weekday) {
		return closed(domain.ReasonServiceUnavailableDay), nil
	}

	// 3. Пересечение границ: каждая необязательная граница только сужает окно
	business, err := parseBounds(c.Hours.Start, c.Hours.End)
	if err != nil {
		return Window{}, fmt.Errorf("business hours: %w", err)
	}
	start, end := business.Start, business.End

	if c.Service != nil {
		if bounds, ok := serviceBounds(c.Service, c.Weekday); ok {
			start = max(start, bounds.Start)
			end = min(end, bounds.End)
		}
	}

	if c.Staff != nil {
		staff, err := parseBounds(c.Staff.Start, c.Staff.End)
		if err != nil {
			return Window{}, fmt.Errorf("staff schedule: %w", err)
		}
		start = max(start, staff.Start)
		end = min(end, staff.End)
	}

	// 4. Пустое окно
	if start >= end {
		return closed(domain.ReasonNoValidWindow), nil
	}

	// 5. Обеденные перерывы бизнеса и сотрудника
	excluded := make([]Interval, 0, 2)
	if c.Hours.HasLunchBreak() {
		lunch, err := parseBounds(*c.Hours.LunchBreakStart, *c.Hours.LunchBreakEnd)
		if err != nil {
			return Window{}, fmt.Errorf("business lunch break: %w", err)
		}
		excluded = append(excluded, lunch)
	}
	if c.Staff != nil && c.Staff.HasLunchBreak() {
		lunch, err := parseBounds(*c.Staff.LunchBreakStart, *c.Staff.LunchBreakEnd)
		if err != nil {
			return Window{}, fmt.Errorf("staff lunch break: %w", err)
		}
		excluded = append(excluded, lunch)
	}

	return Window{Start: start, End: end, Excluded: excluded}, nil
}

// serviceBounds граница услуги на день: от самого раннего до самого позднего явного окна.
// Окна, которые не удалось разобрать, не ограничивают день, ими займется генератор слотов.
func serviceBounds(service *domain.Service, weekday time.Weekday) (Interval, bool) {
	if !service.Availability.UsesExplicitWindows() {
		return Interval{}, false
	}

	found := false
	var bounds Interval
	for _, w := range service.Availability.Windows.For(weekday) {
		iv, err := ParseInterval(w.StartTime, w.EndTime)
		if err != nil {
			continue
		}
		if !found {
			bounds = iv
			found = true
			continue
		}
		bounds.Start = min(bounds.Start, iv.Start)
		bounds.End = max(bounds.End, iv.End)
	}
	return bounds, found
}

func parseBounds(start, end types.TimeString) (Interval, error) {
	return ParseInterval(start.String(), end.String())
}
