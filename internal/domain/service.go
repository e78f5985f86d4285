package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SlotModel модель нарезки слотов для услуги
type SlotModel string

const (
	// SlotModelContinuous произвольное начало с шагом ContinuousStepMinutes или явные окна услуги
	SlotModelContinuous SlotModel = "continuous"
	// SlotModelGrid сетка фиксированных слотов бизнеса
	SlotModelGrid SlotModel = "grid"
)

// ErrMalformedWindows некорректная конфигурация окон услуги
var ErrMalformedWindows = errors.New("domain: malformed service slot windows")

// Service услуга бизнеса
type Service struct {
	ID              int64               `json:"id"`
	BusinessID      int64               `json:"businessId"`
	Name            string              `json:"name"`
	DurationMinutes int                 `json:"durationMinutes"`
	Price           float64             `json:"price"`
	Capacity        int                 `json:"capacity"` // мест в групповом слоте, 1 = индивидуальная запись
	SlotModel       SlotModel           `json:"slotModel"`
	Availability    ServiceAvailability `json:"availability"`
}

// EffectiveCapacity вместимость слота, не меньше 1
func (s *Service) EffectiveCapacity() int {
	if s.Capacity < 1 {
		return 1
	}
	return s.Capacity
}

// ServiceAvailability ограничения услуги по дням и времени
type ServiceAvailability struct {
	AvailableDays    Weekdays // пусто = все дни
	AnyTimeAvailable bool
	Windows          SlotWindows // nil = явных окон нет
	// WindowsError заполняется, если окна не удалось разобрать при загрузке
	WindowsError string
}

// IsAvailableOn проверяет ограничение по дням недели
func (a ServiceAvailability) IsAvailableOn(weekday time.Weekday) bool {
	return len(a.AvailableDays) == 0 || a.AvailableDays.Contains(weekday)
}

// UsesExplicitWindows true, если слоты берутся из явных окон услуги
func (a ServiceAvailability) UsesExplicitWindows() bool {
	return !a.AnyTimeAvailable && a.Windows != nil
}

type serviceAvailabilityJSON struct {
	AvailableDays    Weekdays        `json:"availableDays,omitempty"`
	AnyTimeAvailable bool            `json:"anyTimeAvailable"`
	Windows          json.RawMessage `json:"windows,omitempty"`
	WindowsError     string          `json:"windowsError,omitempty"`
}

func (a ServiceAvailability) MarshalJSON() ([]byte, error) {
	out := serviceAvailabilityJSON{
		AvailableDays:    a.AvailableDays,
		AnyTimeAvailable: a.AnyTimeAvailable,
		WindowsError:     a.WindowsError,
	}
	if a.Windows != nil {
		raw, err := json.Marshal(a.Windows)
		if err != nil {
			return nil, err
		}
		out.Windows = raw
	}
	return json.Marshal(out)
}

func (a *ServiceAvailability) UnmarshalJSON(data []byte) error {
	var in serviceAvailabilityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.AvailableDays = in.AvailableDays
	a.AnyTimeAvailable = in.AnyTimeAvailable
	a.WindowsError = in.WindowsError
	a.Windows = nil

	if len(in.Windows) > 0 {
		windows, err := ParseSlotWindows(in.Windows)
		if err != nil {
			return err
		}
		a.Windows = windows
	}
	return nil
}

// SlotWindowsKind вариант конфигурации окон
type SlotWindowsKind string

const (
	WindowsExplicitList SlotWindowsKind = "explicit-list"
	WindowsByDay        SlotWindowsKind = "by-day"
)

// SlotWindows явные окна услуги. Вариант выбирается один раз при загрузке конфигурации.
type SlotWindows interface {
	Kind() SlotWindowsKind
	// For окна, применимые к дню недели
	For(weekday time.Weekday) []SlotWindow
}

// SlotWindow явное окно услуги. Время хранится как есть, разбирается генератором слотов.
type SlotWindow struct {
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	AvailableDays Weekdays `json:"availableDays,omitempty"`
}

// ExplicitList список окон, каждое со своим необязательным фильтром дней
type ExplicitList struct {
	Windows []SlotWindow
}

func (ExplicitList) Kind() SlotWindowsKind { return WindowsExplicitList }

func (l ExplicitList) For(weekday time.Weekday) []SlotWindow {
	result := make([]SlotWindow, 0, len(l.Windows))
	for _, w := range l.Windows {
		if len(w.AvailableDays) == 0 || w.AvailableDays.Contains(weekday) {
			result = append(result, w)
		}
	}
	return result
}

func (l ExplicitList) MarshalJSON() ([]byte, error) {
	if l.Windows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Windows)
}

// ByDay окна, сгруппированные по дням недели
type ByDay struct {
	Days map[time.Weekday][]SlotWindow
}

func (ByDay) Kind() SlotWindowsKind { return WindowsByDay }

func (d ByDay) For(weekday time.Weekday) []SlotWindow {
	return d.Days[weekday]
}

func (d ByDay) MarshalJSON() ([]byte, error) {
	out := make(map[string][]SlotWindow, len(d.Days))
	for day, windows := range d.Days {
		out[weekdayNames[day]] = windows
	}
	return json.Marshal(out)
}

// ParseSlotWindows разбирает окна услуги: JSON-массив дает ExplicitList,
// объект с именами дней дает ByDay, null или пусто дает nil.
func ParseSlotWindows(raw []byte) (SlotWindows, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var windows []SlotWindow
		if err := json.Unmarshal(trimmed, &windows); err != nil {
			return nil, fmt.Errorf("%w: explicit list: %v", ErrMalformedWindows, err)
		}
		return ExplicitList{Windows: windows}, nil

	case '{':
		var byName map[string][]SlotWindow
		if err := json.Unmarshal(trimmed, &byName); err != nil {
			return nil, fmt.Errorf("%w: by day: %v", ErrMalformedWindows, err)
		}
		days := make(map[time.Weekday][]SlotWindow, len(byName))
		for name, windows := range byName {
			day, err := ParseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("%w: by day: %v", ErrMalformedWindows, err)
			}
			days[day] = append(days[day], windows...)
		}
		return ByDay{Days: days}, nil

	default:
		return nil, fmt.Errorf("%w: unexpected shape", ErrMalformedWindows)
	}
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// ParseWeekday принимает полное или трехбуквенное английское имя дня
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for day, full := range weekdayNames {
		if n == full || (len(n) == 3 && strings.HasPrefix(full, n)) {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// Weekdays набор дней недели, в JSON передается именами ("monday", ...)
type Weekdays []time.Weekday

// Contains проверяет вхождение дня
func (w Weekdays) Contains(day time.Weekday) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

func (w Weekdays) MarshalJSON() ([]byte, error) {
	sorted := append(Weekdays(nil), w...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	names := make([]string, len(sorted))
	for i, d := range sorted {
		names[i] = weekdayNames[d]
	}
	return json.Marshal(names)
}

// UnmarshalJSON принимает имена дней или числа 0-6 (0 = воскресенье)
func (w *Weekdays) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	days := make(Weekdays, 0, len(raw))
	for _, item := range raw {
		var num int
		if err := json.Unmarshal(item, &num); err == nil {
			if num < 0 || num > 6 {
				return fmt.Errorf("weekday %d out of range", num)
			}
			days = append(days, time.Weekday(num))
			continue
		}
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return fmt.Errorf("weekday must be a name or a number: %s", string(item))
		}
		day, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		days = append(days, day)
	}
	*w = days
	return nil
}
