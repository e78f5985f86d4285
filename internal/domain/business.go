package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidTimezone зона бизнеса не найдена в базе IANA
var ErrInvalidTimezone = errors.New("invalid business timezone")

// Business арендатор платформы
type Business struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA, пусто = UTC

	loc *time.Location
}

// LoadTimezone разбирает IANA зону, пустая строка означает UTC
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// SetTimezone задает зону и разбирает ее один раз
func (b *Business) SetTimezone(name string) error {
	loc, err := LoadTimezone(name)
	if err != nil {
		return err
	}
	b.Timezone = name
	b.loc = loc
	return nil
}

// Location зона бизнеса, к которой привязаны даты и время "HH:MM".
// Бизнес из репозитория или кэша всегда приходит с разобранной зоной.
func (b *Business) Location() *time.Location {
	if b.loc != nil {
		return b.loc
	}
	loc, err := LoadTimezone(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UnmarshalJSON восстанавливает зону при чтении из кэша
func (b *Business) UnmarshalJSON(data []byte) error {
	type plain Business
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Business(p)
	return b.SetTimezone(b.Timezone)
}

// BusinessHours часы работы бизнеса в конкретный день недели.
// При IsOpen=false остальные поля игнорируются.
type BusinessHours struct {
	BusinessID      int64             `json:"businessId"`
	Weekday         time.Weekday      `json:"weekday"`
	IsOpen          bool              `json:"isOpen"`
	Start           types.TimeString  `json:"start"`
	End             types.TimeString  `json:"end"`
	LunchBreakStart *types.TimeString `json:"lunchBreakStart,omitempty"`
	LunchBreakEnd   *types.TimeString `json:"lunchBreakEnd,omitempty"`
}

// HasLunchBreak true, если задан обеденный перерыв
func (h *BusinessHours) HasLunchBreak() bool {
	return h.LunchBreakStart != nil && h.LunchBreakEnd != nil &&
		!h.LunchBreakStart.IsZero() && !h.LunchBreakEnd.IsZero()
}

// BusinessProfile бизнес вместе с недельным расписанием
type BusinessProfile struct {
	Business Business        `json:"business"`
	Hours    []BusinessHours `json:"hours"`
}

// HoursFor расписание на день недели, nil если строки нет
func (p *BusinessProfile) HoursFor(weekday time.Weekday) *BusinessHours {
	for i := range p.Hours {
		if p.Hours[i].Weekday == weekday {
			return &p.Hours[i]
		}
	}
	return nil
}

// StaffMember сотрудник бизнеса
type StaffMember struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	Name       string `json:"name"`
	IsActive   bool   `json:"isActive"`
}

// StaffDaySchedule личный график сотрудника на день недели
type StaffDaySchedule struct {
	Weekday         time.Weekday      `json:"weekday"`
	Start           types.TimeString  `json:"start"`
	End             types.TimeString  `json:"end"`
	LunchBreakStart *types.TimeString `json:"lunchBreakStart,omitempty"`
	LunchBreakEnd   *types.TimeString `json:"lunchBreakEnd,omitempty"`
}

// HasLunchBreak true, если задан обеденный перерыв
func (s *StaffDaySchedule) HasLunchBreak() bool {
	return s.LunchBreakStart != nil && s.LunchBreakEnd != nil &&
		!s.LunchBreakStart.IsZero() && !s.LunchBreakEnd.IsZero()
}

// StaffProfile сотрудник и его недельный график.
// Отсутствие дня в Schedule означает отсутствие личных ограничений.
type StaffProfile struct {
	Staff    StaffMember        `json:"staff"`
	Schedule []StaffDaySchedule `json:"schedule"`
}

// ScheduleFor график на день недели, nil если не задан
func (p *StaffProfile) ScheduleFor(weekday time.Weekday) *StaffDaySchedule {
	for i := range p.Schedule {
		if p.Schedule[i].Weekday == weekday {
			return &p.Schedule[i]
		}
	}
	return nil
}
