package scheduling

import (
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// monday 2025-03-03
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func openHours(weekday time.Weekday, start, end string) domain.BusinessHours {
	return domain.BusinessHours{
		BusinessID: 1,
		Weekday:    weekday,
		IsOpen:     true,
		Start:      types.TimeString(start),
		End:        types.TimeString(end),
	}
}

func withLunch(h domain.BusinessHours, start, end string) domain.BusinessHours {
	h.LunchBreakStart = ptr.Ptr(types.TimeString(start))
	h.LunchBreakEnd = ptr.Ptr(types.TimeString(end))
	return h
}

func businessProfile(hours ...domain.BusinessHours) *domain.BusinessProfile {
	return &domain.BusinessProfile{
		Business: domain.Business{ID: 1, Name: "Studio"},
		Hours:    hours,
	}
}

func anyTimeService(duration int) *domain.Service {
	return &domain.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Consultation",
		DurationMinutes: duration,
		Capacity:        1,
		SlotModel:       domain.SlotModelContinuous,
		Availability:    domain.ServiceAvailability{AnyTimeAvailable: true},
	}
}

func gridService(duration int) *domain.Service {
	s := anyTimeService(duration)
	s.SlotModel = domain.SlotModelGrid
	return s
}

func appointmentAt(date time.Time, hhmm string, duration int, serviceID, clientID int64) *domain.Appointment {
	start, err := types.TimeString(hhmm).On(date)
	if err != nil {
		panic(err)
	}
	return &domain.Appointment{
		BusinessID:      1,
		StaffID:         5,
		ClientID:        clientID,
		ServiceID:       serviceID,
		ScheduledFor:    start,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func planFor(service *domain.Service, business *domain.BusinessProfile, appointments ...*domain.Appointment) *DayPlan {
	return &DayPlan{
		Date:         monday,
		Now:          monday.AddDate(0, 0, -2),
		Business:     business,
		Staff:        &domain.StaffProfile{Staff: domain.StaffMember{ID: 5, BusinessID: 1, IsActive: true}},
		Service:      service,
		SlotConfig:   domain.DefaultSlotConfiguration(1),
		Appointments: appointments,
	}
}

func times(slots []domain.SlotDescriptor, onlyAvailable bool) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if onlyAvailable && !s.Available {
			continue
		}
		out = append(out, s.StartTime.String())
	}
	return out
}

func bySlotIndex(slots []domain.SlotDescriptor, index int) domain.SlotDescriptor {
	for _, s := range slots {
		if s.SlotIndex != nil && *s.SlotIndex == index {
			return s
		}
	}
	panic(fmt.Sprintf("slot index %d not generated", index))
}

func byStart(slots []domain.SlotDescriptor, hhmm string) domain.SlotDescriptor {
	for _, s := range slots {
		if s.StartTime != nil && s.StartTime.String() == hhmm {
			return s
		}
	}
	panic(fmt.Sprintf("slot %s not generated", hhmm))
}
