package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestEngine_ContinuousWithLunchBreak(t *testing.T) {
	business := businessProfile(withLunch(openHours(time.Monday, "09:00", "18:00"), "12:00", "13:00"))
	engine := NewEngine(&recordingLogger{})

	result, err := engine.Resolve(planFor(anyTimeService(60), business))
	require.NoError(t, err)

	assert.False(t, result.Closed)
	assert.Equal(t, domain.SlotModelContinuous, result.Model)
	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
	}, times(result.Slots, true))

	// Недоступные кандидаты тоже возвращаются
	assert.Len(t, result.Slots, 17)
	lunch := byStart(result.Slots, "11:30")
	assert.False(t, lunch.Available)
	assert.Equal(t, domain.ReasonLunchBreak, lunch.Reason)
}

func TestEngine_ContinuousMarksOccupied(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "12:00"))
	engine := NewEngine(&recordingLogger{})

	// [10:15, 10:45) блокирует 09:30, 10:00 и 10:30 для часовой услуги
	booked := appointmentAt(monday, "10:15", 30, 99, 7)
	cancelled := appointmentAt(monday, "09:00", 60, 99, 8)
	cancelled.Status = domain.StatusCancelled

	result, err := engine.Resolve(planFor(anyTimeService(60), business, booked, cancelled))
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "11:00"}, times(result.Slots, true))
	assert.Equal(t, domain.ReasonOccupied, byStart(result.Slots, "10:00").Reason)
}

func TestEngine_PendingAppointmentOccupies(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "11:00"))
	engine := NewEngine(&recordingLogger{})

	pending := appointmentAt(monday, "09:00", 60, 99, 7)
	pending.Status = domain.StatusPending

	result, err := engine.Resolve(planFor(anyTimeService(60), business, pending))
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, times(result.Slots, true))
}

func TestEngine_DurationBoundary(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "18:00"))
	plan := planFor(anyTimeService(60), business)
	plan.Staff.Schedule = []domain.StaffDaySchedule{{Weekday: time.Monday, Start: "09:00", End: "10:00"}}

	result, err := NewEngine(&recordingLogger{}).Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, times(result.Slots, false))

	plan.Service = anyTimeService(61)
	result, err = NewEngine(&recordingLogger{}).Resolve(plan)
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
}

func TestEngine_ClosedDayIsEmptyForEveryModel(t *testing.T) {
	closedMonday := openHours(time.Monday, "09:00", "18:00")
	closedMonday.IsOpen = false
	business := businessProfile(closedMonday)
	engine := NewEngine(&recordingLogger{})

	for _, service := range []*domain.Service{anyTimeService(30), gridService(60)} {
		result, err := engine.Resolve(planFor(service, business))
		require.NoError(t, err)
		assert.True(t, result.Closed)
		assert.Equal(t, domain.ReasonBusinessClosed, result.Reason)
		assert.Empty(t, result.Slots)
	}
}

func TestEngine_PastDateAndToday(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "12:00"))
	engine := NewEngine(&recordingLogger{})

	plan := planFor(anyTimeService(60), business)
	plan.Now = monday.AddDate(0, 0, 1)
	result, err := engine.Resolve(plan)
	require.NoError(t, err)
	assert.True(t, result.Closed)
	assert.Equal(t, domain.ReasonPastDate, result.Reason)

	plan.Now = monday.Add(10*time.Hour + 10*time.Minute)
	result, err = engine.Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:30", "11:00"}, times(result.Slots, true))
	assert.Equal(t, domain.ReasonPastTime, byStart(result.Slots, "10:00").Reason)
}

func TestEngine_ExplicitWindows(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "18:00"))
	service := anyTimeService(60)
	service.Availability = domain.ServiceAvailability{
		Windows: domain.ByDay{Days: map[time.Weekday][]domain.SlotWindow{
			time.Monday: {
				{StartTime: "11:00", EndTime: "12:00"},
				{StartTime: "09:00", EndTime: "10:00"},
				{StartTime: "14:00", EndTime: "14:30"},
			},
		}},
	}
	booked := appointmentAt(monday, "11:30", 30, 99, 7)

	logger := &recordingLogger{}
	result, err := NewEngine(logger).Resolve(planFor(service, business, booked))
	require.NoError(t, err)

	assert.False(t, result.FellBack)
	assert.Equal(t, []string{"09:00", "11:00", "14:00"}, times(result.Slots, false))
	assert.True(t, byStart(result.Slots, "09:00").Available)
	assert.Equal(t, domain.ReasonOccupied, byStart(result.Slots, "11:00").Reason)
	assert.Equal(t, domain.ReasonWindowTooShort, byStart(result.Slots, "14:00").Reason)
	assert.Empty(t, logger.warns)
}

func TestEngine_ExplicitWindowsFallBackOnParseError(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "11:00"))
	service := anyTimeService(60)
	service.Availability = domain.ServiceAvailability{
		Windows: domain.ExplicitList{Windows: []domain.SlotWindow{
			{StartTime: "9am", EndTime: "10:00"},
		}},
	}

	logger := &recordingLogger{}
	result, err := NewEngine(logger).Resolve(planFor(service, business))
	require.NoError(t, err)

	assert.True(t, result.FellBack)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, times(result.Slots, true))
	assert.Len(t, logger.warns, 1)
}

func TestEngine_WindowsFailedToLoadFallBack(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "10:00"))
	service := anyTimeService(60)
	service.Availability = domain.ServiceAvailability{WindowsError: "unexpected shape"}

	logger := &recordingLogger{}
	result, err := NewEngine(logger).Resolve(planFor(service, business))
	require.NoError(t, err)

	assert.True(t, result.FellBack)
	assert.Equal(t, []string{"09:00"}, times(result.Slots, true))
	assert.Len(t, logger.warns, 1)
}

func TestEngine_GroupCapacity(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "11:00"))
	service := anyTimeService(60)
	service.Capacity = 3

	first := appointmentAt(monday, "09:00", 60, service.ID, 1)
	second := appointmentAt(monday, "09:00", 60, service.ID, 2)

	result, err := NewEngine(&recordingLogger{}).Resolve(planFor(service, business, first, second))
	require.NoError(t, err)

	slot := byStart(result.Slots, "09:00")
	assert.True(t, slot.Available)
	assert.Equal(t, 1, slot.AvailableSpots)
	assert.Equal(t, 3, slot.TotalSpots)

	// 09:30 пересекается с групповым слотом 09:00, это уже чужое время
	assert.Equal(t, domain.ReasonOccupied, byStart(result.Slots, "09:30").Reason)

	third := appointmentAt(monday, "09:00", 60, service.ID, 3)
	result, err = NewEngine(&recordingLogger{}).Resolve(planFor(service, business, first, second, third))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonCapacityExhausted, byStart(result.Slots, "09:00").Reason)
}

func TestEngine_AvailableSlotsNeverOverlapBusyOrLunch(t *testing.T) {
	business := businessProfile(withLunch(openHours(time.Monday, "08:00", "20:00"), "13:00", "14:00"))
	engine := NewEngine(&recordingLogger{})

	placements := [][]string{
		{"08:10"}, {"09:00", "11:45"}, {"12:30", "15:15", "18:50"}, {"10:00", "10:20", "10:40"},
	}

	for _, starts := range placements {
		appointments := make([]*domain.Appointment, 0, len(starts))
		for i, s := range starts {
			appointments = append(appointments, appointmentAt(monday, s, 25, 99, int64(i+1)))
		}

		for _, duration := range []int{15, 30, 45, 90} {
			plan := planFor(anyTimeService(duration), business, appointments...)
			result, err := engine.Resolve(plan)
			require.NoError(t, err)

			busy := BusyFromAppointments(plan.Date, appointments)
			for _, slot := range result.Slots {
				if !slot.Available {
					continue
				}
				start, _ := slot.StartTime.Minutes()
				iv := Interval{Start: start, End: start + duration}
				for _, b := range busy {
					assert.False(t, iv.Overlaps(b.Interval), "slot %s overlaps appointment", slot.StartTime)
				}
				for _, lunch := range result.Window.Excluded {
					assert.False(t, iv.Overlaps(lunch), "slot %s overlaps lunch", slot.StartTime)
				}
			}
		}
	}
}

func TestEngine_ResolveIsIdempotent(t *testing.T) {
	business := businessProfile(withLunch(openHours(time.Monday, "09:00", "18:00"), "12:00", "13:00"))
	plan := planFor(gridService(60), business, appointmentAt(monday, "10:00", 30, 99, 1))
	engine := NewEngine(&recordingLogger{})

	first, err := engine.Resolve(plan)
	require.NoError(t, err)
	second, err := engine.Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_CheckStart(t *testing.T) {
	business := businessProfile(withLunch(openHours(time.Monday, "09:00", "18:00"), "12:00", "13:00"))
	plan := planFor(anyTimeService(60), business, appointmentAt(monday, "15:00", 60, 99, 1))
	engine := NewEngine(&recordingLogger{})

	tests := []struct {
		name      string
		start     int
		available bool
		reason    string
	}{
		{name: "free step start", start: 9*60 + 30, available: true},
		{name: "off-step start", start: 9*60 + 15, reason: domain.ReasonOffStep},
		{name: "hits lunch", start: 11*60 + 30, reason: domain.ReasonLunchBreak},
		{name: "hits appointment", start: 14*60 + 30, reason: domain.ReasonOccupied},
		{name: "runs past closing", start: 17*60 + 30, reason: domain.ReasonOutsideWorkingHours},
		{name: "before opening", start: 8 * 60, reason: domain.ReasonOutsideWorkingHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := engine.CheckStart(plan, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.available, slot.Available)
			assert.Equal(t, tt.reason, slot.Reason)
		})
	}
}

func TestEngine_CheckStartExplicitRequiresWindowStart(t *testing.T) {
	business := businessProfile(openHours(time.Monday, "09:00", "18:00"))
	service := anyTimeService(60)
	service.Availability = domain.ServiceAvailability{
		Windows: domain.ExplicitList{Windows: []domain.SlotWindow{{StartTime: "10:00", EndTime: "11:00"}}},
	}
	engine := NewEngine(&recordingLogger{})

	slot, err := engine.CheckStart(planFor(service, business), 10*60)
	require.NoError(t, err)
	assert.True(t, slot.Available)

	slot, err = engine.CheckStart(planFor(service, business), 10*60+30)
	require.NoError(t, err)
	assert.False(t, slot.Available)
}

func TestEngine_InvalidPlan(t *testing.T) {
	_, err := NewEngine(&recordingLogger{}).Resolve(&DayPlan{Date: monday})
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestEngine_WallClockOnDaylightSavingDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2026-03-29 в Берлине часы переводятся с 02:00 на 03:00
	day := time.Date(2026, 3, 29, 0, 0, 0, 0, berlin)
	business := businessProfile(openHours(time.Sunday, "09:00", "12:00"))
	require.NoError(t, business.Business.SetTimezone("Europe/Berlin"))

	booked := &domain.Appointment{
		StaffID:         5,
		ClientID:        7,
		ServiceID:       99,
		ScheduledFor:    time.Date(2026, 3, 29, 10, 0, 0, 0, berlin),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
	plan := planFor(anyTimeService(60), business, booked)
	plan.Date = day
	plan.Now = day.AddDate(0, 0, -1)

	result, err := NewEngine(&recordingLogger{}).Resolve(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, times(result.Slots, true))
	assert.Equal(t, domain.ReasonOccupied, byStart(result.Slots, "10:00").Reason)

	busy := BusyFromAppointments(day, []*domain.Appointment{booked})
	require.Len(t, busy, 1)
	assert.Equal(t, Interval{Start: 600, End: 660}, busy[0].Interval)

	assert.True(t, AtMinute(day, 600).Equal(booked.ScheduledFor))
	assert.Equal(t, 600, MinuteOfDay(booked.ScheduledFor.UTC(), berlin))
}
