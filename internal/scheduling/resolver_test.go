package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestResolve_BusinessClosed(t *testing.T) {
	closedHours := openHours(time.Monday, "09:00", "18:00")
	closedHours.IsOpen = false

	tests := []struct {
		name  string
		hours *domain.BusinessHours
	}{
		{name: "no row", hours: nil},
		{name: "is_open false", hours: &closedHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Resolve(Constraints{Weekday: time.Monday, Hours: tt.hours, Service: anyTimeService(60)})
			require.NoError(t, err)
			assert.True(t, w.Closed)
			assert.Equal(t, domain.ReasonBusinessClosed, w.Reason)
		})
	}
}

func TestResolve_ServiceUnavailableDay(t *testing.T) {
	hours := openHours(time.Monday, "09:00", "18:00")
	service := anyTimeService(60)
	service.Availability.AvailableDays = domain.Weekdays{time.Tuesday, time.Thursday}

	w, err := Resolve(Constraints{Weekday: time.Monday, Hours: &hours, Service: service})
	require.NoError(t, err)
	assert.True(t, w.Closed)
	assert.Equal(t, domain.ReasonServiceUnavailableDay, w.Reason)
}

func TestResolve_TightestBoundsWin(t *testing.T) {
	hours := withLunch(openHours(time.Monday, "09:00", "18:00"), "12:00", "13:00")
	staff := &domain.StaffDaySchedule{
		Weekday:         time.Monday,
		Start:           "10:00",
		End:             "20:00",
		LunchBreakStart: ptr.Ptr(types.TimeString("14:00")),
		LunchBreakEnd:   ptr.Ptr(types.TimeString("14:30")),
	}
	service := anyTimeService(30)
	service.Availability = domain.ServiceAvailability{
		Windows: domain.ExplicitList{Windows: []domain.SlotWindow{
			{StartTime: "08:00", EndTime: "11:00"},
			{StartTime: "15:00", EndTime: "17:00"},
		}},
	}

	w, err := Resolve(Constraints{Weekday: time.Monday, Hours: &hours, Staff: staff, Service: service})
	require.NoError(t, err)

	assert.False(t, w.Closed)
	assert.Equal(t, 10*60, w.Start)
	assert.Equal(t, 17*60, w.End)
	assert.Equal(t, []Interval{{Start: 12 * 60, End: 13 * 60}, {Start: 14 * 60, End: 14*60 + 30}}, w.Excluded)
}

func TestResolve_NoValidWindow(t *testing.T) {
	hours := openHours(time.Monday, "09:00", "18:00")
	staff := &domain.StaffDaySchedule{Weekday: time.Monday, Start: "18:00", End: "21:00"}

	w, err := Resolve(Constraints{Weekday: time.Monday, Hours: &hours, Staff: staff, Service: anyTimeService(60)})
	require.NoError(t, err)
	assert.True(t, w.Closed)
	assert.Equal(t, domain.ReasonNoValidWindow, w.Reason)
}

func TestResolve_MalformedBusinessHours(t *testing.T) {
	hours := openHours(time.Monday, "nine", "18:00")

	_, err := Resolve(Constraints{Weekday: time.Monday, Hours: &hours, Service: anyTimeService(60)})
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestResolve_IsDeterministic(t *testing.T) {
	hours := withLunch(openHours(time.Monday, "09:00", "18:00"), "12:00", "13:00")
	c := Constraints{Weekday: time.Monday, Hours: &hours, Service: anyTimeService(60)}

	first, err := Resolve(c)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
