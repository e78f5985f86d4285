package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotWindows_ExplicitList(t *testing.T) {
	raw := []byte(`[
		{"startTime": "09:00", "endTime": "10:00"},
		{"startTime": "15:00", "endTime": "16:00", "availableDays": ["saturday"]}
	]`)

	windows, err := ParseSlotWindows(raw)
	require.NoError(t, err)
	require.Equal(t, WindowsExplicitList, windows.Kind())

	assert.Len(t, windows.For(time.Monday), 1)
	assert.Len(t, windows.For(time.Saturday), 2)
}

func TestParseSlotWindows_ByDay(t *testing.T) {
	raw := []byte(`{"monday": [{"startTime": "10:00", "endTime": "11:30"}], "fri": [{"startTime": "12:00", "endTime": "13:00"}]}`)

	windows, err := ParseSlotWindows(raw)
	require.NoError(t, err)
	require.Equal(t, WindowsByDay, windows.Kind())

	assert.Equal(t, []SlotWindow{{StartTime: "10:00", EndTime: "11:30"}}, windows.For(time.Monday))
	assert.Len(t, windows.For(time.Friday), 1)
	assert.Empty(t, windows.For(time.Tuesday))
}

func TestParseSlotWindows_Empty(t *testing.T) {
	windows, err := ParseSlotWindows([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, windows)
}

func TestParseSlotWindows_Malformed(t *testing.T) {
	for _, raw := range []string{`"09:00-10:00"`, `["09:00-10:00"]`, `{"someday": []}`, `[{"startTime": 9}]`} {
		_, err := ParseSlotWindows([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformedWindows, raw)
	}
}

func TestServiceAvailability_JSONKeepsVariant(t *testing.T) {
	in := ServiceAvailability{
		AvailableDays: Weekdays{time.Monday, time.Wednesday},
		Windows: ByDay{Days: map[time.Weekday][]SlotWindow{
			time.Monday: {{StartTime: "09:00", EndTime: "10:00"}},
		}},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ServiceAvailability
	require.NoError(t, json.Unmarshal(data, &out))

	require.NotNil(t, out.Windows)
	assert.Equal(t, WindowsByDay, out.Windows.Kind())
	assert.Equal(t, in.AvailableDays, out.AvailableDays)
	assert.True(t, out.UsesExplicitWindows())
}

func TestWeekdays_AcceptsNumbersAndNames(t *testing.T) {
	var days Weekdays
	require.NoError(t, json.Unmarshal([]byte(`[1, "tuesday", "Sun"]`), &days))
	assert.Equal(t, Weekdays{time.Monday, time.Tuesday, time.Sunday}, days)

	assert.Error(t, json.Unmarshal([]byte(`[9]`), &days))
}

func TestBusinessSlotConfiguration_IndexConversion(t *testing.T) {
	cfg := DefaultSlotConfiguration(1)

	assert.Equal(t, 2, cfg.SlotsPerHour())
	assert.Equal(t, 9*60, cfg.IndexToMinutes(18))
	assert.Equal(t, 10*60, cfg.IndexToMinutes(20))
	assert.Equal(t, 10*60+30, cfg.IndexToMinutes(21))

	ts, err := cfg.IndexToTime(35)
	require.NoError(t, err)
	assert.Equal(t, "17:30", ts.String())

	assert.Equal(t, 2, cfg.SlotsNeeded(60))
	assert.Equal(t, 2, cfg.SlotsNeeded(45))
	assert.Equal(t, 1, cfg.SlotsNeeded(30))
}

func TestBusinessSlotConfiguration_Validate(t *testing.T) {
	require.NoError(t, DefaultSlotConfiguration(1).Validate())

	cfg := DefaultSlotConfiguration(1)
	cfg.WorkingHours = WorkingRange{Start: 30, End: 20}
	assert.Error(t, cfg.Validate())

	cfg = DefaultSlotConfiguration(1)
	cfg.StartHour, cfg.EndHour = 10, 8
	assert.Error(t, cfg.Validate())

	cfg = DefaultSlotConfiguration(1)
	cfg.SlotDurationMinutes = 25
	assert.Error(t, cfg.Validate())
}

func TestAppointment_IsActive(t *testing.T) {
	pending := &Appointment{Status: StatusPending}
	cancelled := &Appointment{Status: StatusCancelled}

	assert.True(t, pending.IsActive())
	assert.False(t, cancelled.IsActive())
	assert.True(t, pending.CanBeCancelled())
	assert.False(t, cancelled.CanBeCancelled())
}
