package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "touching end to start", a: Interval{540, 600}, b: Interval{600, 660}, want: false},
		{name: "touching start to end", a: Interval{600, 660}, b: Interval{540, 600}, want: false},
		{name: "partial", a: Interval{540, 615}, b: Interval{600, 660}, want: true},
		{name: "nested", a: Interval{540, 720}, b: Interval{600, 610}, want: true},
		{name: "identical", a: Interval{540, 600}, b: Interval{540, 600}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("09:30", "24:00")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 570, End: 1440}, iv)

	_, err = ParseInterval("18:00", "09:00")
	assert.ErrorIs(t, err, ErrMalformedTime)

	_, err = ParseInterval("", "09:00")
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestOccupancy_Check(t *testing.T) {
	occ := Occupancy{
		Busy: []Busy{
			{Interval: Interval{600, 660}, ServiceID: 10, ClientID: 1},
			{Interval: Interval{600, 660}, ServiceID: 10, ClientID: 2},
			{Interval: Interval{720, 750}, ServiceID: 99, ClientID: 3},
		},
		Excluded:  []Interval{{780, 840}},
		ServiceID: 10,
		Capacity:  2,
		NotBefore: 500,
	}

	tests := []struct {
		name      string
		iv        Interval
		available bool
		reason    string
	}{
		{name: "past", iv: Interval{480, 540}, reason: domain.ReasonPastTime},
		{name: "full group", iv: Interval{600, 660}, reason: domain.ReasonCapacityExhausted},
		{name: "overlaps group at other start", iv: Interval{630, 690}, reason: domain.ReasonOccupied},
		{name: "foreign appointment", iv: Interval{700, 760}, reason: domain.ReasonOccupied},
		{name: "lunch", iv: Interval{760, 790}, reason: domain.ReasonLunchBreak},
		{name: "free", iv: Interval{840, 900}, available: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := occ.Check(tt.iv)
			assert.Equal(t, tt.available, v.Available)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}

	assert.True(t, occ.ClientEnrolled(2, 600))
	assert.False(t, occ.ClientEnrolled(3, 600))
}

func TestGenerateContinuous_ClosedWindow(t *testing.T) {
	assert.Empty(t, GenerateContinuous(closed(domain.ReasonBusinessClosed), 60, 30, Occupancy{}))
}
