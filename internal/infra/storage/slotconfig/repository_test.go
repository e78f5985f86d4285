package slotconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestBuildUpsert(t *testing.T) {
	cfg := domain.DefaultSlotConfiguration(3)
	cfg.SlotDurationMinutes = 15
	cfg.SlotsPerDay = 96
	cfg.WorkingHours = domain.WorkingRange{Start: 36, End: 72}

	query, args, err := buildUpsert(&cfg)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO business_slot_configurations")
	assert.Contains(t, query, "ON CONFLICT (business_id) DO UPDATE SET")
	assert.Contains(t, query, "RETURNING created_at, updated_at")
	assert.Equal(t, []interface{}{int64(3), 15, 96, 0, 24, 36, 72}, args)
}
