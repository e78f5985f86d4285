package appointments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

var (
	monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type memoryRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.Appointment
	last  domain.StaffDayFilter
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memoryRepo) GetByStaffDay(_ context.Context, f domain.StaffDayFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = f

	out := make([]*domain.Appointment, 0)
	for id := int64(1); id <= int64(len(r.items)); id++ {
		a, ok := r.items[id]
		if !ok || a.StaffID != f.StaffID || a.ScheduledFor.Before(f.From) || !a.ScheduledFor.Before(f.To) {
			continue
		}
		if !f.IncludeInactive && !a.IsActive() {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryRepo) GetByClient(_ context.Context, f domain.ClientFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if a.ClientID != f.ClientID || (f.Status != nil && a.Status != *f.Status) {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.After(out[j].ScheduledFor) })
	return out, nil
}

func (r *memoryRepo) Cancel(_ context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if !a.CanBeCancelled() {
		return nil, appointmentRepo.ErrCannotCancel
	}
	a.Status = domain.StatusCancelled
	a.CancellationReason = reason
	a.CancelledAt = &cancelledAt
	copied := *a
	return &copied, nil
}

type memoryTenants struct {
	businesses map[int64]*domain.BusinessProfile
	staff      map[int64]*domain.StaffProfile
}

func (m *memoryTenants) Business(_ context.Context, id int64) (*domain.BusinessProfile, error) {
	if b, ok := m.businesses[id]; ok {
		return b, nil
	}
	return nil, tenant.ErrBusinessNotFound
}

func (m *memoryTenants) Staff(_ context.Context, id int64) (*domain.StaffProfile, error) {
	if s, ok := m.staff[id]; ok {
		return s, nil
	}
	return nil, tenant.ErrStaffNotFound
}

type channelNotifier struct {
	events chan notifier.Event
}

func (n *channelNotifier) Dispatch(_ context.Context, event notifier.Event) error {
	n.events <- event
	return nil
}

func newTestService() (*Service, *memoryRepo, *channelNotifier) {
	repo := &memoryRepo{items: map[int64]*domain.Appointment{
		1: {ID: 1, BusinessID: 1, StaffID: 5, ClientID: 7, ServiceID: 10, ScheduledFor: monday.Add(10 * time.Hour),
			DurationMinutes: 60, Status: domain.StatusConfirmed, SeatNo: 1},
		2: {ID: 2, BusinessID: 1, StaffID: 5, ClientID: 8, ServiceID: 10, ScheduledFor: monday.Add(14 * time.Hour),
			DurationMinutes: 60, Status: domain.StatusCancelled, SeatNo: 1},
		3: {ID: 3, BusinessID: 1, StaffID: 5, ClientID: 7, ServiceID: 10, ScheduledFor: monday.Add(-24 * time.Hour),
			DurationMinutes: 60, Status: domain.StatusCompleted, SeatNo: 1},
	}}
	tenants := &memoryTenants{
		businesses: map[int64]*domain.BusinessProfile{1: {Business: domain.Business{ID: 1}}},
		staff: map[int64]*domain.StaffProfile{
			5:  {Staff: domain.StaffMember{ID: 5, BusinessID: 1, IsActive: true}},
			42: {Staff: domain.StaffMember{ID: 42, BusinessID: 2, IsActive: true}},
		},
	}
	events := &channelNotifier{events: make(chan notifier.Event, 8)}

	s := NewService(repo, tenants, events, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s, repo, events
}

func TestService_GetByID(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	resp, err := s.GetByID(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ClientID)
	assert.True(t, resp.EndsAt.Equal(monday.Add(11*time.Hour)))

	_, err = s.GetByID(ctx, 1, 5)
	require.NoError(t, err, "staff of the business")

	_, err = s.GetByID(ctx, 1, 42)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.GetByID(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.GetByID(ctx, 100, 7)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_CancelIsSoftAndNotifies(t *testing.T) {
	s, repo, events := newTestService()

	resp, err := s.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             7,
		CancellationReason: ptr.Ptr("feeling unwell"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, "feeling unwell", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, now.Format(time.RFC3339), *resp.CancelledAt)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	select {
	case event := <-events.events:
		assert.Equal(t, notifier.EventAppointmentCancelled, event.Type)
		assert.Equal(t, int64(1), event.AppointmentID)
		assert.Equal(t, "feeling unwell", *event.Reason)
	case <-time.After(time.Second):
		t.Fatal("cancel notification was not dispatched")
	}
}

func TestService_CancelRejections(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		req     models.CancelAppointmentRequest
		wantErr error
	}{
		{name: "already cancelled", id: 2, req: models.CancelAppointmentRequest{UserID: 8}, wantErr: ErrCannotCancel},
		{name: "completed", id: 3, req: models.CancelAppointmentRequest{UserID: 7}, wantErr: ErrCannotCancel},
		{name: "stranger", id: 1, req: models.CancelAppointmentRequest{UserID: 99}, wantErr: ErrAccessDenied},
		{name: "missing", id: 50, req: models.CancelAppointmentRequest{UserID: 7}, wantErr: ErrAppointmentNotFound},
		{
			name:    "reason too long",
			id:      1,
			req:     models.CancelAppointmentRequest{UserID: 7, CancellationReason: ptr.Ptr(strings.Repeat("x", domain.MaxCancellationReasonLength+1))},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestService()
			_, err := s.Cancel(context.Background(), tt.id, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_ListStaffDay(t *testing.T) {
	s, repo, _ := newTestService()
	ctx := context.Background()

	resp, err := s.ListStaffDay(ctx, &models.ListStaffDayRequest{UserID: 5, BusinessID: 1, StaffID: 5, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(1), resp.Appointments[0].ID)
	assert.True(t, repo.last.From.Equal(monday))
	assert.True(t, repo.last.To.Equal(monday.AddDate(0, 0, 1)))

	resp, err = s.ListStaffDay(ctx, &models.ListStaffDayRequest{
		UserID: 5, BusinessID: 1, StaffID: 5, Date: monday, Status: ptr.Ptr("CANCELLED"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(2), resp.Appointments[0].ID)

	_, err = s.ListStaffDay(ctx, &models.ListStaffDayRequest{UserID: 7, BusinessID: 1, StaffID: 5, Date: monday})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.ListStaffDay(ctx, &models.ListStaffDayRequest{UserID: 5, BusinessID: 1, StaffID: 42, Date: monday})
	assert.ErrorIs(t, err, ErrStaffNotFound)

	_, err = s.ListStaffDay(ctx, &models.ListStaffDayRequest{UserID: 5, BusinessID: 1, StaffID: 5, Date: monday, Status: ptr.Ptr("LOST")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListClient(t *testing.T) {
	s, _, _ := newTestService()
	ctx := context.Background()

	resp, err := s.ListClient(ctx, &models.ListClientRequest{UserID: 7, ClientID: 7})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, int64(1), resp.Appointments[0].ID, "newest first")
	assert.Equal(t, int64(3), resp.Appointments[1].ID)

	resp, err = s.ListClient(ctx, &models.ListClientRequest{UserID: 7, ClientID: 7, Status: ptr.Ptr("COMPLETED")})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, int64(3), resp.Appointments[0].ID)

	_, err = s.ListClient(ctx, &models.ListClientRequest{UserID: 5, ClientID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.ListClient(ctx, &models.ListClientRequest{UserID: 7, ClientID: 7, Status: ptr.Ptr("DONE")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}
