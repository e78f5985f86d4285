package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	err     error
	req     *createAppointment.Request
	gridReq *createAppointment.GridRequest
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &createAppointment.Response{
		ID:              100,
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		ScheduledFor:    req.ScheduledFor,
		EndsAt:          req.ScheduledFor.Add(time.Hour),
		DurationMinutes: 60,
		SeatNo:          1,
		Status:          string(domain.StatusConfirmed),
		ServiceName:     "Consultation",
	}, nil
}

func (f *fakeUseCase) ExecuteGrid(_ context.Context, req *createAppointment.GridRequest) (*createAppointment.Response, error) {
	f.gridReq = req
	if f.err != nil {
		return nil, f.err
	}
	slot := req.StartSlot
	return &createAppointment.Response{ID: 101, BusinessID: req.BusinessID, SlotIndex: &slot, SlotsNeeded: req.SlotsNeeded}, nil
}

func newRouter(uc *fakeUseCase) *mux.Router {
	h := NewHandler(uc, nopLogger{})
	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments", h.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/grid", h.HandleGrid).Methods(http.MethodPost)
	return r
}

func post(r http.Handler, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"businessId":1,"serviceId":10,"staffId":5,"scheduledFor":"2025-03-03T09:00:00Z","notes":"first visit"}`

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	rec := post(newRouter(uc), "/api/v1/appointments", "7", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.req)
	assert.Equal(t, int64(7), uc.req.ActorID)
	assert.Equal(t, int64(7), uc.req.ClientID, "client defaults to the caller")
	assert.True(t, uc.req.ScheduledFor.Equal(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)))

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "2025-03-03T09:00:00Z", resp.ScheduledFor)
	assert.Equal(t, "2025-03-03T10:00:00Z", resp.EndsAt)
	assert.Equal(t, "CONFIRMED", resp.Status)
}

func TestHandle_StaffBooksForClient(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"clientId":8,"businessId":1,"serviceId":10,"staffId":5,"scheduledFor":"2025-03-03T09:00:00Z"}`
	rec := post(newRouter(uc), "/api/v1/appointments", "5", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(5), uc.req.ActorID)
	assert.Equal(t, int64(8), uc.req.ClientID)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		body   string
		want   int
	}{
		{name: "no user", body: validBody, want: http.StatusUnauthorized},
		{name: "malformed json", userID: "7", body: `{"businessId":`, want: http.StatusBadRequest},
		{name: "unknown field", userID: "7", body: `{"businessId":1,"extra":true}`, want: http.StatusBadRequest},
		{name: "missing staff", userID: "7", body: `{"businessId":1,"serviceId":10,"scheduledFor":"2025-03-03T09:00:00Z"}`, want: http.StatusBadRequest},
		{name: "missing time", userID: "7", body: `{"businessId":1,"serviceId":10,"staffId":5}`, want: http.StatusBadRequest},
		{name: "notes too long", userID: "7", body: fmt.Sprintf(
			`{"businessId":1,"serviceId":10,"staffId":5,"scheduledFor":"2025-03-03T09:00:00Z","notes":"%s"}`,
			strings.Repeat("x", 501)), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(newRouter(uc), "/api/v1/appointments", tt.userID, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, uc.req)
		})
	}
}

func TestHandle_RejectionCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   domain.RejectionCode
	}{
		{err: createAppointment.ErrSlotNotAvailable, status: http.StatusConflict, code: domain.RejectSlotNoLongerAvailable},
		{err: createAppointment.ErrCapacityExceeded, status: http.StatusConflict, code: domain.RejectCapacityExceeded},
		{err: createAppointment.ErrAlreadyEnrolled, status: http.StatusConflict, code: domain.RejectAlreadyEnrolled},
		{err: createAppointment.ErrPastDatetime, status: http.StatusUnprocessableEntity, code: domain.RejectPastDatetime},
		{err: createAppointment.ErrClientNotEligible, status: http.StatusUnprocessableEntity, code: domain.RejectClientNotEligible},
		{err: createAppointment.ErrStaffNotFound, status: http.StatusNotFound, code: domain.RejectStaffNotFound},
		{err: createAppointment.ErrServiceNotFound, status: http.StatusNotFound, code: domain.RejectServiceNotFound},
		{err: createAppointment.ErrBusinessNotFound, status: http.StatusNotFound, code: domain.RejectBusinessNotFound},
		{err: createAppointment.ErrAccessDenied, status: http.StatusForbidden, code: domain.RejectAccessDenied},
		{err: createAppointment.ErrInvalidInput, status: http.StatusBadRequest, code: domain.RejectInvalidInput},
		{err: fmt.Errorf("%w: boom", createAppointment.ErrInternal), status: http.StatusInternalServerError, code: domain.RejectInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := post(newRouter(&fakeUseCase{err: tt.err}), "/api/v1/appointments", "7", validBody)
			require.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

type errorLog struct {
	lines []string
}

func (l *errorLog) Info(string, ...interface{}) {}
func (l *errorLog) Warn(string, ...interface{}) {}
func (l *errorLog) Error(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestHandle_InternalErrorLogsRequestID(t *testing.T) {
	log := &errorLog{}
	h := NewHandler(&fakeUseCase{err: fmt.Errorf("%w: boom", createAppointment.ErrInternal)}, log)

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(validBody))
	req.Header.Set(middleware.UserIDHeader, "7")
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "request_id=req-42")
}

func TestHandleGrid(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"businessId":1,"serviceId":11,"staffId":5,"date":"2025-03-03","startSlot":0,"slotsNeeded":2}`
	rec := post(newRouter(uc), "/api/v1/appointments/grid", "7", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.gridReq)
	assert.Equal(t, 0, uc.gridReq.StartSlot)
	assert.Equal(t, 2, uc.gridReq.SlotsNeeded)
	assert.True(t, uc.gridReq.Date.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.SlotIndex)
	assert.Equal(t, 0, *resp.SlotIndex)
}

func TestHandleGrid_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"missing start slot": `{"businessId":1,"serviceId":11,"staffId":5,"date":"2025-03-03","slotsNeeded":2}`,
		"negative slot":      `{"businessId":1,"serviceId":11,"staffId":5,"date":"2025-03-03","startSlot":-1,"slotsNeeded":2}`,
		"bad date":           `{"businessId":1,"serviceId":11,"staffId":5,"date":"03.03.2025","startSlot":18,"slotsNeeded":2}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(newRouter(uc), "/api/v1/appointments/grid", "7", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.gridReq)
		})
	}
}
