package update_slot_config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	err        error
	businessID int64
	req        *models.UpdateSlotConfigRequest
}

func (f *fakeService) Update(_ context.Context, businessID int64, req *models.UpdateSlotConfigRequest) (*models.SlotConfigResponse, error) {
	f.businessID, f.req = businessID, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.SlotConfigResponse{BusinessID: businessID, SlotDurationMinutes: 15}, nil
}

func put(svc *fakeService, path, userID, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/businesses/{businessId}/slot-config",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, nopLogger{}).Handle))).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PartialUpdate(t *testing.T) {
	svc := &fakeService{}
	rec := put(svc, "/businesses/1/slot-config", "5", `{"slotDurationMinutes":15}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.businessID)
	require.NotNil(t, svc.req)
	assert.Equal(t, int64(5), svc.req.UserID)
	require.NotNil(t, svc.req.SlotDurationMinutes)
	assert.Equal(t, 15, *svc.req.SlotDurationMinutes)
	assert.Nil(t, svc.req.StartHour)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		userID string
		body   string
		want   int
	}{
		{name: "no user", path: "/businesses/1/slot-config", body: `{}`, want: http.StatusUnauthorized},
		{name: "bad business", path: "/businesses/x/slot-config", userID: "5", body: `{}`, want: http.StatusBadRequest},
		{name: "duration out of range", path: "/businesses/1/slot-config", userID: "5", body: `{"slotDurationMinutes":90}`, want: http.StatusBadRequest},
		{name: "unknown field", path: "/businesses/1/slot-config", userID: "5", body: `{"tier":"gold"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := put(svc, tt.path, tt.userID, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Nil(t, svc.req)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   domain.RejectionCode
	}{
		{err: slotconfig.ErrInvalidConfig, status: http.StatusBadRequest, code: domain.RejectInvalidSlotConfig},
		{err: slotconfig.ErrAccessDenied, status: http.StatusForbidden, code: domain.RejectAccessDenied},
		{err: slotconfig.ErrBusinessNotFound, status: http.StatusNotFound, code: domain.RejectBusinessNotFound},
		{err: slotconfig.ErrInternal, status: http.StatusInternalServerError, code: domain.RejectInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := put(&fakeService{err: tt.err}, "/businesses/1/slot-config", "5", `{"startHour":8}`)
			require.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}
