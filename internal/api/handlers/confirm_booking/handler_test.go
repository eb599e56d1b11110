package confirm_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type mockService struct {
	resp *models.BookingResponse
	err  error

	gotSlug  string
	gotToken string
}

func (m *mockService) Confirm(_ context.Context, customerSlug, token string) (*models.BookingResponse, error) {
	m.gotSlug = customerSlug
	m.gotToken = token
	return m.resp, m.err
}

type noopLogger struct{}

func (l *noopLogger) Info(string, ...interface{})  {}
func (l *noopLogger) Warn(string, ...interface{})  {}
func (l *noopLogger) Error(string, ...interface{}) {}

func doRequest(service *mockService) *httptest.ResponseRecorder {
	handler := NewHandler(service, &noopLogger{})

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/public/{customerSlug}/bookings/{token}/confirm", handler.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/acme/bookings/token-abc/confirm", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	service := &mockService{
		resp: &models.BookingResponse{ID: 1, Status: "confirmed"},
	}

	rec := doRequest(service)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", service.gotSlug)
	assert.Equal(t, "token-abc", service.gotToken)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "booking not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		// Чужой slug не раскрывает существование бронирования
		{name: "customer not found", err: bookings.ErrCustomerNotFound, wantStatus: http.StatusNotFound},
		{name: "already confirmed", err: bookings.ErrAlreadyConfirmed, wantStatus: http.StatusConflict},
		{name: "already cancelled", err: bookings.ErrAlreadyCancelled, wantStatus: http.StatusConflict},
		{name: "invalid input", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal error", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&mockService{err: tt.err})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
