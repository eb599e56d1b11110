package cancel_booking_by_token

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type BookingService interface {
	CancelByToken(ctx context.Context, customerSlug, token string, req *models.CancelBookingRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
