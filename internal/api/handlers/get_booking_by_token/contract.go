package get_booking_by_token

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type BookingService interface {
	GetByToken(ctx context.Context, customerSlug, token string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
