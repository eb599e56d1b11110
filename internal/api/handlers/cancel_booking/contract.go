package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type BookingService interface {
	CancelByID(ctx context.Context, customerID, bookingID int64, caller domain.Caller, req *models.CancelBookingRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
