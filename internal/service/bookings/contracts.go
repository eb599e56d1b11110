package bookings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id, customerID int64) (*domain.Booking, error)
	GetByToken(ctx context.Context, token string, customerID int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, customerID, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBranchWithFilter(ctx context.Context, filter domain.BranchBookingsFilter) ([]*domain.Booking, error)
	UpdateStatusCAS(ctx context.Context, id, customerID int64, expected, next domain.BookingStatus) error
	Cancel(ctx context.Context, id, customerID int64, reason *string) error
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetCustomerBySlug(ctx context.Context, slug string) (*tenantservice.Customer, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
