package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id, customerID int64) (*domain.Booking, error)
	Reschedule(ctx context.Context, id, customerID int64, scheduledAt time.Time, professionalID int64, professionalName string) error
	UpdateStatusCAS(ctx context.Context, id, customerID int64, expected, next domain.BookingStatus) error
	Cancel(ctx context.Context, id, customerID int64, reason *string) error
	GetActiveForProfessionalInterval(ctx context.Context, customerID, professionalID int64, from, to time.Time) ([]*domain.Booking, error)
	GetActiveForUserInterval(ctx context.Context, customerID, userID int64, from, to time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс хранилища рабочих окон
type ScheduleRepository interface {
	GetBranchWindow(ctx context.Context, branchID int64, day time.Weekday) (*domain.OperatingWindow, error)
	GetProfessionalWindow(ctx context.Context, professionalID int64, day time.Weekday) (*domain.OperatingWindow, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetBranch(ctx context.Context, customerID, branchID int64) (*tenantservice.Branch, error)
	GetProfessional(ctx context.Context, customerID, professionalID int64) (*tenantservice.Professional, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
