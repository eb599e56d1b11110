package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
)

// ScheduleRepository интерфейс хранилища рабочих окон
type ScheduleRepository interface {
	GetBranchWindow(ctx context.Context, branchID int64, day time.Weekday) (*domain.OperatingWindow, error)
	GetProfessionalWindow(ctx context.Context, professionalID int64, day time.Weekday) (*domain.OperatingWindow, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetActiveForBranchInterval получает активные бронирования филиала, пересекающиеся с интервалом
	GetActiveForBranchInterval(ctx context.Context, customerID, branchID int64, from, to time.Time) ([]*domain.Booking, error)
	// GetActiveForUserInterval получает активные бронирования пользователя, пересекающиеся с интервалом
	GetActiveForUserInterval(ctx context.Context, customerID, userID int64, from, to time.Time) ([]*domain.Booking, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetBranch(ctx context.Context, customerID, branchID int64) (*tenantservice.Branch, error)
	GetService(ctx context.Context, customerID, serviceID int64) (*tenantservice.Service, error)
	GetProfessional(ctx context.Context, customerID, professionalID int64) (*tenantservice.Professional, error)
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
