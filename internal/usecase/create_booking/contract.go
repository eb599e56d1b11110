package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/tenantservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	// GetActiveForProfessionalInterval получает активные бронирования профессионала, пересекающиеся с интервалом
	GetActiveForProfessionalInterval(ctx context.Context, customerID, professionalID int64, from, to time.Time) ([]*domain.Booking, error)
	// GetActiveForUserInterval получает активные бронирования пользователя, пересекающиеся с интервалом
	GetActiveForUserInterval(ctx context.Context, customerID, userID int64, from, to time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс хранилища рабочих окон
type ScheduleRepository interface {
	GetBranchWindow(ctx context.Context, branchID int64, day time.Weekday) (*domain.OperatingWindow, error)
	GetProfessionalWindow(ctx context.Context, professionalID int64, day time.Weekday) (*domain.OperatingWindow, error)
}

// TenantServiceClient интерфейс клиента для TenantService
type TenantServiceClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*tenantservice.Customer, error)
	GetBranch(ctx context.Context, customerID, branchID int64) (*tenantservice.Branch, error)
	GetService(ctx context.Context, customerID, serviceID int64) (*tenantservice.Service, error)
	GetProfessional(ctx context.Context, customerID, professionalID int64) (*tenantservice.Professional, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenGenerator интерфейс генерации confirmation token (для тестирования)
type TokenGenerator interface {
	NewToken() string
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

// UUIDTokenGenerator генератор токенов на основе UUID v4
type UUIDTokenGenerator struct{}

// NewToken возвращает новый непрозрачный токен
func (g *UUIDTokenGenerator) NewToken() string {
	return uuid.NewString()
}
