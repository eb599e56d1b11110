package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents an appointment booking in the system
type Booking struct {
	ID              int64
	CustomerID      int64 // ID тенанта (бизнеса), владеющего бронированием
	BranchID        int64
	ServiceID       int64
	ProfessionalID  int64
	UserID          int64
	ScheduledAt     time.Time // Абсолютный момент начала (timestamptz)
	DurationMinutes int       // Копируется из услуги при создании и больше не меняется
	TotalPrice      float64   // Фиксируется при создании
	Currency        string
	Status          BookingStatus

	// Непрозрачный уникальный токен для анонимного подтверждения/отмены
	ConfirmationToken string

	// Denormalized data for the confirmation UI
	ServiceName      string
	BranchName       string
	ProfessionalName string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt *time.Time // nil до первого обновления
}

// End returns the end of the booking's occupancy interval
func (b *Booking) End() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the booking's occupancy interval intersects [start, end)
// Интервалы полуоткрытые: граничащие интервалы не пересекаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledAt.Before(end) && start.Before(b.End())
}

// IsActive returns true if the booking occupies its interval (not cancelled)
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can transition to cancelled
// Отменённое бронирование терминально - повторная отмена запрещена
func (b *Booking) CanBeCancelled() bool {
	return b.Status != StatusCancelled
}

// CanBeRescheduled returns true if the booking time can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status != StatusCancelled
}

// BranchBookingsFilter фильтр для получения бронирований филиала
type BranchBookingsFilter struct {
	CustomerID       int64          // Обязательный параметр (тенант)
	BranchID         int64          // Обязательный параметр
	StartDate        *time.Time     // Начало периода (опционально)
	EndDate          *time.Time     // Конец периода (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
}
