package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetUserBookingsRequest запрос на получение истории бронирований пользователя
type GetUserBookingsRequest struct {
	CustomerID int64
	UserID     int64
	Caller     domain.Caller
	Status     *string
}

// GetBranchBookingsRequest запрос на получение бронирований филиала
type GetBranchBookingsRequest struct {
	CustomerID       int64
	BranchID         int64
	Caller           domain.Caller
	StartDate        *time.Time // Начало периода (опционально)
	EndDate          *time.Time // Конец периода (опционально)
	Status           *string    // Фильтр по статусу (опционально)
	IncludeCancelled bool       // Включать ли отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBranchBookingsRequest) ToDomainFilter() (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{
		CustomerID:       r.CustomerID,
		BranchID:         r.BranchID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	BranchID        int64     `json:"branchId"`
	ServiceID       int64     `json:"serviceId"`
	ProfessionalID  int64     `json:"professionalId"`
	UserID          int64     `json:"userId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	TotalPrice      float64   `json:"totalPrice"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`

	ConfirmationToken string `json:"confirmationToken"`

	// Денормализованные данные для страницы подтверждения
	ServiceName      string `json:"serviceName"`
	BranchName       string `json:"branchName"`
	ProfessionalName string `json:"professionalName"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BranchID:           b.BranchID,
		ServiceID:          b.ServiceID,
		ProfessionalID:     b.ProfessionalID,
		UserID:             b.UserID,
		ScheduledAt:        b.ScheduledAt,
		DurationMinutes:    b.DurationMinutes,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             string(b.Status),
		ConfirmationToken:  b.ConfirmationToken,
		ServiceName:        b.ServiceName,
		BranchName:         b.BranchName,
		ProfessionalName:   b.ProfessionalName,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	if !domain.IsValidStatus(status) {
		return "", ErrInvalidStatus
	}
	return domain.BookingStatus(status), nil
}
