package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request запрос на создание бронирования
type Request struct {
	CustomerID int64
	UserID     int64
	BranchID   int64
	ServiceID  int64
	// ProfessionalID nil означает автоподбор профессионала
	ProfessionalID *int64
	ScheduledAt    time.Time
}

// Response созданное бронирование
type Response struct {
	ID                int64                `json:"id"`
	BranchID          int64                `json:"branchId"`
	BranchName        string               `json:"branchName"`
	ServiceID         int64                `json:"serviceId"`
	ServiceName       string               `json:"serviceName"`
	ProfessionalID    int64                `json:"professionalId"`
	ProfessionalName  string               `json:"professionalName"`
	UserID            int64                `json:"userId"`
	ScheduledAt       time.Time            `json:"scheduledAt"`
	DurationMinutes   int                  `json:"durationMinutes"`
	TotalPrice        float64              `json:"totalPrice"`
	Currency          string               `json:"currency"`
	Status            domain.BookingStatus `json:"status"`
	ConfirmationToken string               `json:"confirmationToken"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// toResponse конвертирует доменную модель в ответ
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                b.ID,
		BranchID:          b.BranchID,
		BranchName:        b.BranchName,
		ServiceID:         b.ServiceID,
		ServiceName:       b.ServiceName,
		ProfessionalID:    b.ProfessionalID,
		ProfessionalName:  b.ProfessionalName,
		UserID:            b.UserID,
		ScheduledAt:       b.ScheduledAt,
		DurationMinutes:   b.DurationMinutes,
		TotalPrice:        b.TotalPrice,
		Currency:          b.Currency,
		Status:            b.Status,
		ConfirmationToken: b.ConfirmationToken,
		CreatedAt:         b.CreatedAt,
	}
}
