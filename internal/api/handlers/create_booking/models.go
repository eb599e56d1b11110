package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BranchID       int64  `json:"branchId"`
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID *int64 `json:"professionalId,omitempty"`
	ScheduledAt    string `json:"scheduledAt"` // RFC 3339, например "2026-09-07T10:00:00+02:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	BranchID          int64   `json:"branchId"`
	BranchName        string  `json:"branchName"`
	ServiceID         int64   `json:"serviceId"`
	ServiceName       string  `json:"serviceName"`
	ProfessionalID    int64   `json:"professionalId"`
	ProfessionalName  string  `json:"professionalName"`
	UserID            int64   `json:"userId"`
	ScheduledAt       string  `json:"scheduledAt"`
	DurationMinutes   int     `json:"durationMinutes"`
	TotalPrice        float64 `json:"totalPrice"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	ConfirmationToken string  `json:"confirmationToken"`
	CreatedAt         string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID, userID int64) (*createBooking.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID:     customerID,
		UserID:         userID,
		BranchID:       r.BranchID,
		ServiceID:      r.ServiceID,
		ProfessionalID: r.ProfessionalID,
		ScheduledAt:    scheduledAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		BranchID:          resp.BranchID,
		BranchName:        resp.BranchName,
		ServiceID:         resp.ServiceID,
		ServiceName:       resp.ServiceName,
		ProfessionalID:    resp.ProfessionalID,
		ProfessionalName:  resp.ProfessionalName,
		UserID:            resp.UserID,
		ScheduledAt:       resp.ScheduledAt.Format(time.RFC3339),
		DurationMinutes:   resp.DurationMinutes,
		TotalPrice:        resp.TotalPrice,
		Currency:          resp.Currency,
		Status:            string(resp.Status),
		ConfirmationToken: resp.ConfirmationToken,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
	}
}
