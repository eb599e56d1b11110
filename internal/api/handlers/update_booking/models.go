package update_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	updateBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model
// Отсутствующее поле означает "не менять"
type UpdateBookingRequest struct {
	Status         *string `json:"status,omitempty"`
	ScheduledAt    *string `json:"scheduledAt,omitempty"` // RFC 3339
	ProfessionalID *int64  `json:"professionalId,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                 int64   `json:"id"`
	BranchID           int64   `json:"branchId"`
	BranchName         string  `json:"branchName"`
	ServiceID          int64   `json:"serviceId"`
	ServiceName        string  `json:"serviceName"`
	ProfessionalID     int64   `json:"professionalId"`
	ProfessionalName   string  `json:"professionalName"`
	UserID             int64   `json:"userId"`
	ScheduledAt        string  `json:"scheduledAt"`
	DurationMinutes    int     `json:"durationMinutes"`
	TotalPrice         float64 `json:"totalPrice"`
	Currency           string  `json:"currency"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          *string `json:"updatedAt,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(customerID, bookingID int64, caller domain.Caller) (*updateBooking.Request, error) {
	patch := updateBooking.Patch{
		ProfessionalID: r.ProfessionalID,
	}

	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		patch.Status = &status
	}

	if r.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *r.ScheduledAt)
		if err != nil {
			return nil, err
		}
		patch.ScheduledAt = &scheduledAt
	}

	return &updateBooking.Request{
		CustomerID: customerID,
		BookingID:  bookingID,
		Caller:     caller,
		Patch:      patch,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:                 resp.ID,
		BranchID:           resp.BranchID,
		BranchName:         resp.BranchName,
		ServiceID:          resp.ServiceID,
		ServiceName:        resp.ServiceName,
		ProfessionalID:     resp.ProfessionalID,
		ProfessionalName:   resp.ProfessionalName,
		UserID:             resp.UserID,
		ScheduledAt:        resp.ScheduledAt.Format(time.RFC3339),
		DurationMinutes:    resp.DurationMinutes,
		TotalPrice:         resp.TotalPrice,
		Currency:           resp.Currency,
		Status:             string(resp.Status),
		CancellationReason: resp.CancellationReason,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
	}

	if resp.CancelledAt != nil {
		cancelledStr := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &cancelledStr
	}
	if resp.UpdatedAt != nil {
		updatedStr := resp.UpdatedAt.Format(time.RFC3339)
		out.UpdatedAt = &updatedStr
	}

	return out
}
