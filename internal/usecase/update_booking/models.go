package update_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Patch явная структура частичного обновления: nil-поле означает
// "не трогать", никакой двусмысленности unset-vs-null
type Patch struct {
	Status         *domain.BookingStatus
	ScheduledAt    *time.Time
	ProfessionalID *int64
}

// IsEmpty проверяет, что patch не меняет ни одного поля
func (p *Patch) IsEmpty() bool {
	return p.Status == nil && p.ScheduledAt == nil && p.ProfessionalID == nil
}

// IsReschedule проверяет, затрагивает ли patch время или профессионала
func (p *Patch) IsReschedule() bool {
	return p.ScheduledAt != nil || p.ProfessionalID != nil
}

// Request запрос на обновление бронирования
type Request struct {
	CustomerID int64
	BookingID  int64
	Caller     domain.Caller
	Patch      Patch
}

// Response обновлённое бронирование
type Response struct {
	ID                 int64                `json:"id"`
	BranchID           int64                `json:"branchId"`
	BranchName         string               `json:"branchName"`
	ServiceID          int64                `json:"serviceId"`
	ServiceName        string               `json:"serviceName"`
	ProfessionalID     int64                `json:"professionalId"`
	ProfessionalName   string               `json:"professionalName"`
	UserID             int64                `json:"userId"`
	ScheduledAt        time.Time            `json:"scheduledAt"`
	DurationMinutes    int                  `json:"durationMinutes"`
	TotalPrice         float64              `json:"totalPrice"`
	Currency           string               `json:"currency"`
	Status             domain.BookingStatus `json:"status"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time           `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          *time.Time           `json:"updatedAt,omitempty"`
}

// toResponse конвертирует доменную модель в ответ
func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                 b.ID,
		BranchID:           b.BranchID,
		BranchName:         b.BranchName,
		ServiceID:          b.ServiceID,
		ServiceName:        b.ServiceName,
		ProfessionalID:     b.ProfessionalID,
		ProfessionalName:   b.ProfessionalName,
		UserID:             b.UserID,
		ScheduledAt:        b.ScheduledAt,
		DurationMinutes:    b.DurationMinutes,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Status:             b.Status,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
