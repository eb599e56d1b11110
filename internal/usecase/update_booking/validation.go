package update_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if req.Caller.UserID <= 0 {
		return fmt.Errorf("%w: caller userId must be positive", ErrInvalidInput)
	}
	if !domain.IsValidRole(string(req.Caller.Role)) {
		return fmt.Errorf("%w: unknown caller role %q", ErrInvalidInput, req.Caller.Role)
	}

	if req.Patch.IsEmpty() {
		return fmt.Errorf("%w: patch must change at least one field", ErrInvalidInput)
	}
	if req.Patch.Status != nil && !domain.IsValidStatus(string(*req.Patch.Status)) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Patch.Status)
	}
	if req.Patch.ProfessionalID != nil && *req.Patch.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}
	if req.Patch.ScheduledAt != nil && req.Patch.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt must be a valid instant", ErrInvalidInput)
	}

	return nil
}
