package create_booking

import "fmt"

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if req.BranchID <= 0 {
		return fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.ProfessionalID != nil && *req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalId must be positive", ErrInvalidInput)
	}
	if req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt is required", ErrInvalidInput)
	}

	return nil
}
