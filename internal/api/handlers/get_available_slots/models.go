package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_availability"
)

// SlotResponse слот в HTTP ответе
type SlotResponse struct {
	Time      string `json:"time"` // "10:00"
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string         `json:"date"` // "2025-10-15"
	BranchID       int64          `json:"branchId"`
	ServiceID      int64          `json:"serviceId"`
	ProfessionalID *int64         `json:"professionalId,omitempty"`
	Slots          []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает модель use case из параметров запроса
func ToUseCaseRequest(customerID, branchID int64, serviceIDStr, dateStr, professionalIDStr, userIDStr string) (*checkAvailability.Request, error) {
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &checkAvailability.Request{
		CustomerID: customerID,
		BranchID:   branchID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &professionalID
	}

	if userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.UserID = &userID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			Time:      slot.Time.String(),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		BranchID:       resp.BranchID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		Slots:          slots,
	}
}
