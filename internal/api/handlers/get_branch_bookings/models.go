package get_branch_bookings

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос к сервису из параметров HTTP запроса
func ToServiceRequest(customerID, branchID int64, caller domain.Caller, startDateStr, endDateStr, statusStr, includeCancelledStr string) (*models.GetBranchBookingsRequest, error) {
	req := &models.GetBranchBookingsRequest{
		CustomerID: customerID,
		BranchID:   branchID,
		Caller:     caller,
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		// Конец периода включительно: фильтр репозитория полуоткрытый
		endExclusive := endDate.AddDate(0, 0, 1)
		req.EndDate = &endExclusive
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
