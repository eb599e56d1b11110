package get_branch_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgMissingAuth     = "отсутствует контекст аутентификации"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/bookings
// Query params: startDate, endDate, status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /branches/{id}/bookings - Missing caller context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("GET /branches/{id}/bookings - Missing customer context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		customerID,
		branchID,
		caller,
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("includeCancelled"),
	)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetBranchBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /branches/{id}/bookings - Access denied: branch_id=%d, user_id=%d",
				branchID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/bookings - Invalid parameters: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /branches/{id}/bookings - Failed to get bookings: branch_id=%d, error=%v",
				branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/bookings - Bookings retrieved successfully: branch_id=%d, count=%d",
		branchID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
