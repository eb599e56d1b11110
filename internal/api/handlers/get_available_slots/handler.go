package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	checkAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_availability"
)

const (
	msgMissingCustomerID       = "требуется заголовок X-Customer-ID"
	msgInvalidBranchID         = "некорректный ID филиала"
	msgInvalidParams           = "некорректные параметры запроса: требуются serviceId и date (YYYY-MM-DD)"
	msgBranchNotFound          = "филиал не найден"
	msgServiceNotFound         = "услуга не найдена"
	msgProfessionalNotFound    = "профессионал не найден"
	msgServiceNotAvailable     = "услуга недоступна на выбранном филиале"
	msgProfessionalNotAssigned = "профессионал не работает на выбранном филиале"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/branches/{branchId}/available-slots
// Query params: serviceId, date (обязательные); professionalId, userId (опциональные)
// Тенант берётся из заголовка X-Customer-ID, который проставляет шлюз
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerIDHeader := r.Header.Get(middleware.HeaderCustomerID)
	customerID, err := strconv.ParseInt(customerIDHeader, 10, 64)
	if err != nil || customerID <= 0 {
		h.logger.Warn("GET /branches/{id}/available-slots - Missing or invalid customer ID header")
		handlers.RespondBadRequest(w, msgMissingCustomerID)
		return
	}

	vars := mux.Vars(r)
	branchID, err := strconv.ParseInt(vars["branchId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/available-slots - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(
		customerID,
		branchID,
		query.Get("serviceId"),
		query.Get("date"),
		query.Get("professionalId"),
		query.Get("userId"),
	)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrBranchNotFound):
			h.logger.Warn("GET /branches/{id}/available-slots - Branch not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, checkAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /branches/{id}/available-slots - Service not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, checkAvailability.ErrProfessionalNotFound):
			h.logger.Warn("GET /branches/{id}/available-slots - Professional not found: branch_id=%d", branchID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, checkAvailability.ErrServiceNotAvailableAtBranch):
			h.logger.Warn("GET /branches/{id}/available-slots - Service not available: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgServiceNotAvailable)

		case errors.Is(err, checkAvailability.ErrProfessionalNotAssigned):
			h.logger.Warn("GET /branches/{id}/available-slots - Professional not assigned: branch_id=%d", branchID)
			handlers.RespondBadRequest(w, msgProfessionalNotAssigned)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /branches/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /branches/{id}/available-slots - Failed to check availability: branch_id=%d, error=%v",
				branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/available-slots - Retrieved %d slots: branch_id=%d",
		len(result.Slots), branchID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
