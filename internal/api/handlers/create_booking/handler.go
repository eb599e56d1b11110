package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody       = "некорректное тело запроса"
	msgInvalidScheduledAt       = "некорректный формат времени начала, ожидается RFC 3339"
	msgMissingAuth              = "отсутствует контекст аутентификации"
	msgCustomerNotFound         = "тенант не найден"
	msgInvalidBranch            = "некорректный филиал"
	msgInvalidService           = "некорректная услуга"
	msgInvalidProfessional      = "некорректный профессионал"
	msgServiceNotAvailable      = "услуга недоступна на выбранном филиале"
	msgProfessionalNotAssigned  = "профессионал не работает на выбранном филиале"
	msgScheduledInPast          = "время бронирования должно быть в будущем"
	msgInvalidSlotBoundary      = "время бронирования должно попадать на границу слота"
	msgBranchClosed             = "филиал закрыт в выбранную дату"
	msgOutsideOperatingHours    = "выбранное время вне рабочих часов"
	msgProfessionalUnavailable  = "профессионал занят в выбранное время"
	msgUserAlreadyBooked        = "у вас уже есть бронирование на это время"
	msgInvalidInput             = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing caller context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing customer context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID, caller.UserID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse scheduledAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrProfessionalUnavailable):
			h.logger.Warn("POST /bookings - Professional unavailable: user_id=%d, branch_id=%d",
				caller.UserID, req.BranchID)
			handlers.RespondConflict(w, msgProfessionalUnavailable)

		case errors.Is(err, createBooking.ErrUserAlreadyBooked):
			h.logger.Warn("POST /bookings - User already booked: user_id=%d", caller.UserID)
			handlers.RespondConflict(w, msgUserAlreadyBooked)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrInvalidBranchReference):
			h.logger.Warn("POST /bookings - Invalid branch: branch_id=%d, customer_id=%d", req.BranchID, customerID)
			handlers.RespondBadRequest(w, msgInvalidBranch)

		case errors.Is(err, createBooking.ErrInvalidServiceReference):
			h.logger.Warn("POST /bookings - Invalid service: service_id=%d, customer_id=%d", req.ServiceID, customerID)
			handlers.RespondBadRequest(w, msgInvalidService)

		case errors.Is(err, createBooking.ErrInvalidProfessionalReference):
			h.logger.Warn("POST /bookings - Invalid professional: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgInvalidProfessional)

		case errors.Is(err, createBooking.ErrServiceNotAvailableAtBranch):
			h.logger.Warn("POST /bookings - Service not available: service_id=%d, branch_id=%d",
				req.ServiceID, req.BranchID)
			handlers.RespondBadRequest(w, msgServiceNotAvailable)

		case errors.Is(err, createBooking.ErrProfessionalNotAssigned):
			h.logger.Warn("POST /bookings - Professional not assigned: branch_id=%d", req.BranchID)
			handlers.RespondBadRequest(w, msgProfessionalNotAssigned)

		case errors.Is(err, createBooking.ErrScheduledInPast):
			h.logger.Warn("POST /bookings - Scheduled in past: user_id=%d", caller.UserID)
			handlers.RespondBadRequest(w, msgScheduledInPast)

		case errors.Is(err, createBooking.ErrInvalidSlotBoundary):
			h.logger.Warn("POST /bookings - Invalid slot boundary: user_id=%d", caller.UserID)
			handlers.RespondBadRequest(w, msgInvalidSlotBoundary)

		case errors.Is(err, createBooking.ErrBranchClosed):
			h.logger.Warn("POST /bookings - Branch closed: branch_id=%d", req.BranchID)
			handlers.RespondBadRequest(w, msgBranchClosed)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: branch_id=%d", req.BranchID)
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, branch_id=%d, error=%v",
				caller.UserID, req.BranchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, branch_id=%d",
		result.ID, caller.UserID, req.BranchID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
