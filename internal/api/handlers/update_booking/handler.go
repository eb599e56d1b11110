package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	updateBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_booking"
)

const (
	msgInvalidBookingID        = "некорректный ID бронирования"
	msgInvalidRequestBody      = "некорректное тело запроса"
	msgInvalidScheduledAt      = "некорректный формат времени начала, ожидается RFC 3339"
	msgMissingAuth             = "отсутствует контекст аутентификации"
	msgNotFound                = "бронирование не найдено"
	msgForbidden               = "доступ запрещен"
	msgBookingCancelled        = "бронирование уже отменено"
	msgInvalidTransition       = "недопустимый переход статуса"
	msgInvalidProfessional     = "некорректный профессионал"
	msgProfessionalNotAssigned = "профессионал не работает на выбранном филиале"
	msgScheduledInPast         = "время бронирования должно быть в будущем"
	msgInvalidSlotBoundary     = "время бронирования должно попадать на границу слота"
	msgBranchClosed            = "филиал закрыт в выбранную дату"
	msgOutsideOperatingHours   = "выбранное время вне рабочих часов"
	msgProfessionalUnavailable = "профессионал занят в выбранное время"
	msgUserAlreadyBooked       = "у вас уже есть бронирование на это время"
	msgInvalidInput            = "некорректные входные данные"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing caller context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing customer context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID, bookingID, caller)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Failed to parse scheduledAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateBooking.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, user_id=%d",
				bookingID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateBooking.ErrBookingCancelled):
			h.logger.Warn("PATCH /bookings/{id} - Booking cancelled: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgBookingCancelled)

		case errors.Is(err, updateBooking.ErrInvalidStatusTransition):
			h.logger.Warn("PATCH /bookings/{id} - Invalid status transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateBooking.ErrProfessionalUnavailable):
			h.logger.Warn("PATCH /bookings/{id} - Professional unavailable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgProfessionalUnavailable)

		case errors.Is(err, updateBooking.ErrUserAlreadyBooked):
			h.logger.Warn("PATCH /bookings/{id} - User already booked: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgUserAlreadyBooked)

		case errors.Is(err, updateBooking.ErrInvalidProfessionalReference):
			h.logger.Warn("PATCH /bookings/{id} - Invalid professional: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidProfessional)

		case errors.Is(err, updateBooking.ErrProfessionalNotAssigned):
			h.logger.Warn("PATCH /bookings/{id} - Professional not assigned: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgProfessionalNotAssigned)

		case errors.Is(err, updateBooking.ErrScheduledInPast):
			h.logger.Warn("PATCH /bookings/{id} - Scheduled in past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgScheduledInPast)

		case errors.Is(err, updateBooking.ErrInvalidSlotBoundary):
			h.logger.Warn("PATCH /bookings/{id} - Invalid slot boundary: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidSlotBoundary)

		case errors.Is(err, updateBooking.ErrBranchClosed):
			h.logger.Warn("PATCH /bookings/{id} - Branch closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgBranchClosed)

		case errors.Is(err, updateBooking.ErrOutsideOperatingHours):
			h.logger.Warn("PATCH /bookings/{id} - Outside operating hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, status=%s",
		result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
