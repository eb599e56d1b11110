package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingAuth        = "отсутствует контекст аутентификации"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgInvalidInput       = "некорректные входные данные"
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

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Тело запроса опционально: {"cancellationReason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing caller context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}
	customerID, ok := middleware.GetCustomerID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing customer context")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err = h.service.CancelByID(r.Context(), customerID, bookingID, caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d",
				bookingID, caller.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already cancelled: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d",
		bookingID, caller.UserID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
