package cancel_booking_by_token

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "бронирование не найдено"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgInvalidParams      = "некорректные параметры запроса"
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

// Handle POST /api/v1/public/{customerSlug}/bookings/{token}/cancel
// Тело запроса опционально: {"cancellationReason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerSlug := vars["customerSlug"]
	token := vars["token"]

	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /public/{slug}/bookings/{token}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.CancelByToken(r.Context(), customerSlug, token, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrCustomerNotFound):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/cancel - Not found: slug=%s", customerSlug)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAlreadyCancelled):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/cancel - Already cancelled: slug=%s", customerSlug)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/cancel - Invalid params: slug=%s", customerSlug)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("POST /public/{slug}/bookings/{token}/cancel - Failed to cancel: slug=%s, error=%v",
				customerSlug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/{slug}/bookings/{token}/cancel - Booking cancelled: slug=%s", customerSlug)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
