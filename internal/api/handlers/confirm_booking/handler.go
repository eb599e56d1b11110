package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	msgNotFound         = "бронирование не найдено"
	msgAlreadyConfirmed = "бронирование уже подтверждено"
	msgAlreadyCancelled = "бронирование уже отменено"
	msgInvalidParams    = "некорректные параметры запроса"
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

// Handle POST /api/v1/public/{customerSlug}/bookings/{token}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerSlug := vars["customerSlug"]
	token := vars["token"]

	booking, err := h.service.Confirm(r.Context(), customerSlug, token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrCustomerNotFound):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/confirm - Not found: slug=%s", customerSlug)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAlreadyConfirmed):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/confirm - Already confirmed: slug=%s", customerSlug)
			handlers.RespondConflict(w, msgAlreadyConfirmed)

		case errors.Is(err, bookings.ErrAlreadyCancelled):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/confirm - Already cancelled: slug=%s", customerSlug)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /public/{slug}/bookings/{token}/confirm - Invalid params: slug=%s", customerSlug)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("POST /public/{slug}/bookings/{token}/confirm - Failed to confirm: slug=%s, error=%v",
				customerSlug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/{slug}/bookings/{token}/confirm - Booking confirmed: booking_id=%d, slug=%s",
		booking.ID, customerSlug)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
