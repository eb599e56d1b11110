package get_booking_by_token

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

const (
	msgNotFound      = "бронирование не найдено"
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/public/{customerSlug}/bookings/{token}
// Токен - единственная авторизация; несуществующий тенант не отличим
// от несуществующего токена, чтобы не допустить перебор
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerSlug := vars["customerSlug"]
	token := vars["token"]

	booking, err := h.service.GetByToken(r.Context(), customerSlug, token)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound), errors.Is(err, bookings.ErrCustomerNotFound):
			h.logger.Warn("GET /public/{slug}/bookings/{token} - Not found: slug=%s", customerSlug)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /public/{slug}/bookings/{token} - Invalid params: slug=%s", customerSlug)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /public/{slug}/bookings/{token} - Failed to get booking: slug=%s, error=%v",
				customerSlug, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/{slug}/bookings/{token} - Booking retrieved: booking_id=%d, slug=%s",
		booking.ID, customerSlug)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
