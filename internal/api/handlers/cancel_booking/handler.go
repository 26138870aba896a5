package cancel_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	cancelBooking "github.com/bellefontaine/circuit-booking/internal/usecase/cancel_booking"
)

const msgInvalidBookingID = "invalid booking id"

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.ParseUUID(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	identity := middleware.GetIdentity(r.Context())

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		Identity:  identity,
		BookingID: bookingID,
	})
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("DELETE /bookings/{id} - Failed to cancel booking: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Warn("DELETE /bookings/{id} - Cancellation rejected: booking_id=%s, user=%s, reason=%v",
				bookingID, identity.UserID, err)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking cancelled: booking_id=%s, user=%s, already_cancelled=%t",
		bookingID, identity.UserID, result.AlreadyCancelled)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
