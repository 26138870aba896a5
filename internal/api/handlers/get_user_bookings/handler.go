package get_user_bookings

import (
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
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

// Handle GET /api/v1/users/me/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	result, err := h.service.GetUserBookings(r.Context(), identity)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /users/me/bookings - Failed to get bookings: user=%s, error=%v", identity.UserID, err)
		} else {
			h.logger.Warn("GET /users/me/bookings - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("GET /users/me/bookings - Bookings retrieved successfully: user=%s, count=%d",
		identity.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
