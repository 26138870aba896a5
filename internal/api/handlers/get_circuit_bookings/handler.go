package get_circuit_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
)

const msgInvalidCircuit = "circuit must be 1 or 2"

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

// Handle GET /api/v1/admin/circuits/{circuit}/bookings
// Query params: from, to (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	circuit, err := strconv.Atoi(mux.Vars(r)["circuit"])
	if err != nil {
		h.logger.Warn("GET /admin/circuits/{circuit}/bookings - Invalid circuit: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCircuit)
		return
	}

	from, err := handlers.ParseDateParam(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	to, err := handlers.ParseDateParam(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.GetCircuitBookings(r.Context(), middleware.GetIdentity(r.Context()), &models.GetCircuitBookingsRequest{
		Circuit: circuit,
		From:    from,
		To:      to,
	})
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /admin/circuits/{circuit}/bookings - Failed to get bookings: circuit=%d, error=%v", circuit, err)
		} else {
			h.logger.Warn("GET /admin/circuits/{circuit}/bookings - Rejected: circuit=%d, reason=%v", circuit, err)
		}
		return
	}

	h.logger.Info("GET /admin/circuits/{circuit}/bookings - Bookings retrieved successfully: circuit=%d, count=%d",
		circuit, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
