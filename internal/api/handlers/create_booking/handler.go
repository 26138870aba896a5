package create_booking

import (
	"errors"
	"net/http"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/domain"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidSlotID      = "slotId must be a valid id"
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
	identity := middleware.GetIdentity(r.Context())

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(identity)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var seatsErr *domain.InsufficientSeatsError
		switch {
		case errors.As(err, &seatsErr):
			h.logger.Warn("POST /bookings - Not enough seats: user=%s, slot=%s, requested=%d, available=%d",
				identity.UserID, req.SlotID, seatsErr.Requested, seatsErr.Available)

		case handlers.StatusFor(err) == http.StatusInternalServerError:
			h.logger.Error("POST /bookings - Failed to create booking: user=%s, slot=%s, error=%v",
				identity.UserID, req.SlotID, err)

		default:
			h.logger.Warn("POST /bookings - Booking rejected: user=%s, slot=%s, reason=%v",
				identity.UserID, req.SlotID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, user=%s, slot=%s",
		result.Booking.ID, identity.UserID, result.Booking.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
