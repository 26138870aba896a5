package get_cancellation_notice

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bellefontaine/circuit-booking/internal/api/handlers"
	cancelHandler "github.com/bellefontaine/circuit-booking/internal/api/handlers/cancel_booking"
	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	bookingModels "github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
)

const msgInvalidBookingID = "invalid booking id"

// NoticePreviewResponse предупреждение, показываемое до подтверждения отмены
type NoticePreviewResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
	Notice  cancelHandler.NoticeResponse   `json:"notice"`
}

type Handler struct {
	useCase CancellationNoticeUseCase
	logger  Logger
}

func NewHandler(useCase CancellationNoticeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/cancellation-notice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.ParseUUID(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/cancellation-notice - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Notice(r.Context(), middleware.GetIdentity(r.Context()), bookingID)
	if err != nil {
		if status := handlers.RespondDomainError(w, err); status == http.StatusInternalServerError {
			h.logger.Error("GET /bookings/{id}/cancellation-notice - Failed: booking_id=%s, error=%v", bookingID, err)
		} else {
			h.logger.Warn("GET /bookings/{id}/cancellation-notice - Rejected: booking_id=%s, reason=%v", bookingID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &NoticePreviewResponse{
		Booking: bookingModels.FromDomainBooking(result.Booking),
		Notice:  cancelHandler.FromDomainNotice(result.Notice),
	})
}
