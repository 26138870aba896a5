package create_booking

import (
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingModels "github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
	slotModels "github.com/bellefontaine/circuit-booking/internal/service/slots/models"
	createBooking "github.com/bellefontaine/circuit-booking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID         string `json:"slotId"`
	CircuitNumber  int    `json:"circuitNumber"` // 1 или 2
	NumberOfPilots int    `json:"numberOfPilots"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
	Slot    *slotModels.SlotResponse       `json:"slot"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(identity domain.Identity) (*createBooking.Request, error) {
	slotID, err := uuid.Parse(r.SlotID)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Identity:       identity,
		SlotID:         slotID,
		Circuit:        domain.Circuit(r.CircuitNumber),
		NumberOfPilots: r.NumberOfPilots,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	booking := bookingModels.FromDomainBooking(resp.Booking)
	if booking != nil && booking.SlotDate == nil && resp.Slot != nil {
		date := resp.Slot.Date.Format(domain.DateFormat)
		booking.SlotDate = &date
	}

	return &CreateBookingResponse{
		Booking: booking,
		Slot:    slotModels.FromDomainSlot(resp.Slot),
	}
}
