package cancel_booking

import (
	"github.com/bellefontaine/circuit-booking/internal/domain"
	bookingModels "github.com/bellefontaine/circuit-booking/internal/service/bookings/models"
	slotModels "github.com/bellefontaine/circuit-booking/internal/service/slots/models"
	cancelBooking "github.com/bellefontaine/circuit-booking/internal/usecase/cancel_booking"
)

// NoticeResponse предупреждение о поздней отмене
type NoticeResponse struct {
	Kind    string `json:"kind"` // none, same_day, hours, days
	Hours   int    `json:"hours,omitempty"`
	Days    int    `json:"days,omitempty"`
	Message string `json:"message,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	AlreadyCancelled bool                           `json:"alreadyCancelled"`
	Booking          *bookingModels.BookingResponse `json:"booking,omitempty"`
	Slot             *slotModels.SlotResponse       `json:"slot,omitempty"`
	Notice           NoticeResponse                 `json:"notice"`
}

// FromDomainNotice конвертирует предупреждение в HTTP модель
func FromDomainNotice(n domain.CancellationNotice) NoticeResponse {
	kind := n.Kind
	if n.IsEmpty() {
		kind = domain.NoticeNone
	}

	return NoticeResponse{
		Kind:    string(kind),
		Hours:   n.Hours,
		Days:    n.Days,
		Message: n.Message,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		AlreadyCancelled: resp.AlreadyCancelled,
		Booking:          bookingModels.FromDomainBooking(resp.Booking),
		Slot:             slotModels.FromDomainSlot(resp.Slot),
		Notice:           FromDomainNotice(resp.Notice),
	}
}
