package get_available_slots

import (
	"github.com/bellefontaine/circuit-booking/internal/domain"
	slotModels "github.com/bellefontaine/circuit-booking/internal/service/slots/models"
	getAvailableSlots "github.com/bellefontaine/circuit-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	From  string                    `json:"from"`
	Slots []slotModels.SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		From:  resp.From.Format(domain.DateFormat),
		Slots: slotModels.FromDomainSlotList(resp.Slots).Slots,
	}
}
