package delete_slot

import (
	"github.com/bellefontaine/circuit-booking/internal/domain"
	deleteSlot "github.com/bellefontaine/circuit-booking/internal/usecase/delete_slot"
)

// DeleteSlotRequest HTTP request model. Тело необязательно.
type DeleteSlotRequest struct {
	Reason string `json:"reason"`
}

// DeleteSlotResponse отчет об удалении и рассылке
type DeleteSlotResponse struct {
	SlotID           string   `json:"slotId"`
	Date             string   `json:"date,omitempty"`
	BookingsRemoved  int      `json:"bookingsRemoved"`
	Notified         int      `json:"notified"`
	FailedRecipients []string `json:"failedRecipients"`
	MissingContacts  []string `json:"missingContacts"` // user id пилотов без email
}

// FromReport конвертирует отчет use case в HTTP response
func FromReport(slotID string, report *deleteSlot.Report) *DeleteSlotResponse {
	resp := &DeleteSlotResponse{
		SlotID:           slotID,
		BookingsRemoved:  report.BookingsRemoved,
		Notified:         report.Notified,
		FailedRecipients: report.FailedRecipients,
		MissingContacts:  make([]string, 0, len(report.MissingContacts)),
	}
	for _, userID := range report.MissingContacts {
		resp.MissingContacts = append(resp.MissingContacts, userID.String())
	}
	if report.Slot != nil {
		resp.Date = report.Slot.Date.Format(domain.DateFormat)
	}
	if resp.FailedRecipients == nil {
		resp.FailedRecipients = []string{}
	}
	return resp
}
