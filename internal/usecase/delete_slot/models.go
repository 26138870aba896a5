package delete_slot

import (
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модель запроса на удаление слота
type Request struct {
	Identity domain.Identity
	SlotID   uuid.UUID
	Reason   string // Пустая заменяется на DefaultReason
}

// DefaultReason причина отмены в письме, если администратор ее не указал
const DefaultReason = "The session has been cancelled by the circuit"

// Report результат удаления слота
type Report struct {
	Slot             *domain.Slot // Удаленный слот
	BookingsRemoved  int
	Notified         int         // Пилоты, которым письмо доставлено
	FailedRecipients []string    // Адреса, на которые письмо не ушло
	MissingContacts  []uuid.UUID // Пилоты без email, уведомить нельзя
}

// recipient адресат уведомления об отмене
type recipient struct {
	email string
	name  string
}
