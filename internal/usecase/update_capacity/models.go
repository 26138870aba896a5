package update_capacity

import (
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модель запроса на изменение вместимости
type Request struct {
	Identity         domain.Identity
	SlotID           uuid.UUID
	Circuit1Capacity int
	Circuit2Capacity int
}

// Response модель ответа
type Response struct {
	Slot *domain.Slot // Состояние слота после изменения
	// Drift расхождение сохраненного остатка с суммой бронирований по трассам (0 - нет)
	Drift map[domain.Circuit]int
}
