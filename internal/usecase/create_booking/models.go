package create_booking

import (
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Identity       domain.Identity // Текущий пользователь
	SlotID         uuid.UUID       // ID слота
	Circuit        domain.Circuit  // Номер трассы (1 или 2)
	NumberOfPilots int             // Количество пилотов
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking // Созданное бронирование
	Slot    *domain.Slot    // Слот после списания мест
}
