package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	Identity  domain.Identity // Владелец бронирования или администратор
	BookingID uuid.UUID       // ID бронирования
}

// Response результат отмены. Отмена уже удаленного бронирования
// успешна: AlreadyCancelled = true, Booking и Slot пустые.
type Response struct {
	AlreadyCancelled bool
	Booking          *domain.Booking           // Удаленное бронирование
	Slot             *domain.Slot              // Слот после возврата мест
	Notice           domain.CancellationNotice // Предупреждение о поздней отмене (не блокирует)
}

// NoticeResponse предварительное предупреждение перед подтверждением отмены
type NoticeResponse struct {
	Booking *domain.Booking
	Notice  domain.CancellationNotice
}
