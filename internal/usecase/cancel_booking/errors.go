package cancel_booking

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается при запросе предупреждения для несуществующего бронирования
	ErrBookingNotFound = fmt.Errorf("booking %w", domain.ErrNotFound)

	// ErrNotOwner возвращается, когда бронирование принадлежит другому пользователю
	ErrNotOwner = fmt.Errorf("%w: booking belongs to another user", domain.ErrAccessDenied)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("cancel_booking: internal error: %w", domain.ErrStorage)
)
