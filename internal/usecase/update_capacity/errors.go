package update_capacity

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w", domain.ErrValidation)

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot %w", domain.ErrNotFound)

	// ErrSlotInPast возвращается при попытке изменить прошедший слот
	ErrSlotInPast = fmt.Errorf("%w: cannot change capacity of a past slot", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("update_capacity: internal error: %w", domain.ErrStorage)
)
