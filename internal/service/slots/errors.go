package slots

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot %w", domain.ErrNotFound)

	// ErrDateTaken возвращается, когда на дату уже есть слот
	ErrDateTaken = fmt.Errorf("%w: a slot already exists for this date", domain.ErrConflict)

	// ErrDateInPast возвращается для даты раньше сегодняшнего дня
	ErrDateInPast = fmt.Errorf("%w: date is in the past", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("slots: internal error: %w", domain.ErrStorage)
)
