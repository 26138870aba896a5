package create_booking

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w", domain.ErrValidation)

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot %w", domain.ErrNotFound)

	// ErrSlotInPast возвращается, когда дата слота уже прошла
	ErrSlotInPast = fmt.Errorf("%w: slot date is in the past", domain.ErrValidation)

	// ErrAlreadyBooked возвращается, когда у пользователя уже есть бронирование на этот слот
	ErrAlreadyBooked = fmt.Errorf("%w: you already have a booking for this slot", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: internal error: %w", domain.ErrStorage)
)

// Причины отказа для метрик
const (
	rejectAuth       = "auth"
	rejectValidation = "validation"
	rejectNotFound   = "not_found"
	rejectPast       = "past_date"
	rejectDuplicate  = "duplicate"
	rejectCapacity   = "capacity"
)
