package messages

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrMessageNotFound возвращается, когда обращение не найдено
	ErrMessageNotFound = fmt.Errorf("message %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("messages: internal error: %w", domain.ErrStorage)
)
