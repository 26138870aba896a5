package profiles

import (
	"fmt"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrProfileNotFound возвращается, когда профиль не найден
	ErrProfileNotFound = fmt.Errorf("profile %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("profiles: internal error: %w", domain.ErrStorage)
)
