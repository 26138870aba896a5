package get_available_slots

import (
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	From *time.Time // Начиная с даты (nil или прошедшая дата - с сегодняшнего дня)
}

// Response модель ответа со списком предстоящих слотов
type Response struct {
	From   time.Time      // Фактическая дата начала выборки
	Slots  []*domain.Slot // Слоты по возрастанию даты
	Cached bool           // Ответ взят из кэша
}
