package get_available_slots

import (
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// resolveFrom определяет дату начала выборки: прошедшие дни не показываются
func resolveFrom(from *time.Time, today time.Time) time.Time {
	if from == nil {
		return today
	}
	day := domain.DayOf(*from)
	if day.Before(today) {
		return today
	}
	return day
}
