package domain

import "time"

// DayOf отбрасывает время суток: календарная дата t (в зоне t) в полночь UTC
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня (now задает "сегодня")
func IsDateInPast(date, now time.Time) bool {
	return DayOf(date).Before(DayOf(now))
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
