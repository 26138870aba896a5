package domain

import "time"

// BookingRules правила расписания трассы
type BookingRules struct {
	Location         *time.Location
	SessionStartHour int
	SessionEndHour   int
	ShortNoticeDays  int
}

// DefaultBookingRules правила по умолчанию: Europe/Paris, 14:00-18:00, 2 дня
func DefaultBookingRules() BookingRules {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return BookingRules{
		Location:         loc,
		SessionStartHour: DefaultSessionStartHour,
		SessionEndHour:   DefaultSessionEndHour,
		ShortNoticeDays:  DefaultShortNoticeDays,
	}
}

// Today returns the current calendar day at the circuit
func (r BookingRules) Today(now time.Time) time.Time {
	return DayOf(r.local(now))
}

// IsPast returns true if the calendar day is before today at the circuit
func (r BookingRules) IsPast(date, now time.Time) bool {
	return IsDateInPast(date, r.local(now))
}

// SessionStart returns the session start of the given slot day
func (r BookingRules) SessionStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, r.SessionStartHour, 0, 0, 0, r.location())
}

func (r BookingRules) local(t time.Time) time.Time {
	return t.In(r.location())
}

func (r BookingRules) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
