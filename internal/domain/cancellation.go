package domain

import (
	"fmt"
	"time"
)

// NoticeKind вид предупреждения о поздней отмене
type NoticeKind string

const (
	NoticeNone    NoticeKind = "none"
	NoticeSameDay NoticeKind = "same_day"
	NoticeHours   NoticeKind = "hours"
	NoticeDays    NoticeKind = "days"
)

// CancellationNotice advisory shown to a pilot cancelling shortly before the session.
// It never blocks the cancellation.
type CancellationNotice struct {
	Kind    NoticeKind
	Hours   int // для NoticeHours
	Days    int // для NoticeDays
	Message string
}

// IsEmpty returns true if there is nothing to warn about
func (n CancellationNotice) IsEmpty() bool {
	return n.Kind == NoticeNone || n.Kind == ""
}

// NoticeFor вычисляет предупреждение для отмены бронирования на дату slotDate в момент now.
// Пороги считаются от начала сессии: тот же день, меньше 24 часов, не больше ShortNoticeDays полных дней.
func (r BookingRules) NoticeFor(slotDate, now time.Time) CancellationNotice {
	now = r.local(now)
	start := r.SessionStart(slotDate)

	if IsSameDay(slotDate, now) {
		return CancellationNotice{
			Kind:    NoticeSameDay,
			Message: "You are cancelling a booking for today. A late cancellation may disrupt the organisation.",
		}
	}

	// прошедшие дни не предупреждаем
	if IsDateInPast(slotDate, now) {
		return CancellationNotice{Kind: NoticeNone}
	}

	until := start.Sub(now)
	days := int(until / (24 * time.Hour))

	if days < 1 {
		hours := int(until / time.Hour)
		return CancellationNotice{
			Kind:    NoticeHours,
			Hours:   hours,
			Message: fmt.Sprintf("You are cancelling a booking that starts in %d hour%s.", hours, plural(hours)),
		}
	}

	if days <= r.ShortNoticeDays {
		return CancellationNotice{
			Kind:    NoticeDays,
			Days:    days,
			Message: fmt.Sprintf("You are cancelling a booking that starts in %d day%s.", days, plural(days)),
		}
	}

	return CancellationNotice{Kind: NoticeNone}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
