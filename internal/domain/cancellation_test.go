package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parisRules(t *testing.T) BookingRules {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return BookingRules{Location: loc, SessionStartHour: 14, SessionEndHour: 18, ShortNoticeDays: 2}
}

func TestNoticeFor(t *testing.T) {
	rules := parisRules(t)
	loc := rules.Location
	slotDate := date(2025, 6, 10)

	tests := []struct {
		name  string
		now   time.Time
		kind  NoticeKind
		hours int
		days  int
	}{
		{name: "same day before start", now: time.Date(2025, 6, 10, 9, 0, 0, 0, loc), kind: NoticeSameDay},
		{name: "same day after start", now: time.Date(2025, 6, 10, 17, 0, 0, 0, loc), kind: NoticeSameDay},
		{name: "evening before", now: time.Date(2025, 6, 9, 20, 0, 0, 0, loc), kind: NoticeHours, hours: 18},
		{name: "one full day", now: time.Date(2025, 6, 9, 13, 0, 0, 0, loc), kind: NoticeDays, days: 1},
		{name: "two days", now: time.Date(2025, 6, 8, 10, 0, 0, 0, loc), kind: NoticeDays, days: 2},
		{name: "three days", now: time.Date(2025, 6, 7, 10, 0, 0, 0, loc), kind: NoticeNone},
		{name: "past day", now: time.Date(2025, 6, 11, 10, 0, 0, 0, loc), kind: NoticeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notice := rules.NoticeFor(slotDate, tt.now)

			assert.Equal(t, tt.kind, notice.Kind)
			assert.Equal(t, tt.hours, notice.Hours)
			assert.Equal(t, tt.days, notice.Days)
			if tt.kind == NoticeNone {
				assert.True(t, notice.IsEmpty())
				assert.Empty(t, notice.Message)
			} else {
				assert.NotEmpty(t, notice.Message)
			}
		})
	}
}

func TestNoticeFor_UsesCircuitTimezone(t *testing.T) {
	rules := parisRules(t)

	// 23:30 UTC 9 июня = 01:30 10 июня в Париже
	now := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC)

	notice := rules.NoticeFor(date(2025, 6, 10), now)

	assert.Equal(t, NoticeSameDay, notice.Kind)
}

func TestBookingRules_IsPast(t *testing.T) {
	rules := parisRules(t)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, rules.Location)

	assert.True(t, rules.IsPast(date(2025, 6, 9), now))
	assert.False(t, rules.IsPast(date(2025, 6, 10), now))
	assert.False(t, rules.IsPast(date(2025, 6, 11), now))
	assert.Equal(t, date(2025, 6, 10), rules.Today(now))
}
