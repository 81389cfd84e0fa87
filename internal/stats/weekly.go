// Package stats buckets coaching sessions into calendar weeks.
package stats

import (
	"time"

	"coach-booking-api/internal/model"
)

const (
	DefaultWeeks = 4
	MaxWeeks     = 52
)

type WeekBucket struct {
	WeekStart time.Time `json:"weekStart"`
	Sessions  int       `json:"sessions"`
	Completed int       `json:"completed"`
	Cancelled int       `json:"cancelled"`
	Minutes   int       `json:"minutes"`
}

// Weekly returns one bucket per week, oldest first, ending with the week
// containing now. Weeks start Monday 00:00 UTC. Cancelled appointments are
// counted but add neither sessions nor minutes. Appointments without a
// parseable date are ignored.
func Weekly(appts []model.Appointment, weeks int, now time.Time) []WeekBucket {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	if weeks > MaxWeeks {
		weeks = MaxWeeks
	}

	first := WeekStart(now).AddDate(0, 0, -7*(weeks-1))
	out := make([]WeekBucket, weeks)
	for i := range out {
		out[i].WeekStart = first.AddDate(0, 0, 7*i)
	}

	for _, a := range appts {
		start, ok := a.StartsAt()
		if !ok || start.Before(first) {
			continue
		}
		i := int(WeekStart(start).Sub(first).Hours() / (24 * 7))
		if i >= weeks {
			continue
		}
		b := &out[i]
		switch a.Status {
		case model.StatusCancelled:
			b.Cancelled++
			continue
		case model.StatusCompleted:
			b.Completed++
		}
		b.Sessions++
		b.Minutes += a.Duration
	}
	return out
}

// WeekStart returns the Monday 00:00 UTC on or before t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}
