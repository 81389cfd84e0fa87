package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coach-booking-api/internal/model"
	"coach-booking-api/internal/stats"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday", time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"wednesday across month", time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC), time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, stats.WeekStart(tt.in))
		})
	}
}

func TestWeekly(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // wednesday
	appts := []model.Appointment{
		{ID: "1", Date: "2026-03-09", Time: "09:00", Duration: 60, Status: model.StatusCompleted},
		{ID: "2", Date: "2026-03-10", Time: "18:30", Duration: 45, Status: model.StatusConfirmed},
		{ID: "3", Date: "2026-03-10", Duration: 30, Status: model.StatusCancelled},
		{ID: "4", Date: "2026-03-01", Time: "10:00", Duration: 30, Status: model.StatusCompleted},
		{ID: "5", Date: "2026-01-01", Duration: 90, Status: model.StatusCompleted},
		{ID: "6", Date: "next tuesday", Duration: 90},
		{ID: "7", Date: "2026-03-20", Duration: 60, Status: model.StatusConfirmed},
	}

	got := stats.Weekly(appts, 3, now)
	require.Len(t, got, 3)

	require.Equal(t, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), got[0].WeekStart)
	require.Equal(t, 1, got[0].Sessions)
	require.Equal(t, 30, got[0].Minutes)
	require.Equal(t, 1, got[0].Completed)

	require.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got[1].WeekStart)
	require.Zero(t, got[1].Sessions)

	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), got[2].WeekStart)
	require.Equal(t, 2, got[2].Sessions)
	require.Equal(t, 1, got[2].Completed)
	require.Equal(t, 1, got[2].Cancelled)
	require.Equal(t, 105, got[2].Minutes)
}

func TestWeekly_DefaultsAndCap(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	require.Len(t, stats.Weekly(nil, 0, now), stats.DefaultWeeks)
	require.Len(t, stats.Weekly(nil, 500, now), stats.MaxWeeks)
}
