package window

import (
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

// QuickStats holds the lightweight local counts shown alongside the
// collector's estimates. Its weekly figure deliberately uses a different
// windowing than Aggregate: calendar week-to-date (since Monday 00:00 local)
// instead of a trailing seven days.
type QuickStats struct {
	SessionTokens int64
	SessionCalls  int
	WeekTokens    int64
	WeekCalls     int
	TotalTokens   int64
	TotalCalls    int
}

// ComputeQuickStats tallies session-window, week-to-date, and lifetime
// token counts. Events without timestamps count toward lifetime totals only.
func ComputeQuickStats(events []model.UsageEvent, now time.Time) QuickStats {
	sessionStart := now.Add(-SessionDuration)
	weekStart := startOfWeek(now)

	var qs QuickStats
	for _, e := range events {
		t := e.TotalTokens()
		qs.TotalTokens += t
		qs.TotalCalls++

		if !e.HasTimestamp() {
			continue
		}
		if !e.Timestamp.Before(sessionStart) {
			qs.SessionTokens += t
			qs.SessionCalls++
		}
		if !e.Timestamp.Before(weekStart) {
			qs.WeekTokens += t
			qs.WeekCalls++
		}
	}
	return qs
}

// startOfWeek returns Monday 00:00 local time for the week containing t.
func startOfWeek(t time.Time) time.Time {
	// time.Weekday is Sunday=0; shift so Monday=0.
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
