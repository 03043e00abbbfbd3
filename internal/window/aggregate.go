// Package window buckets usage events into the session, daily, and weekly
// accounting windows and computes their reset instants.
package window

import (
	"time"

	"github.com/jdhollis/cquota/internal/cost"
	"github.com/jdhollis/cquota/internal/model"
)

// Window durations.
const (
	SessionDuration = 5 * time.Hour
	WeeklyCycle     = 7 * 24 * time.Hour
)

// Result holds the three window buckets from one aggregation pass plus the
// oldest and newest qualifying timestamps inside the session window.
type Result struct {
	Session model.WindowBucket
	Daily   model.WindowBucket
	Weekly  model.WindowBucket

	// Zero when no event fell inside the session window.
	SessionOldest time.Time
	SessionNewest time.Time
}

// Aggregate buckets events into the three windows ending at now:
// session [now-5h, now], daily [start of local day, now], and a trailing
// weekly [now-7d, now]. An event counts toward every window whose interval
// contains its timestamp; events without a timestamp count toward none.
// Pure function of (events, now) — re-running reproduces identical totals.
func Aggregate(events []model.UsageEvent, now time.Time) Result {
	sessionStart := now.Add(-SessionDuration)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-WeeklyCycle)

	var r Result
	for _, e := range events {
		if !e.HasTimestamp() {
			continue
		}
		ts := e.Timestamp
		c := cost.Display.EventCost(e)

		if !ts.Before(sessionStart) {
			r.Session.Add(e, c)
			if r.SessionOldest.IsZero() || ts.Before(r.SessionOldest) {
				r.SessionOldest = ts
			}
			if r.SessionNewest.IsZero() || ts.After(r.SessionNewest) {
				r.SessionNewest = ts
			}
		}
		if !ts.Before(dayStart) {
			r.Daily.Add(e, c)
		}
		if !ts.Before(weekStart) {
			r.Weekly.Add(e, c)
		}
	}
	return r
}
