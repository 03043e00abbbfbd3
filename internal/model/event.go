// Package model defines domain types for cquota events, windows, and snapshots.
package model

import "time"

// UsageEvent is one normalized API usage record from a transcript line.
// Timestamp is zero when the source line carried no resolvable timestamp;
// such events still count toward lifetime totals but toward no time window.
type UsageEvent struct {
	Timestamp        time.Time
	InputTokens      int64
	OutputTokens     int64
	CacheWriteTokens int64
	CacheReadTokens  int64
	Model            string
}

// HasTimestamp reports whether the event can be placed in a time window.
func (e UsageEvent) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}

// TotalTokens returns the sum of all token counts.
func (e UsageEvent) TotalTokens() int64 {
	return e.InputTokens + e.OutputTokens + e.CacheWriteTokens + e.CacheReadTokens
}
