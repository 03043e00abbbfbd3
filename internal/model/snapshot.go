package model

import "time"

// Data source tags recorded on each snapshot.
const (
	SourceLocal  = "local"
	SourceRemote = "admin_api"
)

// WindowBucket accumulates token counts and display-profile cost
// over one accounting window.
type WindowBucket struct {
	InputTokens      int64   `json:"input_tokens"`
	OutputTokens     int64   `json:"output_tokens"`
	CacheWriteTokens int64   `json:"cache_creation_tokens"`
	CacheReadTokens  int64   `json:"cache_read_tokens"`
	Cost             float64 `json:"cost"`
}

// Add accumulates one event into the bucket.
func (b *WindowBucket) Add(e UsageEvent, cost float64) {
	b.InputTokens += e.InputTokens
	b.OutputTokens += e.OutputTokens
	b.CacheWriteTokens += e.CacheWriteTokens
	b.CacheReadTokens += e.CacheReadTokens
	b.Cost += cost
}

// IsZero reports whether the bucket saw no usage.
func (b WindowBucket) IsZero() bool {
	return b.InputTokens == 0 && b.OutputTokens == 0 &&
		b.CacheWriteTokens == 0 && b.CacheReadTokens == 0 && b.Cost == 0
}

// Snapshot is the persisted result of one collection pass. The newest
// snapshot fully supersedes the prior one; every snapshot is also appended
// to the history log.
type Snapshot struct {
	Timestamp       time.Time    `json:"timestamp"`
	Source          string       `json:"source"`
	Session         WindowBucket `json:"session"`
	Daily           WindowBucket `json:"daily"`
	Weekly          WindowBucket `json:"weekly"`
	SessionResetsAt *time.Time   `json:"session_resets_at"`
	SessionOldest   *time.Time   `json:"session_oldest"`
	SessionNewest   *time.Time   `json:"session_newest"`
	WeeklyResetsAt  *time.Time   `json:"weekly_resets_at"`
	ConfigCost      float64      `json:"config_cost"`
}

// UsageCaps holds user-calibrated window caps in API-dollar equivalents.
// Consumed by the display layer to turn snapshot costs into percentages.
type UsageCaps struct {
	Session float64 `json:"session"`
	Weekly  float64 `json:"weekly"`
}

// Default caps, adjustable via setup or calibrate.
var DefaultCaps = UsageCaps{Session: 40.0, Weekly: 96.0}
