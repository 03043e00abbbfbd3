// Package cost converts raw token counts into monetary-equivalent estimates.
package cost

import "github.com/jdhollis/cquota/internal/model"

// Profile holds per-million-token weights for one estimation purpose.
// Input, output, and cache-write weights are the nominal per-token rates;
// only the cache-read weight differs between profiles.
type Profile struct {
	InputPerMTok      float64
	OutputPerMTok     float64
	CacheWritePerMTok float64
	CacheReadPerMTok  float64
}

// Display estimates dollar cost of consumed tokens. Used by the collector
// when bucketing local transcript usage.
var Display = Profile{
	InputPerMTok:      15.0,
	OutputPerMTok:     75.0,
	CacheWritePerMTok: 18.75,
	CacheReadPerMTok:  1.875,
}

// RateLimit estimates rate-limit pressure rather than dollar cost.
// Cache reads barely count against the provider's rate limit, so they are
// weighted at one tenth of the display rate (0.1875 = input rate / 80).
var RateLimit = Profile{
	InputPerMTok:      15.0,
	OutputPerMTok:     75.0,
	CacheWritePerMTok: 18.75,
	CacheReadPerMTok:  0.1875,
}

// Cost computes the effective cost of raw token counts under this profile.
func (p Profile) Cost(input, output, cacheWrite, cacheRead int64) float64 {
	return (float64(input)*p.InputPerMTok +
		float64(output)*p.OutputPerMTok +
		float64(cacheWrite)*p.CacheWritePerMTok +
		float64(cacheRead)*p.CacheReadPerMTok) / 1_000_000
}

// EventCost computes the effective cost of a single usage event.
func (p Profile) EventCost(e model.UsageEvent) float64 {
	return p.Cost(e.InputTokens, e.OutputTokens, e.CacheWriteTokens, e.CacheReadTokens)
}

// BucketCost computes the effective cost of an aggregated window bucket.
func (p Profile) BucketCost(b model.WindowBucket) float64 {
	return p.Cost(b.InputTokens, b.OutputTokens, b.CacheWriteTokens, b.CacheReadTokens)
}
