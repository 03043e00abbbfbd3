package cost

import (
	"math"
	"testing"

	"github.com/jdhollis/cquota/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDisplayCost(t *testing.T) {
	cases := []struct {
		name            string
		in, out, cw, cr int64
		want            float64
	}{
		{"one MTok input", 1_000_000, 0, 0, 0, 15.0},
		{"one MTok output", 0, 1_000_000, 0, 0, 75.0},
		{"one MTok cache write", 0, 0, 1_000_000, 0, 18.75},
		{"one MTok cache read", 0, 0, 0, 1_000_000, 1.875},
		{"mixed", 100_000, 10_000, 0, 0, 1.5 + 0.75},
		{"zero", 0, 0, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Display.Cost(tc.in, tc.out, tc.cw, tc.cr)
			if !almostEqual(got, tc.want) {
				t.Errorf("Cost = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRateLimitCacheReadWeight(t *testing.T) {
	// The rate-limit profile discounts cache reads to a tenth of the
	// display rate; everything else matches.
	display := Display.Cost(0, 0, 0, 1_000_000)
	rateLimit := RateLimit.Cost(0, 0, 0, 1_000_000)
	if !almostEqual(rateLimit*10, display) {
		t.Errorf("cache read: rate-limit %v, display %v, want 1:10", rateLimit, display)
	}

	if !almostEqual(Display.Cost(5, 7, 11, 0), RateLimit.Cost(5, 7, 11, 0)) {
		t.Error("profiles should agree when no cache reads are involved")
	}
}

func TestEventAndBucketCost(t *testing.T) {
	e := model.UsageEvent{InputTokens: 200_000, OutputTokens: 40_000, CacheReadTokens: 1_000_000}
	want := Display.Cost(200_000, 40_000, 0, 1_000_000)
	if got := Display.EventCost(e); !almostEqual(got, want) {
		t.Errorf("EventCost = %v, want %v", got, want)
	}

	b := model.WindowBucket{InputTokens: 200_000, OutputTokens: 40_000, CacheReadTokens: 1_000_000}
	if got := Display.BucketCost(b); !almostEqual(got, want) {
		t.Errorf("BucketCost = %v, want %v", got, want)
	}
}
