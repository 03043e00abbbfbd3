// Package source discovers and parses Claude Code JSONL transcript files
// into normalized usage events.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

// Timestamps above this are epoch milliseconds rather than seconds.
const epochMillisThreshold = 1e12

// patUsage pre-filters lines: anything without a "usage" key cannot carry
// a usage payload, so skip it before paying for a full unmarshal.
var patUsage = []byte(`"usage"`)

// ParseResult holds the output of parsing a single transcript file.
type ParseResult struct {
	Events      []model.UsageEvent
	ParseErrors int
	Err         error
}

// ParseFile reads one JSONL transcript and extracts a usage event from every
// line that carries a message.usage payload. Malformed lines and lines
// without usage are expected noise and are skipped; only failure to read the
// file itself is reported via Err.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path) //nolint:gosec // path comes from scanning the configured data dir
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		events      []model.UsageEvent
		parseErrors int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.Contains(line, patUsage) {
			continue
		}

		var entry rawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			parseErrors++
			continue
		}
		if entry.Message == nil || entry.Message.Usage == nil {
			continue
		}

		u := entry.Message.Usage
		ts := entry.Timestamp
		if len(ts) == 0 {
			ts = entry.CreatedAt
		}

		events = append(events, model.UsageEvent{
			Timestamp:        parseTimestamp(ts),
			InputTokens:      u.InputTokens,
			OutputTokens:     u.OutputTokens,
			CacheWriteTokens: u.CacheCreationInputTokens,
			CacheReadTokens:  u.CacheReadInputTokens,
			Model:            entry.Message.Model,
		})
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	return ParseResult{Events: events, ParseErrors: parseErrors}
}

// parseTimestamp resolves a polymorphic timestamp value: an epoch number
// (milliseconds when > 1e12, else seconds) or an ISO-8601 string with an
// optional Z suffix. Any value that cannot be resolved yields the zero time;
// the event still counts toward lifetime totals, just not toward a window.
// Timezone-aware values are converted to the local zone.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n <= 0 {
			return time.Time{}
		}
		if n > epochMillisThreshold {
			n /= 1000
		}
		sec := int64(n)
		nsec := int64((n - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).Local()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	return parseTimestampString(s)
}

func parseTimestampString(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Local()
	}
	// Numeric string epochs show up in some writers.
	if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
		if n > epochMillisThreshold {
			n /= 1000
		}
		return time.Unix(int64(n), 0).Local()
	}
	// Zone-less ISO timestamps are already local wall time.
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
