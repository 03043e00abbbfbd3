package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTranscript creates a temp JSONL file and returns its path.
func writeTranscript(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_ExtractsUsage(t *testing.T) {
	path := writeTranscript(t,
		`{"type":"user","timestamp":"2026-08-01T10:00:00Z"}`,
		`{"type":"summary","summary":"some text"}`,
		`{"type":"assistant","timestamp":"2026-08-01T10:01:00Z","message":{"model":"claude-sonnet-4-6","usage":{"input_tokens":100,"output_tokens":50,"cache_creation_input_tokens":20,"cache_read_input_tokens":400}}}`,
		`{"type":"assistant","timestamp":"2026-08-01T10:02:00Z","message":{"model":"claude-sonnet-4-6"}}`,
		`not even json`,
	)

	result := ParseFile(path)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}

	if len(result.Events) != 1 {
		t.Fatalf("Events = %d, want 1", len(result.Events))
	}

	e := result.Events[0]
	if e.InputTokens != 100 || e.OutputTokens != 50 {
		t.Errorf("tokens = %d/%d, want 100/50", e.InputTokens, e.OutputTokens)
	}
	if e.CacheWriteTokens != 20 || e.CacheReadTokens != 400 {
		t.Errorf("cache tokens = %d/%d, want 20/400", e.CacheWriteTokens, e.CacheReadTokens)
	}
	if e.Model != "claude-sonnet-4-6" {
		t.Errorf("Model = %q, want claude-sonnet-4-6", e.Model)
	}
	want := time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC)
	if !e.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, want)
	}
}

func TestParseFile_MalformedUsageLineCounted(t *testing.T) {
	path := writeTranscript(t,
		`{"message":{"usage":{"input_tokens":1}}}`,
		`{"message":{"usage":`,
	)

	result := ParseFile(path)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Events) != 1 {
		t.Errorf("Events = %d, want 1", len(result.Events))
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", result.ParseErrors)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseTimestamp_Polymorphic(t *testing.T) {
	ref := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"epoch seconds", `1785585600`, ref},
		{"epoch millis", `1785585600000`, ref},
		{"iso with zone", `"2026-08-01T12:00:00Z"`, ref},
		{"iso fractional", `"2026-08-01T12:00:00.500Z"`, ref.Add(500 * time.Millisecond)},
		{"numeric string", `"1785585600"`, ref},
		{"zero number", `0`, time.Time{}},
		{"garbage string", `"yesterday-ish"`, time.Time{}},
		{"empty", ``, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseTimestamp([]byte(tc.raw))
			if !got.Equal(tc.want) {
				t.Errorf("parseTimestamp(%s) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseTimestampString_ZonelessIsLocal(t *testing.T) {
	got := parseTimestampString("2026-08-01T09:30:00")
	want := time.Date(2026, 8, 1, 9, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("parseTimestampString = %v, want %v", got, want)
	}
}

func TestParseFile_CreatedAtFallback(t *testing.T) {
	path := writeTranscript(t,
		`{"createdAt":"2026-08-01T10:00:00Z","message":{"usage":{"input_tokens":5,"output_tokens":1}}}`,
	)

	result := ParseFile(path)
	if len(result.Events) != 1 {
		t.Fatalf("Events = %d, want 1", len(result.Events))
	}
	if !result.Events[0].HasTimestamp() {
		t.Error("expected timestamp from createdAt fallback")
	}
}

func TestParseFile_MalformedTimestampKeepsEvent(t *testing.T) {
	path := writeTranscript(t,
		`{"timestamp":{"weird":true},"message":{"usage":{"input_tokens":5,"output_tokens":1}}}`,
	)

	result := ParseFile(path)
	if len(result.Events) != 1 {
		t.Fatalf("Events = %d, want 1", len(result.Events))
	}
	if result.Events[0].HasTimestamp() {
		t.Error("expected zero timestamp for unparseable value")
	}
}
