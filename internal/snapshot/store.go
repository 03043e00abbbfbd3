// Package snapshot persists and reads the point-in-time usage summary
// written by the collector and consumed by the display layer.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

// Snapshots older than this are flagged stale by readers.
const StaleAfter = 15 * time.Minute

// Filenames inside the data directory.
const (
	summaryFile = "latest_summary.json"
	historyFile = "usage_history.jsonl"
)

// ErrNoData indicates the snapshot file is absent or not yet readable.
// Readers treat this as "no usage data yet", not a failure: the writer is a
// separate process and may not have completed a pass.
var ErrNoData = errors.New("snapshot: no data yet")

// Store reads and writes snapshots under a fixed per-user data directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the well-known per-user snapshot directory.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude_usage_data")
}

// SummaryPath returns the full path of the snapshot file.
func (s *Store) SummaryPath() string {
	return filepath.Join(s.dir, summaryFile)
}

// HistoryPath returns the full path of the append-only history log.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.dir, historyFile)
}

// Write persists the snapshot: the summary file is replaced wholesale
// (written to a temp file and renamed so readers never see a torn write),
// and the same snapshot is appended as one line to the history log. The
// history log is never truncated or rotated here.
func (s *Store) Write(snap model.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.SummaryPath() + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil { //nolint:gosec // world-readable summary by design
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.SummaryPath()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	line, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding history line: %w", err)
	}
	f, err := os.OpenFile(s.HistoryPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644) //nolint:gosec // world-readable history by design
	if err != nil {
		return fmt.Errorf("opening history log: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}

	return nil
}

// Read loads the latest snapshot and reports its age relative to now.
// A missing, empty, or partially written file yields ErrNoData.
func (s *Store) Read(now time.Time) (model.Snapshot, time.Duration, error) {
	data, err := os.ReadFile(s.SummaryPath())
	if err != nil {
		return model.Snapshot{}, 0, ErrNoData
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Torn write or foreign content: treat as absent rather than fatal.
		return model.Snapshot{}, 0, ErrNoData
	}

	var age time.Duration
	if !snap.Timestamp.IsZero() {
		age = now.Sub(snap.Timestamp)
	}
	return snap, age, nil
}

// Stale reports whether a snapshot of the given age should be flagged stale.
func Stale(age time.Duration) bool {
	return age > StaleAfter
}
