// Package override holds the display layer's own state: a manual session
// start used to render a countdown, and calibrated usage caps. The
// aggregation engine never consults this state.
package override

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

const stateFile = "session_data.json"

// State is the persisted display-layer state. Both fields are optional.
type State struct {
	SessionStart *time.Time       `json:"session_start,omitempty"`
	Caps         *model.UsageCaps `json:"usage_caps,omitempty"`
}

// Store reads and writes the state file under the data directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, stateFile)
}

// Load reads the state file. A missing or malformed file yields empty state.
func (s *Store) Load() State {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return State{}
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}
	}
	return st
}

// Save replaces the state file wholesale.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(s.path(), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// SetSessionStart records a manual session start. Future instants are
// rejected; a countdown anchored in the future would be meaningless.
func (s *Store) SetSessionStart(t, now time.Time) error {
	if t.After(now) {
		return fmt.Errorf("session start cannot be in the future")
	}
	st := s.Load()
	st.SessionStart = &t
	return s.Save(st)
}

// ClearSessionStart drops the manual session start, keeping other state.
func (s *Store) ClearSessionStart() error {
	st := s.Load()
	if st.SessionStart == nil {
		return nil
	}
	st.SessionStart = nil
	return s.Save(st)
}

// SetCaps records calibrated usage caps.
func (s *Store) SetCaps(caps model.UsageCaps) error {
	st := s.Load()
	st.Caps = &caps
	return s.Save(st)
}
