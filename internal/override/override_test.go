package override

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

func TestStore_SessionStartLifecycle(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now()
	start := now.Add(-time.Hour)

	if err := store.SetSessionStart(start, now); err != nil {
		t.Fatalf("SetSessionStart: %v", err)
	}

	st := store.Load()
	if st.SessionStart == nil {
		t.Fatal("SessionStart = nil after set")
	}
	if !st.SessionStart.Equal(start) {
		t.Errorf("SessionStart = %v, want %v", st.SessionStart, start)
	}

	if err := store.ClearSessionStart(); err != nil {
		t.Fatalf("ClearSessionStart: %v", err)
	}
	if st := store.Load(); st.SessionStart != nil {
		t.Errorf("SessionStart = %v after clear, want nil", st.SessionStart)
	}
}

func TestStore_RejectsFutureStart(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now()

	if err := store.SetSessionStart(now.Add(time.Hour), now); err == nil {
		t.Error("expected error for future session start")
	}
	if st := store.Load(); st.SessionStart != nil {
		t.Errorf("SessionStart = %v, want nil after rejected set", st.SessionStart)
	}
}

func TestStore_CapsSurviveSessionChanges(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now()

	if err := store.SetCaps(model.UsageCaps{Session: 55, Weekly: 130}); err != nil {
		t.Fatalf("SetCaps: %v", err)
	}
	if err := store.SetSessionStart(now.Add(-time.Minute), now); err != nil {
		t.Fatalf("SetSessionStart: %v", err)
	}
	if err := store.ClearSessionStart(); err != nil {
		t.Fatalf("ClearSessionStart: %v", err)
	}

	st := store.Load()
	if st.Caps == nil {
		t.Fatal("Caps = nil, want calibrated caps preserved")
	}
	if st.Caps.Session != 55 || st.Caps.Weekly != 130 {
		t.Errorf("Caps = %+v, want {55 130}", st.Caps)
	}
}

func TestStore_LoadTolerant(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	// Missing file
	if st := store.Load(); st.SessionStart != nil || st.Caps != nil {
		t.Errorf("Load (missing) = %+v, want empty", st)
	}

	// Malformed file
	if err := os.WriteFile(filepath.Join(dir, "session_data.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if st := store.Load(); st.SessionStart != nil || st.Caps != nil {
		t.Errorf("Load (malformed) = %+v, want empty", st)
	}
}
