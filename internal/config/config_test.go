package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.General.IntervalSecs != 300 {
		t.Errorf("IntervalSecs = %d, want 300", cfg.General.IntervalSecs)
	}
	if !cfg.General.UseCache {
		t.Error("UseCache = false, want true by default")
	}
	if cfg.Caps.SessionUSD != 40.0 || cfg.Caps.WeeklyUSD != 96.0 {
		t.Errorf("caps = %v/%v, want 40/96", cfg.Caps.SessionUSD, cfg.Caps.WeeklyUSD)
	}
	if !strings.HasSuffix(cfg.General.ClaudeDir, ".claude") {
		t.Errorf("ClaudeDir = %q, want ~/.claude", cfg.General.ClaudeDir)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[general]
claude_dir = "/srv/claude"
interval_secs = 60
use_cache = false

[admin_api]
api_key = "sk-ant-admin-from-file"

[caps]
session_usd = 25.0
weekly_usd = 120.0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.General.ClaudeDir != "/srv/claude" {
		t.Errorf("ClaudeDir = %q, want /srv/claude", cfg.General.ClaudeDir)
	}
	if cfg.General.UseCache {
		t.Error("UseCache = true, want false from file")
	}
	if cfg.AdminAPI.APIKey != "sk-ant-admin-from-file" {
		t.Errorf("APIKey = %q", cfg.AdminAPI.APIKey)
	}
	if cfg.Caps.SessionUSD != 25.0 || cfg.Caps.WeeklyUSD != 120.0 {
		t.Errorf("caps = %v/%v, want 25/120", cfg.Caps.SessionUSD, cfg.Caps.WeeklyUSD)
	}
	if got := cfg.Interval(); got != time.Minute {
		t.Errorf("Interval = %v, want 1m", got)
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadFrom(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestInterval_GuardsNonPositive(t *testing.T) {
	cfg := Config{}
	if got := cfg.Interval(); got != 5*time.Minute {
		t.Errorf("Interval = %v, want 5m fallback", got)
	}
}

func TestAccountConfigPath(t *testing.T) {
	cfg := Config{}
	cfg.General.ClaudeDir = "/home/jane/.claude"
	if got := cfg.AccountConfigPath(); got != "/home/jane/.claude.json" {
		t.Errorf("AccountConfigPath = %q, want /home/jane/.claude.json", got)
	}
}

func TestAdminAPIKey_EnvWins(t *testing.T) {
	cfg := Config{}
	cfg.AdminAPI.APIKey = "from-config"

	t.Setenv("CLAUDE_ADMIN_API_KEY", "from-env")
	if got := AdminAPIKey(cfg); got != "from-env" {
		t.Errorf("AdminAPIKey = %q, want from-env", got)
	}

	t.Setenv("CLAUDE_ADMIN_API_KEY", "")
	if got := AdminAPIKey(cfg); got != "from-config" {
		t.Errorf("AdminAPIKey = %q, want from-config", got)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.AdminAPI.APIKey = "sk-ant-admin-roundtrip"
	cfg.General.IntervalSecs = 120

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.AdminAPI.APIKey != "sk-ant-admin-roundtrip" {
		t.Errorf("APIKey = %q after roundtrip", loaded.AdminAPI.APIKey)
	}
	if loaded.General.IntervalSecs != 120 {
		t.Errorf("IntervalSecs = %d, want 120", loaded.General.IntervalSecs)
	}
}
