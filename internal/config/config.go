// Package config loads and persists cquota configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all cquota configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	AdminAPI AdminAPIConfig `toml:"admin_api"`
	Caps     CapsConfig     `toml:"caps"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ClaudeDir    string `toml:"claude_dir,omitempty"`
	DataDir      string `toml:"data_dir,omitempty"`
	IntervalSecs int    `toml:"interval_secs"`
	UseCache     bool   `toml:"use_cache"`
}

// AdminAPIConfig holds Anthropic Admin API settings.
type AdminAPIConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// CapsConfig holds default usage caps in API-dollar equivalents.
// A calibrated value stored in the display state file takes precedence.
type CapsConfig struct {
	SessionUSD float64 `toml:"session_usd"`
	WeeklyUSD  float64 `toml:"weekly_usd"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		General: GeneralConfig{
			ClaudeDir:    filepath.Join(home, ".claude"),
			DataDir:      filepath.Join(home, ".claude_usage_data"),
			IntervalSecs: 300,
			UseCache:     true,
		},
		Caps: CapsConfig{
			SessionUSD: 40.0,
			WeeklyUSD:  96.0,
		},
	}
}

// Interval returns the collection interval as a duration.
func (c Config) Interval() time.Duration {
	if c.General.IntervalSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.General.IntervalSecs) * time.Second
}

// AccountConfigPath returns the path of the Claude CLI account config file,
// which lives next to (not inside) the claude data dir.
func (c Config) AccountConfigPath() string {
	return c.General.ClaudeDir + ".json"
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cquota")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cquota")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return loadFrom(ConfigPath())
}

func loadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is fixed under the user's home
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// AdminAPIKey returns the API key from env var or config, in that order.
func AdminAPIKey(cfg Config) string {
	if key := os.Getenv("CLAUDE_ADMIN_API_KEY"); key != "" {
		return key
	}
	return cfg.AdminAPI.APIKey
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cquota")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cquota")
}

// CachePath returns the full path to the event cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "events.db")
}
