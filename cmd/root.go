package cmd

import (
	"os"

	"github.com/jdhollis/cquota/internal/adminapi"
	"github.com/jdhollis/cquota/internal/collector"
	"github.com/jdhollis/cquota/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagClaudeDir string
	flagDataDir   string
	flagNoCache   bool
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "cquota",
	Short: "Claude usage quota tracker",
	Long:  "Track Claude usage against session, daily, and weekly rate-limit windows.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagClaudeDir, "claude-dir", "", "Claude data directory (default ~/.claude)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Snapshot data directory (default ~/.claude_usage_data)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite event cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file and applies flag overrides. Flags win
// over file values, file values over defaults.
func loadConfig() config.Config {
	cfg, _ := config.Load()
	if flagClaudeDir != "" {
		cfg.General.ClaudeDir = flagClaudeDir
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagNoCache {
		cfg.General.UseCache = false
	}
	return cfg
}

// collectorConfig builds the collector runtime config shared by the
// one-shot collect command and the daemon.
func collectorConfig(cfg config.Config) collector.Config {
	var client *adminapi.Client
	if key := config.AdminAPIKey(cfg); key != "" {
		client = adminapi.NewClient(key)
		if client != nil && cfg.AdminAPI.BaseURL != "" {
			client = client.WithBaseURL(cfg.AdminAPI.BaseURL)
		}
	}

	return collector.Config{
		ClaudeDir:         cfg.General.ClaudeDir,
		AccountConfigPath: cfg.AccountConfigPath(),
		DataDir:           cfg.General.DataDir,
		Interval:          cfg.Interval(),
		Client:            client,
		UseCache:          cfg.General.UseCache,
		CachePath:         config.CachePath(),
	}
}
