package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/jdhollis/cquota/internal/account"
	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/cost"
	"github.com/jdhollis/cquota/internal/model"
	"github.com/jdhollis/cquota/internal/override"
	"github.com/jdhollis/cquota/internal/snapshot"
	"github.com/jdhollis/cquota/internal/window"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current usage against session, daily, and weekly limits",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	now := time.Now()

	snap, age, err := snapshot.NewStore(cfg.General.DataDir).Read(now)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoData) {
			fmt.Println()
			fmt.Println("  No usage data yet.")
			fmt.Println()
			fmt.Println("  Run a collection pass first:")
			fmt.Println("    cquota collect                  (one-shot)")
			fmt.Println("    cquota daemon --detach          (continuous)")
			fmt.Println()
			return nil
		}
		return err
	}

	state := override.NewStore(cfg.General.DataDir).Load()
	caps := effectiveCaps(cfg.Caps.SessionUSD, cfg.Caps.WeeklyUSD, state.Caps)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CLAUDE USAGE"))
	fmt.Println()

	sessionReset := sessionResetAt(snap, state, now)
	weeklyReset := time.Time{}
	if snap.WeeklyResetsAt != nil {
		weeklyReset = *snap.WeeklyResetsAt
	}

	rows := [][]string{
		limitRow("Session (5h)", snap.Session, caps.Session, sessionReset, now),
		limitRow("Weekly (7d)", snap.Weekly, caps.Weekly, weeklyReset, now),
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Rate Limits",
		Headers: []string{"Window", "Used", "", "Cost", "Resets"},
		Rows:    rows,
	}))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Today",
		Headers: []string{"Tokens", "Input", "Output", "Cache W", "Cache R", "Cost"},
		Rows: [][]string{{
			cli.FormatTokens(bucketTokens(snap.Daily)),
			cli.FormatTokens(snap.Daily.InputTokens),
			cli.FormatTokens(snap.Daily.OutputTokens),
			cli.FormatTokens(snap.Daily.CacheWriteTokens),
			cli.FormatTokens(snap.Daily.CacheReadTokens),
			cli.FormatCost(snap.Daily.Cost),
		}},
	}))

	if sub := account.Subscription(cfg.General.ClaudeDir); sub != "" {
		fmt.Printf("  Subscription: %s\n", sub)
	}
	if snap.ConfigCost > 0 {
		fmt.Printf("  Lifetime cost: %s\n", cli.FormatCost(snap.ConfigCost))
	}

	sourceLabel := "local transcripts"
	if snap.Source == model.SourceRemote {
		sourceLabel = "Anthropic Admin API"
	}
	fmt.Printf("  Collected %s ago from %s\n", age.Round(time.Second), sourceLabel)

	if snapshot.Stale(age) {
		warnStyle := lipgloss.NewStyle().Foreground(cli.ColorOrange)
		fmt.Printf("  %s\n", warnStyle.Render(
			fmt.Sprintf("Data is stale (older than %s) — is the daemon running?", snapshot.StaleAfter)))
	}
	fmt.Println()

	return nil
}

// effectiveCaps resolves the caps precedence: calibrated caps from the
// display state file win over config file values, which win over defaults.
func effectiveCaps(sessionUSD, weeklyUSD float64, calibrated *model.UsageCaps) model.UsageCaps {
	caps := model.DefaultCaps
	if sessionUSD > 0 {
		caps.Session = sessionUSD
	}
	if weeklyUSD > 0 {
		caps.Weekly = weeklyUSD
	}
	if calibrated != nil {
		if calibrated.Session > 0 {
			caps.Session = calibrated.Session
		}
		if calibrated.Weekly > 0 {
			caps.Weekly = calibrated.Weekly
		}
	}
	return caps
}

// sessionResetAt picks the session reset instant: a manual session start
// overrides whatever the collector derived from the transcript window.
func sessionResetAt(snap model.Snapshot, state override.State, now time.Time) time.Time {
	if state.SessionStart != nil && !state.SessionStart.After(now) {
		return state.SessionStart.Add(window.SessionDuration)
	}
	if snap.SessionResetsAt != nil {
		return *snap.SessionResetsAt
	}
	return time.Time{}
}

func limitRow(label string, b model.WindowBucket, capUSD float64, resetsAt time.Time, now time.Time) []string {
	pct := 0.0
	if capUSD > 0 {
		pct = cost.RateLimit.BucketCost(b) / capUSD
	}

	resets := "-"
	if !resetsAt.IsZero() {
		if d := resetsAt.Sub(now); d > 0 {
			resets = cli.FormatCountdown(d)
		} else {
			resets = "now"
		}
	}

	return []string{
		label,
		fmt.Sprintf("%.0f%%", pct*100),
		cli.RenderBar(pct, 20),
		fmt.Sprintf("%s / $%.0f", cli.FormatCost(b.Cost), capUSD),
		resets,
	}
}

func bucketTokens(b model.WindowBucket) int64 {
	return b.InputTokens + b.OutputTokens + b.CacheWriteTokens + b.CacheReadTokens
}
