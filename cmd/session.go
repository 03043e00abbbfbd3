package cmd

import (
	"fmt"
	"time"

	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/override"
	"github.com/jdhollis/cquota/internal/window"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the manual session window override",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Mark a session as starting now",
	RunE:  runSessionStart,
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <time>",
	Short: "Set the session start to a specific time",
	Long:  "Accepts RFC3339 ('2026-08-27T09:00:00Z'), '2006-01-02 15:04', or 'HH:MM' (today, local time).",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionSet,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the manual session start",
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionStart(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	now := time.Now()

	if err := override.NewStore(cfg.General.DataDir).SetSessionStart(now, now); err != nil {
		return err
	}

	printSessionWindow(now)
	return nil
}

func runSessionSet(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	now := time.Now()

	start, err := parseSessionTime(args[0], now)
	if err != nil {
		return err
	}

	if err := override.NewStore(cfg.General.DataDir).SetSessionStart(start, now); err != nil {
		return err
	}

	printSessionWindow(start)
	return nil
}

func runSessionClear(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	if err := override.NewStore(cfg.General.DataDir).ClearSessionStart(); err != nil {
		return err
	}

	fmt.Println("  Session override cleared; reset times follow observed usage again.")
	return nil
}

func printSessionWindow(start time.Time) {
	resets := start.Add(window.SessionDuration)
	fmt.Printf("  Session started at %s\n", start.Local().Format("3:04:05 PM"))
	fmt.Printf("  Resets at %s (%s from now)\n",
		resets.Local().Format("3:04:05 PM"),
		cli.FormatCountdown(time.Until(resets)))
}

// parseSessionTime accepts a few human-friendly layouts. Bare HH:MM means
// today in local time.
func parseSessionTime(s string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", s, time.Local); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC3339, '2006-01-02 15:04', or 'HH:MM')", s)
}
