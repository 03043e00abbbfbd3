package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/cost"
	"github.com/jdhollis/cquota/internal/model"
	"github.com/jdhollis/cquota/internal/override"
	"github.com/jdhollis/cquota/internal/snapshot"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate <session|weekly> <percent>",
	Short: "Derive a usage cap from the percentage Claude itself reports",
	Long: "When Claude's own UI says you are at N% of a rate limit, calibrate\n" +
		"scales the current snapshot cost to a full-window cap: cap = cost / (N/100).",
	Args: cobra.ExactArgs(2),
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(_ *cobra.Command, args []string) error {
	which := args[0]
	if which != "session" && which != "weekly" {
		return fmt.Errorf("unknown window %q (use session or weekly)", which)
	}

	pct, err := strconv.ParseFloat(args[1], 64)
	if err != nil || pct <= 0 || pct > 100 {
		return fmt.Errorf("percent must be a number in (0, 100], got %q", args[1])
	}

	cfg := loadConfig()
	now := time.Now()

	snap, age, err := snapshot.NewStore(cfg.General.DataDir).Read(now)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoData) {
			return errors.New("no usage data yet; run `cquota collect` first")
		}
		return err
	}
	if snapshot.Stale(age) {
		fmt.Printf("  Warning: snapshot is %s old; calibration reflects that moment\n", age.Round(time.Second))
	}

	bucket := snap.Session
	if which == "weekly" {
		bucket = snap.Weekly
	}

	used := cost.RateLimit.BucketCost(bucket)
	if used <= 0 {
		return fmt.Errorf("no %s usage in the latest snapshot to calibrate against", which)
	}

	newCap := used / (pct / 100)

	ovr := override.NewStore(cfg.General.DataDir)
	caps := model.DefaultCaps
	if cfg.Caps.SessionUSD > 0 {
		caps.Session = cfg.Caps.SessionUSD
	}
	if cfg.Caps.WeeklyUSD > 0 {
		caps.Weekly = cfg.Caps.WeeklyUSD
	}
	if existing := ovr.Load().Caps; existing != nil {
		caps = *existing
	}

	old := caps.Session
	if which == "weekly" {
		old = caps.Weekly
		caps.Weekly = newCap
	} else {
		caps.Session = newCap
	}

	if err := ovr.SetCaps(caps); err != nil {
		return err
	}

	fmt.Printf("  Calibrated %s cap: %s -> %s (from %s used at %.1f%%)\n",
		which, cli.FormatCost(old), cli.FormatCost(newCap), cli.FormatCost(used), pct)
	return nil
}
