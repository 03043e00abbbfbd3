package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/collector"
	"github.com/jdhollis/cquota/internal/model"
	"github.com/jdhollis/cquota/internal/snapshot"

	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection pass and write a snapshot",
	RunE:  runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func runCollect(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	svc := collector.New(collectorConfig(cfg))
	if flagQuiet {
		svc.SetLogger(log.New(io.Discard, "", 0))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snap, err := svc.CollectOnce(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("collection pass: %w", err)
	}

	if flagQuiet {
		return nil
	}

	store := snapshot.NewStore(cfg.General.DataDir)
	source := "local transcripts"
	if snap.Source == model.SourceRemote {
		source = "Anthropic Admin API"
	}

	fmt.Println()
	fmt.Printf("  Snapshot written to %s\n", store.SummaryPath())
	fmt.Printf("  Source: %s\n", source)
	fmt.Printf("  Session: %s tokens, %s\n",
		cli.FormatTokens(snap.Session.InputTokens+snap.Session.OutputTokens+
			snap.Session.CacheWriteTokens+snap.Session.CacheReadTokens),
		cli.FormatCost(snap.Session.Cost))
	fmt.Printf("  Daily:   %s tokens, %s\n",
		cli.FormatTokens(snap.Daily.InputTokens+snap.Daily.OutputTokens+
			snap.Daily.CacheWriteTokens+snap.Daily.CacheReadTokens),
		cli.FormatCost(snap.Daily.Cost))
	fmt.Printf("  Weekly:  %s tokens, %s\n",
		cli.FormatTokens(snap.Weekly.InputTokens+snap.Weekly.OutputTokens+
			snap.Weekly.CacheWriteTokens+snap.Weekly.CacheReadTokens),
		cli.FormatCost(snap.Weekly.Cost))
	fmt.Println()

	return nil
}
