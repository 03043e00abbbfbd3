package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jdhollis/cquota/internal/account"
	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/source"
	"github.com/jdhollis/cquota/internal/window"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Quick local stats straight from the transcripts",
	Long:  "Parses local transcripts directly, without touching the snapshot store.",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	now := time.Now()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning transcripts...\n")
	}

	result, err := source.LoadEvents(cfg.General.ClaudeDir)
	if err != nil {
		return fmt.Errorf("loading transcripts: %w", err)
	}

	qs := window.ComputeQuickStats(result.Events, now)

	fmt.Println()
	fmt.Println(cli.RenderTitle("QUICK STATS"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Usage",
		Headers: []string{"Window", "Tokens", "Calls"},
		Rows: [][]string{
			{"Session (5h)", cli.FormatTokens(qs.SessionTokens), cli.FormatNumber(int64(qs.SessionCalls))},
			{"This week", cli.FormatTokens(qs.WeekTokens), cli.FormatNumber(int64(qs.WeekCalls))},
			{"Lifetime", cli.FormatTokens(qs.TotalTokens), cli.FormatNumber(int64(qs.TotalCalls))},
		},
	}))

	acct := account.Read(cfg.AccountConfigPath())
	if len(acct.Projects) > 0 {
		limit := len(acct.Projects)
		if limit > 5 {
			limit = 5
		}
		rows := make([][]string, 0, limit)
		for _, p := range acct.Projects[:limit] {
			rows = append(rows, []string{
				p.Path,
				cli.FormatCost(p.Cost),
				cli.FormatTokens(p.InputTokens + p.OutputTokens),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Top Projects (lifetime)",
			Headers: []string{"Project", "Cost", "Tokens"},
			Rows:    rows,
		}))
	}

	fmt.Printf("  Parsed %d of %d files", result.ParsedFiles, result.TotalFiles)
	if result.ParseErrors > 0 {
		fmt.Printf(" (%d malformed lines skipped)", result.ParseErrors)
	}
	fmt.Println()
	fmt.Println()

	return nil
}
