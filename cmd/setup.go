package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jdhollis/cquota/internal/cli"
	"github.com/jdhollis/cquota/internal/config"
	"github.com/jdhollis/cquota/internal/source"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg := loadConfig()

	// Count transcripts
	files, _ := source.ScanDir(cfg.General.ClaudeDir)

	fmt.Println()
	fmt.Println("  Welcome to cquota!")
	fmt.Println()
	if len(files) > 0 {
		fmt.Printf("  Found %s transcript files in %s\n\n",
			cli.FormatNumber(int64(len(files))), cfg.General.ClaudeDir)
	}

	// 1. API key
	fmt.Println("  1. Anthropic Admin API key (optional)")
	fmt.Println("     With a key, usage comes from the billing API instead of")
	fmt.Println("     local transcripts. Leave blank to keep local parsing.")
	existing := config.AdminAPIKey(cfg)
	if existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		cfg.AdminAPI.APIKey = apiKey
	}
	fmt.Println()

	// 2. Collection interval
	fmt.Println("  2. Collection interval")
	fmt.Println("     (1) 1 minute")
	fmt.Println("     (2) 5 minutes [default]")
	fmt.Println("     (3) 15 minutes")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	switch choice {
	case "1":
		cfg.General.IntervalSecs = 60
	case "3":
		cfg.General.IntervalSecs = 900
	default:
		cfg.General.IntervalSecs = 300
	}
	fmt.Println()

	// 3. Usage caps
	fmt.Println("  3. Usage caps (API-dollar equivalents per window)")
	fmt.Println("     Used to turn window costs into percentages. You can refine")
	fmt.Println("     these later with `cquota calibrate`.")
	cfg.Caps.SessionUSD = promptFloat(reader,
		fmt.Sprintf("     Session cap [%.0f]: ", cfg.Caps.SessionUSD), cfg.Caps.SessionUSD)
	cfg.Caps.WeeklyUSD = promptFloat(reader,
		fmt.Sprintf("     Weekly cap  [%.0f]: ", cfg.Caps.WeeklyUSD), cfg.Caps.WeeklyUSD)

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cquota setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func promptFloat(reader *bufio.Reader, prompt string, def float64) float64 {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil || v <= 0 {
		fmt.Printf("     Invalid value, keeping %.0f\n", def)
		return def
	}
	return v
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
