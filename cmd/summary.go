package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display row counts of every stored table, distinct players and teams, and
the matches of the configured competition season.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Matches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'fbmetrics load' to add a tournament.")
		return nil
	}
	if format != report.FormatTable {
		return report.Write(os.Stdout, format, ov)
	}
	report.PrintOverview(os.Stdout, cfg.DBPath, ov)

	matches, err := db.ListMatches(cfg.CompetitionID, cfg.SeasonID)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) > 0 {
		fmt.Fprintf(os.Stdout, "\n--- %s %s ---\n\n", matches[0].Competition, matches[0].Season)
		report.PrintMatchList(os.Stdout, matches)
	}
	return nil
}
