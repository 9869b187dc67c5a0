package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/report"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "list matches of every stored competition season")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	comp, season := cfg.CompetitionID, cfg.SeasonID
	if listAll {
		comp, season = 0, 0
	}
	matches, err := db.ListMatches(comp, season)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'fbmetrics load' to add a tournament.")
		return nil
	}
	return emit(matches, func() { report.PrintMatchList(os.Stdout, matches) })
}
