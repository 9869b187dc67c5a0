package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

var (
	teamQuery   string
	teamMatches []int64
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show team totals and per-90 rates",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func init() {
	teamCmd.Flags().StringVar(&teamQuery, "team", "", "only this team (name or id)")
	teamCmd.Flags().Int64SliceVar(&teamMatches, "match", nil, "restrict to these match ids (repeatable)")
}

func runTeams(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, teamMatches)
	if err != nil {
		return err
	}

	var scope extract.Scope
	if teamQuery != "" {
		if scope.TeamID, _, err = db.FindTeam(cfg.CompetitionID, cfg.SeasonID, teamQuery); err != nil {
			return err
		}
	}

	res := newExtractor().Extract(ds.Events, scope)
	totals := aggregator.TeamTotals(res.Facts, selectedMatches(ds, teamMatches))

	rows := make([]*model.Totals, 0, len(totals))
	for id, t := range totals {
		if scope.TeamID != 0 && id != scope.TeamID {
			continue
		}
		rows = append(rows, t)
	}
	return emit(rows, func() { report.PrintTeamTotals(os.Stdout, rows) })
}
