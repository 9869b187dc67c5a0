package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

var (
	heatValue   string
	heatTeam    string
	heatMatches []int64
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap [player]",
	Short: "Show a player's or team's heat zones",
	Long: `Partition the pitch into the configured grid (grid.cols x grid.rows) and
sum a value per cell over the start location of each action. The attacking
goal is on the right.

Values:
  touches  one per touch of the ball (default)
  xg       expected goals of shots taken from the cell

Give a player, or --team for a whole team.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().StringVar(&heatValue, "value", "touches", "cell value: touches or xg")
	heatmapCmd.Flags().StringVar(&heatTeam, "team", "", "team name or id (instead of a player)")
	heatmapCmd.Flags().Int64SliceVar(&heatMatches, "match", nil, "restrict to these match ids (repeatable)")
}

func valueFunc(name string) (aggregator.ValueFunc, int, error) {
	switch name {
	case "touches", "":
		return aggregator.TouchValue, 0, nil
	case "xg":
		return aggregator.XGValue, 2, nil
	default:
		return nil, 0, fmt.Errorf("unknown heatmap value %q (want touches or xg)", name)
	}
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (heatTeam == "") {
		return errors.New("give either a player or --team")
	}
	value, decimals, err := valueFunc(heatValue)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, heatMatches)
	if err != nil {
		return err
	}

	var scope extract.Scope
	var subject string
	if heatTeam != "" {
		scope.TeamID, subject, err = db.FindTeam(cfg.CompetitionID, cfg.SeasonID, heatTeam)
	} else {
		scope.PlayerID, subject, err = resolvePlayer(ds.TournamentEvents, args[0])
	}
	if err != nil {
		return err
	}

	grid, err := heatGrid(ds, scope, value)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s: %s", subject, heatValue)
	return emit(report.NewGridView(grid), func() { report.PrintGrid(os.Stdout, title, grid, decimals) })
}

func heatGrid(ds *model.Dataset, scope extract.Scope, value aggregator.ValueFunc) (model.Grid, error) {
	res := newExtractor().Extract(ds.Events, scope)
	if res.Skipped > 0 {
		log.Warn().Int("skipped_rows", res.Skipped).Msg("malformed rows dropped")
	}
	return aggregator.Heatmap(res.Facts, cfg.GridSpec(), value)
}
