package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

var touchesMatches []int64

var touchesCmd = &cobra.Command{
	Use:   "touches <player-a> <player-b>",
	Short: "Compare two players' touch zones on the same grid",
	Long: `Build the touch heat grid of two players over the selected matches and
print them one after the other, plus the cell-by-cell difference (a - b).
Both grids use the configured resolution so cells line up.`,
	Args: cobra.ExactArgs(2),
	RunE: runTouches,
}

func init() {
	touchesCmd.Flags().Int64SliceVar(&touchesMatches, "match", nil, "restrict to these match ids (repeatable)")
}

type touchComparison struct {
	A     string          `json:"a" yaml:"a"`
	B     string          `json:"b" yaml:"b"`
	GridA report.GridView `json:"grid_a" yaml:"grid_a"`
	GridB report.GridView `json:"grid_b" yaml:"grid_b"`
}

func runTouches(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, touchesMatches)
	if err != nil {
		return err
	}

	var grids [2]model.Grid
	var names [2]string
	for i, q := range args {
		var id int64
		id, names[i], err = resolvePlayer(ds.TournamentEvents, q)
		if err != nil {
			return err
		}
		grids[i], err = heatGrid(ds, extract.Scope{PlayerID: id}, aggregator.TouchValue)
		if err != nil {
			return err
		}
	}

	diff := model.Grid{GridSpec: grids[0].GridSpec, Values: make([]float64, len(grids[0].Values))}
	for i := range diff.Values {
		diff.Values[i] = grids[0].Values[i] - grids[1].Values[i]
	}

	out := touchComparison{
		A:     names[0],
		B:     names[1],
		GridA: report.NewGridView(grids[0]),
		GridB: report.NewGridView(grids[1]),
	}
	return emit(out, func() {
		report.PrintGrid(os.Stdout, names[0]+": touches", grids[0], 0)
		report.PrintGrid(os.Stdout, names[1]+": touches", grids[1], 0)
		report.PrintGrid(os.Stdout, fmt.Sprintf("%s - %s", names[0], names[1]), diff, 0)
	})
}
