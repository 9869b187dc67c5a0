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

var (
	progTeam        string
	progMatches     []int64
	progCarries     bool
	progProgressive bool
)

var progressionsCmd = &cobra.Command{
	Use:   "progressions",
	Short: "Count final-third entries (or progressive actions) per player of a team",
	Long: `Count each player's completed passes into the final third for one team over
the selected matches: the pass starts before final_third_x (80) and ends
beyond it. Players are listed from fewest to most.

With --carries, completed carries into the final third count too.

With --progressive the command counts progressive actions instead: a pass or
carry that moves the ball towards the centre of the opponent's goal by at
least the zone threshold configured for its starting x (progressive.zones in
the config).`,
	Args: cobra.NoArgs,
	RunE: runProgressions,
}

func init() {
	progressionsCmd.Flags().StringVar(&progTeam, "team", "", "team name or id (required)")
	progressionsCmd.Flags().Int64SliceVar(&progMatches, "match", nil, "restrict to these match ids (repeatable)")
	progressionsCmd.Flags().BoolVar(&progCarries, "carries", false, "count carries as well as passes")
	progressionsCmd.Flags().BoolVar(&progProgressive, "progressive", false, "count progressive actions instead of final-third entries")
	_ = progressionsCmd.MarkFlagRequired("team")
}

func runProgressions(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, progMatches)
	if err != nil {
		return err
	}
	teamID, teamName, err := db.FindTeam(cfg.CompetitionID, cfg.SeasonID, progTeam)
	if err != nil {
		return err
	}

	if err := checkTeamMatches(ds, teamID, progMatches); err != nil {
		return err
	}

	noun := "passes"
	if progCarries {
		noun = "passes and carries"
	}

	res := newExtractor().Extract(ds.Events, extract.Scope{TeamID: teamID, MatchIDs: progMatches})
	counts := aggregator.CountBy(res.Facts, func(f *model.Fact) bool {
		if f.Action != model.ActionPass && !(progCarries && f.Action == model.ActionCarry) {
			return false
		}
		if progProgressive {
			return f.Progressive
		}
		return f.FinalThirdEntry
	})

	title := fmt.Sprintf("%s: %s into the final third", teamName, noun)
	if progProgressive {
		title = fmt.Sprintf("%s: progressive %s", teamName, noun)
	}
	return emit(report.NewCountViews(counts), func() { report.PrintCounts(os.Stdout, title, counts) })
}
