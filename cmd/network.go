package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/extract"
	"github.com/pable/go-football-metrics/internal/report"
)

var (
	netTeam      string
	netMatches   []int64
	netMinWeight int
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show a team's passing network",
	Long: `Build the directed graph of completed passes between players of one team.
Each edge counts passes from passer to receiver; A->B and B->A are separate.
Nodes carry the player's pass count and average pass origin.`,
	Args: cobra.NoArgs,
	RunE: runNetwork,
}

func init() {
	networkCmd.Flags().StringVar(&netTeam, "team", "", "team name or id (required)")
	networkCmd.Flags().Int64SliceVar(&netMatches, "match", nil, "restrict to these match ids (repeatable)")
	networkCmd.Flags().IntVar(&netMinWeight, "min", 1, "hide edges with fewer passes (table output only)")
	_ = networkCmd.MarkFlagRequired("team")
}

func runNetwork(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, netMatches)
	if err != nil {
		return err
	}
	teamID, teamName, err := db.FindTeam(cfg.CompetitionID, cfg.SeasonID, netTeam)
	if err != nil {
		return err
	}

	if err := checkTeamMatches(ds, teamID, netMatches); err != nil {
		return err
	}

	res := newExtractor().Extract(ds.Events, extract.Scope{TeamID: teamID})
	net := aggregator.PassNetwork(res.Facts, teamID)
	log.Debug().Int("nodes", len(net.Nodes)).Int("edges", len(net.Edges)).Msg("network built")

	return emit(report.NewNetworkView(net), func() {
		fmt.Fprintf(os.Stdout, "\n%s passing network\n\n", teamName)
		report.PrintNetwork(os.Stdout, net, playerNames(ds.TournamentEvents), netMinWeight)
	})
}
