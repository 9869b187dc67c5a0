package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

var (
	cardRole    string
	cardMatches []int64
	cardStrict  bool
)

var cardCmd = &cobra.Command{
	Use:   "card <player>",
	Short: "Show a player's role report card with tournament percentiles",
	Long: `Build the report card for a player: each metric of the role template with
the player's raw value and percentile among tournament players of the same
role who reached the minutes floor (min_minutes in the config).

<player> is a player id or a unique fragment of the name. The role defaults
to the role the player spent the most tournament minutes in. With --match the
raw values cover only those matches while the reference population stays the
whole tournament.

Lines that cannot be ranked print "n/a" with the reason. Use --strict to
exit non-zero when any line failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCard,
}

func init() {
	cardCmd.Flags().StringVar(&cardRole, "role", "", "template role to use (default: the player's tournament role)")
	cardCmd.Flags().Int64SliceVar(&cardMatches, "match", nil, "compute raw values over these match ids only (repeatable)")
	cardCmd.Flags().BoolVar(&cardStrict, "strict", false, "fail if any metric could not be ranked")
}

func runCard(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, cardMatches)
	if err != nil {
		return err
	}
	playerID, _, err := resolvePlayer(ds.TournamentEvents, args[0])
	if err != nil {
		return err
	}

	role := model.RoleUnknown
	if cardRole != "" {
		if role = model.ParseRole(cardRole); role == model.RoleUnknown {
			return fmt.Errorf("unknown role %q", cardRole)
		}
	}

	card, cardErr := newAssembler().Assemble(ds, playerID, role)
	if cardErr != nil && len(card.Entries) == 0 {
		return cardErr
	}
	if cardErr != nil {
		log.Warn().Err(cardErr).Int64("player_id", playerID).Msg("some metrics could not be ranked")
	}

	if err := emit(report.NewCardView(card), func() { report.PrintCard(os.Stdout, card) }); err != nil {
		return err
	}
	if cardStrict && cardErr != nil {
		return errors.New("report card incomplete")
	}
	return nil
}
