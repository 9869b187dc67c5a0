package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
	"github.com/pable/go-football-metrics/internal/reportcard"
)

var (
	playersRole       string
	playersTeam       string
	playersMatches    []int64
	playersMinMinutes float64
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show per-player tournament totals",
	Long: `Aggregate every player's events over the selected matches (the whole
season by default) and print minutes, role and the main counting stats.`,
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

func init() {
	playersCmd.Flags().StringVar(&playersRole, "role", "", "only players of this role (goalkeeper, defender, midfielder, forward)")
	playersCmd.Flags().StringVar(&playersTeam, "team", "", "only players of this team (name or id)")
	playersCmd.Flags().Int64SliceVar(&playersMatches, "match", nil, "restrict to these match ids (repeatable)")
	playersCmd.Flags().Float64Var(&playersMinMinutes, "min-minutes", 0, "hide players with fewer minutes")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := loadDataset(db, playersMatches)
	if err != nil {
		return err
	}

	role := model.RoleUnknown
	if playersRole != "" {
		if role = model.ParseRole(playersRole); role == model.RoleUnknown {
			return fmt.Errorf("unknown role %q", playersRole)
		}
	}
	var teamID int64
	if playersTeam != "" {
		if teamID, _, err = db.FindTeam(cfg.CompetitionID, cfg.SeasonID, playersTeam); err != nil {
			return err
		}
	}

	asm := newAssembler()
	profiles, skipped, err := asm.Profiles(ds.Events, ds.MatchIndex())
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn().Int("skipped_rows", skipped).Msg("malformed rows dropped")
	}

	var rows []*model.PlayerProfile
	for _, p := range profiles {
		if role != model.RoleUnknown && p.Role != role {
			continue
		}
		if teamID != 0 && p.TeamID != teamID {
			continue
		}
		if p.Minutes < playersMinMinutes {
			continue
		}
		rows = append(rows, p)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No players match the filters.")
		return nil
	}

	return emit(playerViews(rows, asm.Catalog()), func() {
		report.PrintProfiles(os.Stdout, rows, 0)
		fmt.Fprintf(os.Stdout, "\n%d players%s\n", len(rows), filterNote(role, playersTeam))
	})
}

type playerView struct {
	PlayerID int64              `json:"player_id" yaml:"player_id"`
	Name     string             `json:"name" yaml:"name"`
	Team     string             `json:"team" yaml:"team"`
	Role     string             `json:"role" yaml:"role"`
	Matches  int                `json:"matches" yaml:"matches"`
	Minutes  float64            `json:"minutes" yaml:"minutes"`
	Metrics  map[string]float64 `json:"metrics" yaml:"metrics"`
}

// playerViews pairs each profile with every catalog metric computable for it.
func playerViews(rows []*model.PlayerProfile, c reportcard.Catalog) []playerView {
	out := make([]playerView, 0, len(rows))
	for _, p := range rows {
		out = append(out, playerView{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Team:     p.Team,
			Role:     p.Role.String(),
			Matches:  p.Matches,
			Minutes:  p.Minutes,
			Metrics:  reportcard.Values(c, &p.Totals),
		})
	}
	return out
}

func filterNote(role model.Role, team string) string {
	var parts []string
	if role != model.RoleUnknown {
		parts = append(parts, role.String())
	}
	if team != "" {
		parts = append(parts, team)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
