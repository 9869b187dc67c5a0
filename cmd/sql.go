package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/report"
)

var sqlCodes bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Query the match store with SQL (changes are rolled back)",
	Long: `Run a query against the local match store and print the result.

The query runs inside a transaction that is always rolled back, so it can
never change the store: 'fbmetrics load' and 'fbmetrics drop' do that.

Each competition season has its matches; each match has its feed events
(one row per event with clock, team, player, start and end location and xg)
and the starting XI of both teams in lineups. Events keep the feed's own type
name next to the integer action and outcome codes; --codes lists them.

Examples:
  fbmetrics sql "SELECT match_date, home_team, home_score, away_score, away_team FROM matches"
  fbmetrics sql "SELECT player, ROUND(SUM(xg), 2) AS xg FROM events
                 WHERE xg IS NOT NULL GROUP BY player_id ORDER BY xg DESC LIMIT 10"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if sqlCodes {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlCodes, "codes", false, "list the action and outcome codes stored in events")
}

func runSQL(cmd *cobra.Command, args []string) error {
	if sqlCodes {
		cols, rows := codeTable()
		return emit(rowMaps(cols, rows), func() { report.PrintRows(os.Stdout, cols, rows) })
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return emit(rowMaps(cols, rows), func() { report.PrintRows(os.Stdout, cols, rows) })
}

// codeTable lists every action and outcome code with its name.
func codeTable() ([]string, [][]string) {
	cols := []string{"column", "code", "name"}
	var rows [][]string
	for a := model.ActionUnknown; a <= model.ActionOther; a++ {
		name := a.String()
		if a == model.ActionUnknown {
			name = "unknown"
		}
		rows = append(rows, []string{"action", strconv.Itoa(int(a)), name})
	}
	for o := model.OutcomeNone; o <= model.OutcomeFailure; o++ {
		name := o.String()
		if o == model.OutcomeNone {
			name = "none"
		}
		rows = append(rows, []string{"outcome", strconv.Itoa(int(o)), name})
	}
	return cols, rows
}

// rowMaps keys each row by column name for json and yaml output.
func rowMaps(cols []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]string, len(cols))
		for i, c := range cols {
			if i < len(r) {
				m[c] = r[i]
			}
		}
		out = append(out, m)
	}
	return out
}
