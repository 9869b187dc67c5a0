package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/storage"
)

// Percentile tiers for the card column. Colour is dropped automatically when
// stdout is not a terminal.
var (
	cTop    = color.New(color.FgGreen, color.Bold)
	cAbove  = color.New(color.FgGreen)
	cBelow  = color.New(color.FgYellow)
	cBottom = color.New(color.FgRed)
)

func tint(pct float64, s string) string {
	switch {
	case pct >= 90:
		return cTop.Sprint(s)
	case pct >= 50:
		return cAbove.Sprint(s)
	case pct >= 25:
		return cBelow.Sprint(s)
	default:
		return cBottom.Sprint(s)
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchList prints stored matches with teams, score and event count.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "HOME", "SCORE", "AWAY", "MIN", "EVENTS", "COMPETITION")
	for _, m := range matches {
		table.Append(
			strconv.FormatInt(m.ID, 10),
			m.Date,
			m.HomeTeam,
			fmt.Sprintf("%d – %d", m.HomeScore, m.AwayScore),
			m.AwayTeam,
			fmt.Sprintf("%.0f", m.Duration),
			strconv.Itoa(m.EventCount),
			strings.TrimSpace(m.Competition+" "+m.Season),
		)
	}
	table.Render()
}

// PrintCard prints a report card. Lines that could not be ranked show "n/a"
// and the reason.
func PrintCard(w io.Writer, card model.ReportCard) {
	fmt.Fprintf(w, "\n%s  |  %s  |  %s  |  %.0f min\n\n", card.Player, card.Team, card.Role, card.Minutes)

	table := newTable(w)
	table.Header("METRIC", "VALUE", "PCTL", " ", "N")
	for _, e := range card.Entries {
		if e.Err != nil {
			table.Append(e.Label, "n/a", "—", reason(e.Err), "—")
			continue
		}
		label := e.Label
		if !e.HigherIsBetter {
			label += " ↓"
		}
		table.Append(
			label,
			fmt.Sprintf("%.2f", e.Raw),
			tint(e.Percentile, fmt.Sprintf("%.0f", e.Percentile)),
			tint(e.Percentile, bar(e.Percentile)),
			strconv.Itoa(e.PopulationSize),
		)
	}
	table.Render()
}

// reason trims the wrapped chain to its outermost message.
func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}

func bar(pct float64) string {
	n := int(pct/10 + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}

// PrintProfiles prints one row per player, sorted by minutes descending.
// If focusID is non-zero, that player's row is marked with ">".
func PrintProfiles(w io.Writer, profiles []*model.PlayerProfile, focusID int64) {
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Minutes != profiles[j].Minutes {
			return profiles[i].Minutes > profiles[j].Minutes
		}
		return profiles[i].PlayerID < profiles[j].PlayerID
	})

	table := newTable(w)
	table.Header(" ", "ID", "NAME", "TEAM", "ROLE", "MP", "MIN", "TOUCHES", "PASS%", "PROG_P", "PROG_C", "F3_ENT", "KP", "SH", "G", "XG")
	for _, p := range profiles {
		marker := " "
		if focusID != 0 && p.PlayerID == focusID {
			marker = ">"
		}
		t := &p.Totals
		table.Append(
			marker,
			strconv.FormatInt(p.PlayerID, 10),
			p.Name,
			p.Team,
			p.Role.String(),
			strconv.Itoa(p.Matches),
			fmt.Sprintf("%.0f", p.Minutes),
			strconv.Itoa(t.Touches),
			pct(t.PassCompletionPct()),
			strconv.Itoa(t.ProgressivePasses),
			strconv.Itoa(t.ProgressiveCarries),
			strconv.Itoa(t.FinalThirdEntries),
			strconv.Itoa(t.KeyPasses),
			strconv.Itoa(t.Shots),
			strconv.Itoa(t.Goals),
			fmt.Sprintf("%.2f", t.XG),
		)
	}
	table.Render()
}

func pct(v float64, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", v)
}

// PrintTeamTotals prints team-level totals with per-90 rates.
func PrintTeamTotals(w io.Writer, teams []*model.Totals) {
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })

	table := newTable(w)
	table.Header("TEAM", "MP", "PASSES", "PASS%", "PROG_P/90", "F3_ENT/90", "SH/90", "G", "XG", "XG/SH", "TKL/90", "INT/90", "PRESS/90")
	for _, t := range teams {
		table.Append(
			t.Name,
			strconv.Itoa(t.Matches),
			strconv.Itoa(t.Passes),
			pct(t.PassCompletionPct()),
			rate(t, float64(t.ProgressivePasses)),
			rate(t, float64(t.FinalThirdEntries)),
			rate(t, float64(t.Shots)),
			strconv.Itoa(t.Goals),
			fmt.Sprintf("%.2f", t.XG),
			ratio(t.XGPerShot()),
			rate(t, float64(t.Tackles)),
			rate(t, float64(t.Interceptions)),
			rate(t, float64(t.Pressures)),
		)
	}
	table.Render()
}

func rate(t *model.Totals, count float64) string {
	v, ok := t.Per90(count)
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.1f", v)
}

func ratio(v float64, ok bool) string {
	if !ok {
		return "—"
	}
	return fmt.Sprintf("%.2f", v)
}

// PrintCounts prints a per-player tally, in the order given.
func PrintCounts(w io.Writer, title string, counts []aggregator.EntityCount) {
	fmt.Fprintf(w, "\n%s\n\n", title)
	table := newTable(w)
	table.Header("PLAYER", "COUNT")
	total := 0
	for _, c := range counts {
		table.Append(c.Player, strconv.Itoa(c.Count))
		total += c.Count
	}
	table.Footer("TOTAL", strconv.Itoa(total))
	table.Render()
}

// PrintGrid prints a heat grid with the attacking goal on the right. Rows
// run from the top touchline (y=0) down.
func PrintGrid(w io.Writer, title string, g model.Grid, decimals int) {
	fmt.Fprintf(w, "\n%s  (total %s)\n\n", title, strconv.FormatFloat(g.Total(), 'f', decimals, 64))

	cellL := g.PitchLength / float64(g.Cols)
	header := make([]any, 0, g.Cols+1)
	header = append(header, "y \\ x")
	for c := 0; c < g.Cols; c++ {
		header = append(header, fmt.Sprintf("%.0f", float64(c)*cellL))
	}

	cellW := g.PitchWidth / float64(g.Rows)
	table := newTable(w)
	table.Header(header...)
	for r := 0; r < g.Rows; r++ {
		row := make([]any, 0, g.Cols+1)
		row = append(row, fmt.Sprintf("%.0f", float64(r)*cellW))
		for c := 0; c < g.Cols; c++ {
			v := g.At(c, r)
			if v == 0 {
				row = append(row, "·")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', decimals, 64))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintNetwork prints a passing network: nodes with their average position,
// then edges by weight descending. Edges lighter than minWeight are left out.
func PrintNetwork(w io.Writer, net model.PassNetwork, names map[int64]string, minWeight int) {
	name := func(id int64) string {
		if n, ok := names[id]; ok && n != "" {
			return n
		}
		return strconv.FormatInt(id, 10)
	}

	nodes := newTable(w)
	nodes.Header("PLAYER", "PASSES", "AVG_X", "AVG_Y")
	for _, n := range net.Nodes {
		nodes.Append(name(n.PlayerID), strconv.Itoa(n.Passes), fmt.Sprintf("%.1f", n.AvgX), fmt.Sprintf("%.1f", n.AvgY))
	}
	nodes.Render()
	fmt.Fprintln(w)

	edges := append([]model.NetworkEdge(nil), net.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Weight > edges[j].Weight })

	table := newTable(w)
	table.Header("FROM", "TO", "PASSES")
	for _, e := range edges {
		if e.Weight < minWeight {
			continue
		}
		table.Append(name(e.From), name(e.To), strconv.Itoa(e.Weight))
	}
	table.Render()
}

// PrintRows prints a free-form result set, followed by its row count.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table := newTable(w)
	table.Header(header...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

// PrintOverview prints table sizes of the store.
func PrintOverview(w io.Writer, path string, o storage.Overview) {
	fmt.Fprintf(w, "\nDatabase: %s\n\n", path)
	table := newTable(w)
	table.Header("TABLE", "ROWS")
	table.Append("competitions", strconv.Itoa(o.Competitions))
	table.Append("matches", strconv.Itoa(o.Matches))
	table.Append("events", strconv.Itoa(o.Events))
	table.Append("lineups", strconv.Itoa(o.Lineups))
	table.Append("players (distinct)", strconv.Itoa(o.Players))
	table.Append("teams (distinct)", strconv.Itoa(o.Teams))
	table.Render()
}
