package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/model"
)

// Format selects how a command writes its result.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts "table", "json" or "yaml" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
	}
}

// Write encodes v as JSON or YAML. FormatTable is rejected; callers render
// tables with the Print functions.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("format %q is not a data format", f)
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ---- Export views ----

// CardLine is the serialisable form of a model.CardEntry. Value and
// Percentile are nil when the line carries an error.
type CardLine struct {
	Metric         string   `json:"metric" yaml:"metric"`
	Label          string   `json:"label" yaml:"label"`
	Value          *float64 `json:"value" yaml:"value"`
	Percentile     *float64 `json:"percentile" yaml:"percentile"`
	HigherIsBetter bool     `json:"higher_is_better" yaml:"higher_is_better"`
	Population     int      `json:"population,omitempty" yaml:"population,omitempty"`
	Error          string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type CardView struct {
	PlayerID int64      `json:"player_id" yaml:"player_id"`
	Player   string     `json:"player" yaml:"player"`
	Team     string     `json:"team" yaml:"team"`
	Role     string     `json:"role" yaml:"role"`
	Minutes  float64    `json:"minutes" yaml:"minutes"`
	Lines    []CardLine `json:"metrics" yaml:"metrics"`
}

func NewCardView(card model.ReportCard) CardView {
	v := CardView{
		PlayerID: card.PlayerID,
		Player:   card.Player,
		Team:     card.Team,
		Role:     card.Role.String(),
		Minutes:  card.Minutes,
		Lines:    make([]CardLine, 0, len(card.Entries)),
	}
	for _, e := range card.Entries {
		line := CardLine{
			Metric:         e.Metric,
			Label:          e.Label,
			HigherIsBetter: e.HigherIsBetter,
		}
		if e.Err != nil {
			line.Error = e.Err.Error()
		} else {
			raw, p := e.Raw, e.Percentile
			line.Value = &raw
			line.Percentile = &p
			line.Population = e.PopulationSize
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}

type GridCellView struct {
	Col   int     `json:"col" yaml:"col"`
	Row   int     `json:"row" yaml:"row"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Value float64 `json:"value" yaml:"value"`
}

type GridView struct {
	Cols        int            `json:"cols" yaml:"cols"`
	Rows        int            `json:"rows" yaml:"rows"`
	PitchLength float64        `json:"pitch_length" yaml:"pitch_length"`
	PitchWidth  float64        `json:"pitch_width" yaml:"pitch_width"`
	Total       float64        `json:"total" yaml:"total"`
	Cells       []GridCellView `json:"cells" yaml:"cells"`
}

// NewGridView lists every cell with the pitch coordinates of its lower corner.
func NewGridView(g model.Grid) GridView {
	cellL := g.PitchLength / float64(g.Cols)
	cellW := g.PitchWidth / float64(g.Rows)
	v := GridView{
		Cols:        g.Cols,
		Rows:        g.Rows,
		PitchLength: g.PitchLength,
		PitchWidth:  g.PitchWidth,
		Total:       g.Total(),
	}
	for _, c := range g.Cells() {
		v.Cells = append(v.Cells, GridCellView{
			Col:   c.Col,
			Row:   c.Row,
			X:     float64(c.Col) * cellL,
			Y:     float64(c.Row) * cellW,
			Value: c.Value,
		})
	}
	return v
}

type NetworkNodeView struct {
	PlayerID int64   `json:"player_id" yaml:"player_id"`
	Player   string  `json:"player" yaml:"player"`
	Passes   int     `json:"passes" yaml:"passes"`
	AvgX     float64 `json:"avg_x" yaml:"avg_x"`
	AvgY     float64 `json:"avg_y" yaml:"avg_y"`
}

type NetworkEdgeView struct {
	From   int64 `json:"from" yaml:"from"`
	To     int64 `json:"to" yaml:"to"`
	Weight int   `json:"weight" yaml:"weight"`
}

type NetworkView struct {
	TeamID int64             `json:"team_id" yaml:"team_id"`
	Nodes  []NetworkNodeView `json:"nodes" yaml:"nodes"`
	Edges  []NetworkEdgeView `json:"edges" yaml:"edges"`
}

func NewNetworkView(net model.PassNetwork) NetworkView {
	v := NetworkView{TeamID: net.TeamID}
	for _, n := range net.Nodes {
		v.Nodes = append(v.Nodes, NetworkNodeView{PlayerID: n.PlayerID, Player: n.Player, Passes: n.Passes, AvgX: n.AvgX, AvgY: n.AvgY})
	}
	for _, e := range net.Edges {
		v.Edges = append(v.Edges, NetworkEdgeView{From: e.From, To: e.To, Weight: e.Weight})
	}
	return v
}

type CountView struct {
	PlayerID int64  `json:"player_id" yaml:"player_id"`
	Player   string `json:"player" yaml:"player"`
	Count    int    `json:"count" yaml:"count"`
}

func NewCountViews(counts []aggregator.EntityCount) []CountView {
	out := make([]CountView, 0, len(counts))
	for _, c := range counts {
		out = append(out, CountView{PlayerID: c.PlayerID, Player: c.Player, Count: c.Count})
	}
	return out
}
