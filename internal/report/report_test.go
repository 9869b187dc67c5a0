package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-football-metrics/internal/aggregator"
	"github.com/pable/go-football-metrics/internal/model"
)

func sampleCard() model.ReportCard {
	return model.ReportCard{
		PlayerID: 5203,
		Player:   "Rodri",
		Team:     "Spain",
		Role:     model.RoleMidfielder,
		Minutes:  521,
		Entries: []model.CardEntry{
			{Metric: "progressive_passes_p90", Label: "Progressive passes /90", Raw: 7.25, Percentile: 88, HigherIsBetter: true, PopulationSize: 41},
			{Metric: "save_pct", Label: "Save %", HigherIsBetter: true, Err: model.ErrRoleMetricMismatch},
		},
	}
}

func TestPrintCard(t *testing.T) {
	var buf bytes.Buffer
	PrintCard(&buf, sampleCard())
	out := buf.String()

	for _, want := range []string{"Rodri", "Spain", "7.25", "88", "41", "n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("card output missing %q:\n%s", want, out)
		}
	}
}

func TestBar(t *testing.T) {
	cases := map[float64]int{0: 0, 4: 0, 5: 1, 50: 5, 100: 10, 120: 10}
	for pct, full := range cases {
		got := strings.Count(bar(pct), "█")
		if got != full {
			t.Errorf("bar(%v) has %d full blocks, want %d", pct, got, full)
		}
	}
}

func TestCardViewJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewCardView(sampleCard())); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got CardView
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Role != "midfielder" || len(got.Lines) != 2 {
		t.Fatalf("view = %+v", got)
	}
	if got.Lines[0].Value == nil || *got.Lines[0].Value != 7.25 || *got.Lines[0].Percentile != 88 {
		t.Errorf("first line = %+v", got.Lines[0])
	}
	if got.Lines[1].Value != nil || got.Lines[1].Percentile != nil || got.Lines[1].Error == "" {
		t.Errorf("failed line should carry only an error: %+v", got.Lines[1])
	}
}

func TestGridViewYAML(t *testing.T) {
	g := model.Grid{
		GridSpec: model.GridSpec{Cols: 2, Rows: 2, PitchLength: 120, PitchWidth: 80},
		Values:   []float64{1, 0, 0, 3},
	}
	var buf bytes.Buffer
	if err := WriteYAML(&buf, NewGridView(g)); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var got GridView
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Total != 4 || len(got.Cells) != 4 {
		t.Fatalf("view = %+v", got)
	}
	last := got.Cells[3]
	if last.Col != 1 || last.Row != 1 || last.X != 60 || last.Y != 40 || last.Value != 3 {
		t.Errorf("last cell = %+v", last)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, " yaml ": FormatYAML, "table": FormatTable} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error for csv")
	}
	if err := Write(&bytes.Buffer{}, FormatTable, nil); err == nil {
		t.Error("Write should reject the table format")
	}
}

func TestPrintNetworkMinWeight(t *testing.T) {
	net := model.PassNetwork{
		TeamID: 941,
		Nodes: []model.NetworkNode{
			{PlayerID: 1, Player: "Rodri", Passes: 4},
			{PlayerID: 2, Player: "Pedri", Passes: 1},
		},
		Edges: []model.NetworkEdge{
			{From: 1, To: 2, Weight: 3},
			{From: 2, To: 1, Weight: 1},
		},
	}
	names := map[int64]string{1: "Rodri", 2: "Pedri"}

	var buf bytes.Buffer
	PrintNetwork(&buf, net, names, 2)
	out := buf.String()
	if !strings.Contains(out, "Rodri") || !strings.Contains(out, "3") {
		t.Errorf("network output missing heavy edge:\n%s", out)
	}
	edges := out[strings.LastIndex(out, "FROM"):]
	if strings.Count(edges, "Pedri") != 1 {
		t.Errorf("edge below min weight should be dropped:\n%s", edges)
	}
}

func TestPrintCountsTotal(t *testing.T) {
	var buf bytes.Buffer
	PrintCounts(&buf, "Progressive passes", []aggregator.EntityCount{
		{PlayerID: 1, Player: "Rodri", Count: 9},
		{PlayerID: 2, Player: "Pedri", Count: 4},
	})
	out := buf.String()
	if !strings.Contains(out, "13") {
		t.Errorf("expected total 13:\n%s", out)
	}
}
