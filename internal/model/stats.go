package model

import (
	"strings"

	"github.com/google/uuid"
)

// ---- Extracted facts ----

// Fact is the slice of an Event the aggregator needs. Spatial flags are false
// when the source event lacked the coordinates to decide them.
type Fact struct {
	EventID  uuid.UUID
	MatchID  int64
	TeamID   int64
	PlayerID int64
	Player   string
	Action   ActionType

	Start *Point
	End   *Point

	Complete        bool
	Touch           bool
	InBox           bool
	Progressive     bool
	FinalThirdEntry bool
	KeyPass         bool

	OnTarget bool
	Goal     bool
	XG       float64

	RecipientID int64
	Defensive   DefensiveKind
	Keeper      KeeperKind
}

// ---- Roles & appearances ----

// Role is the positional group a player is ranked within.
type Role int

const (
	RoleUnknown    Role = 0
	RoleGoalkeeper Role = 1
	RoleDefender   Role = 2
	RoleMidfielder Role = 3
	RoleForward    Role = 4
)

// Roles lists the rankable roles in template order.
var Roles = []Role{RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleForward}

func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	case RoleForward:
		return "forward"
	default:
		return "unknown"
	}
}

// ParseRole accepts a role name or its first letter ("gk" for goalkeeper).
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goalkeeper", "gk", "g":
		return RoleGoalkeeper
	case "defender", "def", "d":
		return RoleDefender
	case "midfielder", "mid", "m":
		return RoleMidfielder
	case "forward", "fwd", "f":
		return RoleForward
	default:
		return RoleUnknown
	}
}

// RoleForPosition maps a StatsBomb position name to its role.
func RoleForPosition(position string) Role {
	p := strings.ToLower(position)
	switch {
	case p == "":
		return RoleUnknown
	case p == "goalkeeper":
		return RoleGoalkeeper
	case strings.Contains(p, "back"):
		return RoleDefender
	case strings.Contains(p, "midfield"):
		return RoleMidfielder
	case strings.Contains(p, "wing"), strings.Contains(p, "forward"), strings.Contains(p, "striker"):
		return RoleForward
	default:
		return RoleUnknown
	}
}

// Appearance is one player's stint in one match, in match minutes.
type Appearance struct {
	MatchID  int64
	TeamID   int64
	PlayerID int64
	Player   string
	Position string
	From, To float64
}

// Minutes returns the stint length, never negative.
func (a *Appearance) Minutes() float64 {
	if a.To <= a.From {
		return 0
	}
	return a.To - a.From
}

// ---- Aggregated metrics ----

// EntityKind distinguishes player and team aggregates.
type EntityKind int

const (
	EntityPlayer EntityKind = 1
	EntityTeam   EntityKind = 2
)

func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityTeam:
		return "team"
	default:
		return "?"
	}
}

// Totals holds additive counters for one entity. Every field is a plain sum so
// totals from disjoint fact sets can be merged in any order.
type Totals struct {
	Kind EntityKind
	ID   int64
	Name string

	Matches int
	Minutes float64

	Touches            int
	TouchesInBox       int
	Passes             int
	PassesCompleted    int
	ProgressivePasses  int
	Carries            int
	ProgressiveCarries int
	FinalThirdEntries  int // completed passes and carries
	FinalThirdPasses   int // completed passes only
	KeyPasses          int

	Shots         int
	ShotsOnTarget int
	Goals         int
	XG            float64

	Dribbles          int
	DribblesCompleted int

	Tackles       int
	TacklesWon    int
	Interceptions int
	Clearances    int
	Blocks        int
	Recoveries    int
	Pressures     int

	Saves         int
	GoalsConceded int
}

// Per90 normalises count to 90 minutes: 5 actions in 45 minutes is 10.
func Per90(count, minutes float64) (float64, error) {
	if minutes <= 0 {
		return 0, ErrNoMinutes
	}
	return count / (minutes / 90), nil
}

// Per90 normalises a count to t's minutes. ok is false with no minutes.
func (t *Totals) Per90(count float64) (v float64, ok bool) {
	v, err := Per90(count, t.Minutes)
	return v, err == nil
}

func (t *Totals) PassCompletionPct() (float64, bool) {
	if t.Passes == 0 {
		return 0, false
	}
	return float64(t.PassesCompleted) / float64(t.Passes) * 100, true
}

func (t *Totals) ShotsOnTargetPct() (float64, bool) {
	if t.Shots == 0 {
		return 0, false
	}
	return float64(t.ShotsOnTarget) / float64(t.Shots) * 100, true
}

func (t *Totals) XGPerShot() (float64, bool) {
	if t.Shots == 0 {
		return 0, false
	}
	return t.XG / float64(t.Shots), true
}

// SavePct is saves over shots on target faced (saves + goals conceded).
func (t *Totals) SavePct() (float64, bool) {
	faced := t.Saves + t.GoalsConceded
	if faced == 0 {
		return 0, false
	}
	return float64(t.Saves) / float64(faced) * 100, true
}

// PlayerProfile is a player's tournament identity plus their totals.
type PlayerProfile struct {
	PlayerID int64
	Name     string
	TeamID   int64
	Team     string
	Role     Role
	Minutes  float64
	Matches  int
	Totals   Totals
}

// ---- Outputs ----

// NetworkNode is a player in a passing network.
type NetworkNode struct {
	PlayerID int64
	Player   string
	Passes   int     // completed passes made
	AvgX     float64 // mean pass origin, located passes only
	AvgY     float64
}

// NetworkEdge is a directed passer -> receiver tally.
type NetworkEdge struct {
	From, To int64
	Weight   int
}

// PassNetwork is a weighted directed graph of completed passes within a team.
type PassNetwork struct {
	TeamID int64
	Nodes  []NetworkNode
	Edges  []NetworkEdge
}

// Weight returns the edge weight from -> to, 0 when absent.
func (n *PassNetwork) Weight(from, to int64) int {
	for _, e := range n.Edges {
		if e.From == from && e.To == to {
			return e.Weight
		}
	}
	return 0
}

// GridSpec fixes the heat-zone partition of the pitch.
type GridSpec struct {
	Cols, Rows  int
	PitchLength float64
	PitchWidth  float64
}

// GridCell is one (cell, value) pair of a Grid.
type GridCell struct {
	Col, Row int
	Value    float64
}

// Grid holds one value per cell, row-major, with empty cells stored as zero.
type Grid struct {
	GridSpec
	Values []float64
}

// At returns the value in column c, row r.
func (g *Grid) At(c, r int) float64 {
	return g.Values[r*g.Cols+c]
}

// Cells lists every cell, including zero cells, row-major.
func (g *Grid) Cells() []GridCell {
	out := make([]GridCell, 0, len(g.Values))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out = append(out, GridCell{Col: c, Row: r, Value: g.At(c, r)})
		}
	}
	return out
}

// Total sums every cell.
func (g *Grid) Total() float64 {
	var sum float64
	for _, v := range g.Values {
		sum += v
	}
	return sum
}

// CardEntry is one (metric, raw value, percentile) line of a report card.
// Err is set when the line could not be produced; Raw and Percentile are then
// meaningless.
type CardEntry struct {
	Metric         string
	Label          string
	Raw            float64
	Percentile     float64
	HigherIsBetter bool
	PopulationSize int
	Err            error
}

// ReportCard is a role template filled for one player.
type ReportCard struct {
	PlayerID int64
	Player   string
	Team     string
	Role     Role
	Minutes  float64
	Entries  []CardEntry
}
