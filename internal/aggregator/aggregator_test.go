package aggregator

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/pable/go-football-metrics/internal/model"
)

// IDs for test players and teams.
const (
	matchID       = 3942819
	otherMatch    = 3943043
	teamHome      = 941
	teamAway      = 909
	playerA int64 = 5203
	playerB int64 = 5204
	playerC int64 = 5205
	playerD int64 = 6001
)

func pt(x, y float64) *model.Point { return &model.Point{X: x, Y: y} }

func makeFact(player int64, action model.ActionType) model.Fact {
	return model.Fact{
		EventID:  uuid.New(),
		MatchID:  matchID,
		TeamID:   teamHome,
		PlayerID: player,
		Action:   action,
	}
}

func completedPass(from, to int64) model.Fact {
	f := makeFact(from, model.ActionPass)
	f.Complete = true
	f.Touch = true
	f.RecipientID = to
	f.Start = pt(50, 40)
	return f
}

func shotFact(player int64, xg float64, goal bool) model.Fact {
	f := makeFact(player, model.ActionShot)
	f.XG = xg
	f.Goal = goal
	f.OnTarget = goal
	f.Touch = true
	f.Start = pt(108, 40)
	return f
}

// makeMatchFacts builds a varied fact set across two matches.
func makeMatchFacts() []model.Fact {
	var facts []model.Fact
	for i := 0; i < 40; i++ {
		p := []int64{playerA, playerB, playerC}[i%3]
		f := completedPass(p, []int64{playerB, playerC, playerA}[i%3])
		f.Progressive = i%4 == 0
		f.FinalThirdEntry = i%5 == 0
		f.KeyPass = i%7 == 0
		if i%2 == 1 {
			f.MatchID = otherMatch
		}
		facts = append(facts, f)
	}
	for i, xg := range []float64{0.35, 0.07, 0.61, 0.02, 0.113, 0.29} {
		facts = append(facts, shotFact([]int64{playerA, playerC}[i%2], xg, i == 2))
	}
	for _, k := range []model.DefensiveKind{model.DefensiveTackle, model.DefensiveInterception, model.DefensivePressure, model.DefensiveClearance} {
		f := makeFact(playerD, model.ActionDefensive)
		f.TeamID = teamAway
		f.Defensive = k
		f.Complete = true
		f.Touch = k != model.DefensivePressure
		facts = append(facts, f)
	}
	return facts
}

// ---- Reduction ----

func TestAggregate_ShuffleInvariant(t *testing.T) {
	facts := makeMatchFacts()
	want := Aggregate(facts)

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		shuffled := make([]model.Fact, len(facts))
		copy(shuffled, facts)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Aggregate(shuffled)
		if len(got) != len(want) {
			t.Fatalf("round %d: %d entities, want %d", round, len(got), len(want))
		}
		for k, w := range want {
			if !reflect.DeepEqual(*got[k], *w) {
				t.Fatalf("round %d: totals for %+v differ:\n got %+v\nwant %+v", round, k, *got[k], *w)
			}
		}
	}
}

func TestAggregate_ShotXGAndGoals(t *testing.T) {
	facts := []model.Fact{shotFact(playerA, 0.35, false)}
	got := Aggregate(facts)[PlayerKey(playerA)]
	if got.XG != 0.35 || got.Goals != 0 || got.Shots != 1 {
		t.Errorf("xg=%v goals=%d shots=%d, want 0.35/0/1", got.XG, got.Goals, got.Shots)
	}

	facts = append(facts, shotFact(playerA, 0.5, true))
	got = Aggregate(facts)[PlayerKey(playerA)]
	if math.Abs(got.XG-0.85) > 1e-12 || got.Goals != 1 {
		t.Errorf("xg=%v goals=%d, want 0.85/1", got.XG, got.Goals)
	}
}

func TestAggregate_TeamAndPlayerKeys(t *testing.T) {
	got := Aggregate(makeMatchFacts())

	home := got[TeamKey(teamHome)]
	if home == nil {
		t.Fatal("missing home team totals")
	}
	if home.Passes != 40 || home.Shots != 6 {
		t.Errorf("home passes=%d shots=%d, want 40/6", home.Passes, home.Shots)
	}

	d := got[PlayerKey(playerD)]
	if d.Tackles != 1 || d.TacklesWon != 1 || d.Interceptions != 1 || d.Pressures != 1 || d.Clearances != 1 {
		t.Errorf("defender totals %+v", *d)
	}
	if d.Touches != 3 {
		t.Errorf("defender touches = %d, want 3 (pressure excluded)", d.Touches)
	}
}

func TestAggregate_IncompletePassNotProgressive(t *testing.T) {
	f := makeFact(playerA, model.ActionPass)
	f.Progressive = true
	f.KeyPass = true
	got := Aggregate([]model.Fact{f})[PlayerKey(playerA)]
	if got.Passes != 1 || got.PassesCompleted != 0 || got.ProgressivePasses != 0 {
		t.Errorf("passes=%d completed=%d progressive=%d", got.Passes, got.PassesCompleted, got.ProgressivePasses)
	}
	if got.KeyPasses != 1 {
		t.Errorf("key passes = %d, want 1", got.KeyPasses)
	}
}

// ---- Minutes & per-90 ----

func lineup(team int64, slots ...model.LineupSlot) model.Event {
	return model.Event{ID: uuid.New(), MatchID: matchID, Period: 1, TeamID: team, Type: model.ActionLineup, Lineup: slots}
}

func TestAppearances_SubstitutionAndRedCard(t *testing.T) {
	matches := map[int64]model.Match{matchID: {ID: matchID, HomeTeamID: teamHome, AwayTeamID: teamAway, Duration: 94.5}}
	events := []model.Event{
		lineup(teamHome,
			model.LineupSlot{PlayerID: playerA, Player: "A", Position: "Center Forward"},
			model.LineupSlot{PlayerID: playerB, Player: "B", Position: "Left Center Back"},
		),
		{
			ID: uuid.New(), Index: 900, MatchID: matchID, Period: 2, Minute: 49, Second: 30,
			TeamID: teamHome, PlayerID: playerA, Position: "Center Forward",
			Type: model.ActionSubstitution, ReplacementID: playerC, Replacement: "C",
		},
		{
			ID: uuid.New(), Index: 1400, MatchID: matchID, Period: 2, Minute: 80,
			TeamID: teamHome, PlayerID: playerB, Type: model.ActionOther, Card: model.CardRed,
		},
	}

	apps, err := Appearances(events, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mins := Minutes(apps)
	if mins[playerA] != 49.5 {
		t.Errorf("starter subbed at 49:30 played %v, want 49.5", mins[playerA])
	}
	if mins[playerC] != 45 {
		t.Errorf("substitute played %v, want 45", mins[playerC])
	}
	if mins[playerB] != 80 {
		t.Errorf("sent-off player played %v, want 80", mins[playerB])
	}

	roles := Roles(apps)
	if roles[playerC] != model.RoleForward || roles[playerB] != model.RoleDefender {
		t.Errorf("roles = %v", roles)
	}
}

func TestAppearances_NoLineupCoversFullMatch(t *testing.T) {
	matches := map[int64]model.Match{matchID: {ID: matchID}}
	events := []model.Event{{ID: uuid.New(), MatchID: matchID, Period: 1, TeamID: teamAway, PlayerID: playerD, Type: model.ActionPass}}
	apps, err := Appearances(events, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Minutes(apps)[playerD]; got != 90 {
		t.Errorf("minutes = %v, want 90", got)
	}
}

func TestAppearances_NoLineupSubstitution(t *testing.T) {
	matches := map[int64]model.Match{matchID: {ID: matchID, Duration: 90}}
	events := []model.Event{
		{ID: uuid.New(), MatchID: matchID, Period: 1, Index: 1, TeamID: teamAway, PlayerID: playerA, Player: "A", Type: model.ActionPass},
		{ID: uuid.New(), MatchID: matchID, Period: 2, Index: 2, Minute: 60, TeamID: teamAway, PlayerID: playerA, Player: "A",
			Type: model.ActionSubstitution, ReplacementID: playerB, Replacement: "B"},
		{ID: uuid.New(), MatchID: matchID, Period: 2, Index: 3, Minute: 70, TeamID: teamAway, PlayerID: playerB, Player: "B", Type: model.ActionPass},
	}
	apps, err := Appearances(events, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mins := Minutes(apps)
	if mins[playerA] != 60 {
		t.Errorf("playerA minutes = %v, want 60", mins[playerA])
	}
	if mins[playerB] != 30 {
		t.Errorf("playerB minutes = %v, want 30", mins[playerB])
	}
}

func TestAppearances_UnknownMatch(t *testing.T) {
	events := []model.Event{{ID: uuid.New(), MatchID: 1, PlayerID: playerA, Type: model.ActionPass}}
	_, err := Appearances(events, map[int64]model.Match{})
	if !errors.Is(err, model.ErrUnknownEntity) {
		t.Errorf("err = %v, want ErrUnknownEntity", err)
	}
}

func TestRoles_MostMinutesWins(t *testing.T) {
	apps := []model.Appearance{
		{MatchID: 1, PlayerID: playerA, Position: "Right Back", From: 0, To: 90},
		{MatchID: 2, PlayerID: playerA, Position: "Right Wing", From: 0, To: 60},
		{MatchID: 3, PlayerID: playerB, Position: "Left Wing", From: 0, To: 45},
		{MatchID: 4, PlayerID: playerB, Position: "Left Midfield", From: 0, To: 45},
	}
	roles := Roles(apps)
	if roles[playerA] != model.RoleDefender {
		t.Errorf("playerA role = %v, want defender", roles[playerA])
	}
	if roles[playerB] != model.RoleMidfielder {
		t.Errorf("playerB role = %v, want midfielder on a tie", roles[playerB])
	}
}

func TestProfiles_JoinMinutes(t *testing.T) {
	matches := map[int64]model.Match{matchID: {ID: matchID, HomeTeamID: teamHome, HomeTeam: "Spain", AwayTeamID: teamAway, Duration: 90}}
	apps := []model.Appearance{{MatchID: matchID, TeamID: teamHome, PlayerID: playerA, Player: "A", Position: "Center Midfield", From: 45, To: 90}}
	var facts []model.Fact
	for i := 0; i < 5; i++ {
		f := completedPass(playerA, playerB)
		f.Progressive = true
		facts = append(facts, f)
	}

	p := Profiles(facts, apps, matches)[playerA]
	if p == nil {
		t.Fatal("missing profile")
	}
	if p.Minutes != 45 || p.Team != "Spain" || p.Role != model.RoleMidfielder || p.Matches != 1 {
		t.Errorf("profile = %+v", *p)
	}
	rate, ok := p.Totals.Per90(float64(p.Totals.ProgressivePasses))
	if !ok || rate != 10 {
		t.Errorf("progressive passes per 90 = %v (ok=%v), want 10", rate, ok)
	}
}

func TestTeamTotals_Minutes(t *testing.T) {
	matches := map[int64]model.Match{
		matchID:    {ID: matchID, HomeTeamID: teamHome, HomeTeam: "Spain", AwayTeamID: teamAway, AwayTeam: "England", Duration: 96},
		otherMatch: {ID: otherMatch, HomeTeamID: teamHome, HomeTeam: "Spain", AwayTeamID: 1, AwayTeam: "Georgia"},
	}
	got := TeamTotals(makeMatchFacts(), matches)
	if got[teamHome].Minutes != 186 || got[teamHome].Matches != 2 {
		t.Errorf("home minutes=%v matches=%d, want 186/2", got[teamHome].Minutes, got[teamHome].Matches)
	}
	if got[1] == nil || got[1].Name != "Georgia" {
		t.Error("team without facts missing from totals")
	}
}

// ---- Network ----

func TestPassNetwork_Directed(t *testing.T) {
	facts := []model.Fact{
		completedPass(playerA, playerB),
		completedPass(playerA, playerB),
		completedPass(playerA, playerB),
		completedPass(playerB, playerA),
		completedPass(playerA, playerA), // self pass
	}
	incomplete := completedPass(playerB, playerA)
	incomplete.Complete = false
	otherTeam := completedPass(playerC, playerD)
	otherTeam.TeamID = teamAway
	facts = append(facts, incomplete, otherTeam)

	net := PassNetwork(facts, teamHome)
	if w := net.Weight(playerA, playerB); w != 3 {
		t.Errorf("A->B = %d, want 3", w)
	}
	if w := net.Weight(playerB, playerA); w != 1 {
		t.Errorf("B->A = %d, want 1", w)
	}
	if len(net.Edges) != 2 {
		t.Errorf("edges = %+v, want exactly A->B and B->A", net.Edges)
	}
	for _, e := range net.Edges {
		if e.From == e.To {
			t.Errorf("self loop %+v", e)
		}
	}
	if len(net.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(net.Nodes))
	}
}

// ---- Grids ----

func TestHeatmap_ZeroCellsExplicit(t *testing.T) {
	spec := model.GridSpec{Cols: 12, Rows: 8, PitchLength: 120, PitchWidth: 80}
	f := completedPass(playerA, playerB)
	f.Start = pt(5, 5)
	edge := completedPass(playerA, playerB)
	edge.Start = pt(120, 80)

	g, err := Heatmap([]model.Fact{f, f, edge}, spec, TouchValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Values) != 96 || len(g.Cells()) != 96 {
		t.Fatalf("cells = %d, want 96", len(g.Cells()))
	}
	if g.At(0, 0) != 2 {
		t.Errorf("cell (0,0) = %v, want 2", g.At(0, 0))
	}
	if g.At(11, 7) != 1 {
		t.Errorf("corner cell = %v, want 1", g.At(11, 7))
	}
	if g.Total() != 3 {
		t.Errorf("total = %v, want 3", g.Total())
	}
}

func TestHeatmap_XG(t *testing.T) {
	spec := model.GridSpec{Cols: 6, Rows: 4, PitchLength: 120, PitchWidth: 80}
	g, err := Heatmap([]model.Fact{shotFact(playerA, 0.35, false), shotFact(playerA, 0.2, true), completedPass(playerA, playerB)}, spec, XGValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(g.At(5, 2)-0.55) > 1e-12 {
		t.Errorf("box cell xg = %v, want 0.55", g.At(5, 2))
	}
	if math.Abs(g.Total()-0.55) > 1e-12 {
		t.Errorf("total xg = %v, want 0.55", g.Total())
	}
}

func TestHeatmap_InvalidGrid(t *testing.T) {
	if _, err := Heatmap(nil, model.GridSpec{Cols: 0, Rows: 8, PitchLength: 120, PitchWidth: 80}, TouchValue); err == nil {
		t.Error("expected error for zero columns")
	}
}

func TestCountBy_Ascending(t *testing.T) {
	facts := []model.Fact{
		completedPass(playerA, playerB), completedPass(playerA, playerB), completedPass(playerA, playerB),
		completedPass(playerB, playerA),
	}
	got := CountBy(facts, func(f *model.Fact) bool { return f.Action == model.ActionPass })
	if len(got) != 2 || got[0].PlayerID != playerB || got[1].Count != 3 {
		t.Errorf("CountBy = %+v", got)
	}
}
