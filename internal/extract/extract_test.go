package extract

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pable/go-football-metrics/internal/model"
	"github.com/pable/go-football-metrics/internal/statsbomb"
)

const (
	matchID  = 3942819
	teamID   = 941
	playerID = 5203
)

func pt(x, y float64) *model.Point { return &model.Point{X: x, Y: y} }

func pass(from, to *model.Point, outcome model.Outcome) model.Event {
	return model.Event{
		ID:       uuid.New(),
		MatchID:  matchID,
		Period:   1,
		TeamID:   teamID,
		PlayerID: playerID,
		Type:     model.ActionPass,
		Outcome:  outcome,
		Location: from,
		End:      to,
	}
}

func shot(xg float64, outcome model.Outcome) model.Event {
	return model.Event{
		ID:       uuid.New(),
		MatchID:  matchID,
		Period:   2,
		TeamID:   teamID,
		PlayerID: playerID,
		Type:     model.ActionShot,
		Outcome:  outcome,
		Location: pt(108, 38),
		XG:       xg,
		HasXG:    true,
	}
}

func TestProgressiveRule_Zones(t *testing.T) {
	r := DefaultProgressiveRule()
	cases := []struct {
		name           string
		sx, sy, ex, ey float64
		want           bool
	}{
		{"defensive third, 35 yards", 30, 40, 65, 40, true},
		{"defensive third, 25 yards", 30, 40, 55, 40, false},
		{"middle third, 20 yards", 70, 40, 90, 40, true},
		{"middle third, 10 yards", 70, 40, 80, 40, false},
		{"attacking third, 11 yards", 100, 40, 111, 40, true},
		{"attacking third, 8 yards", 100, 40, 108, 40, false},
		{"backwards", 90, 40, 50, 40, false},
		{"sideways", 60, 10, 60, 70, false},
	}
	for _, tc := range cases {
		if got := r.IsProgressive(tc.sx, tc.sy, tc.ex, tc.ey); got != tc.want {
			t.Errorf("%s: IsProgressive = %v, want %v (advance %.2f)",
				tc.name, got, tc.want, r.Advance(tc.sx, tc.sy, tc.ex, tc.ey))
		}
	}
}

func TestProgressiveRule_ThresholdBeyondLastZone(t *testing.T) {
	r := ProgressiveRule{PitchLength: 120, PitchWidth: 80, Zones: []ProgressiveZone{{UpToX: 60, MinAdvance: 20}}}
	if got := r.Threshold(100); got != 20 {
		t.Errorf("Threshold(100) = %v, want 20", got)
	}
	if r := (ProgressiveRule{PitchLength: 120, PitchWidth: 80}); r.IsProgressive(0, 40, 119, 40) {
		t.Error("rule without zones classified a movement as progressive")
	}
}

// Reclassifying the same coordinates must give the same answer, both through
// the rule and through a full extraction of a copied event.
func TestProgressive_IdempotentReclassification(t *testing.T) {
	x := New()
	events := []model.Event{
		pass(pt(30, 40), pt(65, 40), model.OutcomeComplete),
		pass(pt(30, 40), pt(55, 40), model.OutcomeComplete),
		pass(pt(70, 20), pt(95, 35), model.OutcomeComplete),
		pass(pt(101.3, 62.9), pt(112.4, 44.1), model.OutcomeComplete),
	}

	first := x.Extract(events, Scope{})
	copied := make([]model.Event, len(events))
	for i, e := range events {
		loc, end := *e.Location, *e.End
		e.Location, e.End = &loc, &end
		copied[i] = e
	}
	second := x.Extract(copied, Scope{})

	if len(first.Facts) != len(second.Facts) {
		t.Fatalf("fact count changed: %d vs %d", len(first.Facts), len(second.Facts))
	}
	for i := range first.Facts {
		if first.Facts[i].Progressive != second.Facts[i].Progressive {
			t.Errorf("fact %d: progressive %v then %v", i, first.Facts[i].Progressive, second.Facts[i].Progressive)
		}
		f := first.Facts[i]
		if direct := x.Rule().IsProgressive(f.Start.X, f.Start.Y, f.End.X, f.End.Y); direct != f.Progressive {
			t.Errorf("fact %d: extraction %v, rule %v", i, f.Progressive, direct)
		}
	}
}

func TestExtract_FinalThirdEntry(t *testing.T) {
	x := New()
	res := x.Extract([]model.Event{
		pass(pt(70, 40), pt(85, 40), model.OutcomeComplete),   // entry
		pass(pt(80, 40), pt(90, 40), model.OutcomeComplete),   // starts on the line
		pass(pt(70, 40), pt(85, 40), model.OutcomeIncomplete), // not completed
		pass(pt(90, 40), pt(100, 40), model.OutcomeComplete),  // already inside
	}, Scope{})

	want := []bool{true, false, false, false}
	for i, f := range res.Facts {
		if f.FinalThirdEntry != want[i] {
			t.Errorf("pass %d: FinalThirdEntry = %v, want %v", i, f.FinalThirdEntry, want[i])
		}
	}

	carry := model.Event{
		ID: uuid.New(), MatchID: matchID, Period: 1, TeamID: teamID, PlayerID: playerID,
		Type: model.ActionCarry, Location: pt(75, 30), End: pt(84, 31),
	}
	res = x.Extract([]model.Event{carry}, Scope{})
	if !res.Facts[0].FinalThirdEntry {
		t.Error("carry across x=80 not classified as a final-third entry")
	}
	if res.Facts[0].Touch {
		t.Error("carry counted as a touch")
	}
}

func TestExtract_ShotXGPassthrough(t *testing.T) {
	res := New().Extract([]model.Event{shot(0.35, model.OutcomeOffTarget)}, Scope{})
	if len(res.Facts) != 1 {
		t.Fatalf("facts = %d, want 1", len(res.Facts))
	}
	f := res.Facts[0]
	if f.XG != 0.35 {
		t.Errorf("XG = %v, want 0.35", f.XG)
	}
	if f.Goal || f.OnTarget {
		t.Errorf("off-target shot flagged goal=%v onTarget=%v", f.Goal, f.OnTarget)
	}
	if !f.InBox {
		t.Error("shot from (108,38) not in box")
	}
}

func TestExtract_SkipsMalformedRows(t *testing.T) {
	noPlayer := pass(pt(50, 40), pt(60, 40), model.OutcomeComplete)
	noPlayer.PlayerID = 0
	badXG := shot(1.7, model.OutcomeGoal)
	noXG := shot(0, model.OutcomeSaved)
	noXG.HasXG = false
	unknown := model.Event{ID: uuid.New(), MatchID: matchID, Period: 1, PlayerID: playerID, TypeName: "Mystery"}

	events := []model.Event{
		noPlayer,
		badXG,
		pass(pt(50, 40), pt(60, 40), model.OutcomeComplete),
		noXG,
		unknown,
		shot(0.12, model.OutcomeGoal),
	}
	res := New().Extract(events, Scope{})

	if res.Skipped != 4 {
		t.Errorf("Skipped = %d, want 4", res.Skipped)
	}
	if len(res.Facts) != 2 {
		t.Fatalf("facts = %d, want 2", len(res.Facts))
	}
	if !res.Facts[1].Goal || !res.Facts[1].OnTarget {
		t.Error("goal not flagged as goal on target")
	}
}

func TestExtract_UnrecognisedFeedTypeSkipped(t *testing.T) {
	const rows = `[
  {"id": "1a1f3e3b-60f4-4f3c-9d1f-000000000031", "index": 1, "period": 1, "minute": 3,
   "type": {"id": 99, "name": "Ball Out Of Play"}, "team": {"id": 941, "name": "Spain"},
   "player": {"id": 5203, "name": "Rodri"}, "location": [60, 40]},
  {"id": "1a1f3e3b-60f4-4f3c-9d1f-000000000032", "index": 2, "period": 1, "minute": 4,
   "type": {"id": 21, "name": "Foul Won"}, "team": {"id": 941, "name": "Spain"},
   "player": {"id": 5203, "name": "Rodri"}, "location": [60, 40]}
]`
	parsed, err := statsbomb.ParseEvents(matchID, []byte(rows))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := New().Extract(parsed.Rows, Scope{})
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 for the unrecognised type only", res.Skipped)
	}
	if len(res.Facts) != 0 {
		t.Errorf("facts = %d, want 0", len(res.Facts))
	}
}

func TestExtract_MissingLocationStillTallied(t *testing.T) {
	e := pass(nil, nil, model.OutcomeComplete)
	res := New().Extract([]model.Event{e}, Scope{})
	if len(res.Facts) != 1 {
		t.Fatalf("facts = %d, want 1", len(res.Facts))
	}
	f := res.Facts[0]
	if !f.Touch || !f.Complete {
		t.Errorf("unlocated pass: touch=%v complete=%v, want both true", f.Touch, f.Complete)
	}
	if f.Progressive || f.FinalThirdEntry || f.InBox {
		t.Error("unlocated pass received a spatial flag")
	}
	if res.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", res.Skipped)
	}
}

func TestExtract_Scope(t *testing.T) {
	other := pass(pt(50, 40), pt(60, 40), model.OutcomeComplete)
	other.PlayerID = 7
	other.TeamID = 909
	elsewhere := pass(pt(50, 40), pt(60, 40), model.OutcomeComplete)
	elsewhere.MatchID = 1
	shootout := shot(0.78, model.OutcomeGoal)
	shootout.Period = 5

	events := []model.Event{pass(pt(50, 40), pt(60, 40), model.OutcomeComplete), other, elsewhere, shootout}
	x := New()

	if n := len(x.Extract(events, Scope{}).Facts); n != 3 {
		t.Errorf("unscoped facts = %d, want 3 (shootout excluded)", n)
	}
	if n := len(x.Extract(events, Scope{PlayerID: playerID}).Facts); n != 2 {
		t.Errorf("player facts = %d, want 2", n)
	}
	if n := len(x.Extract(events, Scope{TeamID: 909}).Facts); n != 1 {
		t.Errorf("team facts = %d, want 1", n)
	}
	if n := len(x.Extract(events, Scope{MatchIDs: []int64{matchID}}).Facts); n != 2 {
		t.Errorf("match facts = %d, want 2", n)
	}
}

func TestExtract_Touches(t *testing.T) {
	base := model.Event{MatchID: matchID, Period: 1, TeamID: teamID, PlayerID: playerID, Location: pt(50, 40)}
	mk := func(typ model.ActionType, mod func(*model.Event)) model.Event {
		e := base
		e.ID = uuid.New()
		e.Type = typ
		if mod != nil {
			mod(&e)
		}
		return e
	}
	events := []model.Event{
		mk(model.ActionReceipt, nil),
		mk(model.ActionReceipt, func(e *model.Event) { e.Outcome = model.OutcomeIncomplete }),
		mk(model.ActionDefensive, func(e *model.Event) { e.Defensive = model.DefensiveInterception }),
		mk(model.ActionDefensive, func(e *model.Event) { e.Defensive = model.DefensivePressure }),
		mk(model.ActionGoalkeeper, func(e *model.Event) { e.Keeper = model.KeeperCollected }),
		mk(model.ActionGoalkeeper, func(e *model.Event) { e.Keeper = model.KeeperGoalConceded }),
		mk(model.ActionTouch, nil),
		mk(model.ActionSubstitution, nil),
	}
	res := New().Extract(events, Scope{})
	want := []bool{true, false, true, false, true, false, true}
	if len(res.Facts) != len(want) {
		t.Fatalf("facts = %d, want %d", len(res.Facts), len(want))
	}
	for i, f := range res.Facts {
		if f.Touch != want[i] {
			t.Errorf("fact %d (%s): Touch = %v, want %v", i, f.Action, f.Touch, want[i])
		}
	}

	bad := mk(model.ActionDefensive, nil)
	if res := New().Extract([]model.Event{bad}, Scope{}); res.Skipped != 1 {
		t.Errorf("defensive action without kind: Skipped = %d, want 1", res.Skipped)
	}
}

func TestExtract_Options(t *testing.T) {
	x := New(
		WithFinalThirdX(60),
		WithProgressiveRule(ProgressiveRule{PitchLength: 120, PitchWidth: 80, Zones: []ProgressiveZone{{UpToX: 120, MinAdvance: 5}}}),
	)
	res := x.Extract([]model.Event{pass(pt(55, 40), pt(62, 40), model.OutcomeComplete)}, Scope{})
	f := res.Facts[0]
	if !f.FinalThirdEntry {
		t.Error("custom final third boundary ignored")
	}
	if !f.Progressive {
		t.Error("custom progressive rule ignored")
	}
}

func TestFactErrorsWrapMalformedRow(t *testing.T) {
	x := New()
	e := shot(2, model.OutcomeGoal)
	_, _, err := x.fact(&e)
	if !errors.Is(err, model.ErrMalformedRow) {
		t.Errorf("err = %v, want ErrMalformedRow", err)
	}
}
