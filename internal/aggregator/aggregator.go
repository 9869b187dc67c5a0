// Package aggregator reduces extracted facts into per-entity totals, minutes,
// passing networks and pitch grids.
package aggregator

import (
	"bytes"
	"sort"

	"github.com/pable/go-football-metrics/internal/model"
)

// Key identifies an aggregated entity.
type Key struct {
	Kind model.EntityKind
	ID   int64
}

func PlayerKey(id int64) Key { return Key{Kind: model.EntityPlayer, ID: id} }
func TeamKey(id int64) Key   { return Key{Kind: model.EntityTeam, ID: id} }

// Aggregate sums facts into one Totals per player and per team. The result
// does not depend on the order of facts. Minutes and Matches are left zero;
// see Profiles and TeamTotals.
func Aggregate(facts []model.Fact) map[Key]*model.Totals {
	out := make(map[Key]*model.Totals)
	get := func(k Key, name string) *model.Totals {
		t, ok := out[k]
		if !ok {
			t = &model.Totals{Kind: k.Kind, ID: k.ID}
			out[k] = t
		}
		if t.Name == "" {
			t.Name = name
		}
		return t
	}

	for _, f := range canonical(facts) {
		apply(get(PlayerKey(f.PlayerID), f.Player), &f)
		if f.TeamID != 0 {
			apply(get(TeamKey(f.TeamID), ""), &f)
		}
	}
	return out
}

// apply adds one fact to t.
func apply(t *model.Totals, f *model.Fact) {
	if f.Touch {
		t.Touches++
		if f.InBox {
			t.TouchesInBox++
		}
	}

	switch f.Action {
	case model.ActionPass:
		t.Passes++
		if f.KeyPass {
			t.KeyPasses++
		}
		if !f.Complete {
			return
		}
		t.PassesCompleted++
		if f.Progressive {
			t.ProgressivePasses++
		}
		if f.FinalThirdEntry {
			t.FinalThirdEntries++
			t.FinalThirdPasses++
		}

	case model.ActionCarry:
		t.Carries++
		if f.Progressive {
			t.ProgressiveCarries++
		}
		if f.FinalThirdEntry {
			t.FinalThirdEntries++
		}

	case model.ActionShot:
		t.Shots++
		t.XG += f.XG
		if f.OnTarget {
			t.ShotsOnTarget++
		}
		if f.Goal {
			t.Goals++
		}

	case model.ActionDribble:
		t.Dribbles++
		if f.Complete {
			t.DribblesCompleted++
		}

	case model.ActionDefensive:
		switch f.Defensive {
		case model.DefensiveTackle:
			t.Tackles++
			if f.Complete {
				t.TacklesWon++
			}
		case model.DefensiveInterception:
			t.Interceptions++
		case model.DefensiveClearance:
			t.Clearances++
		case model.DefensiveBlock:
			t.Blocks++
		case model.DefensiveRecovery:
			t.Recoveries++
		case model.DefensivePressure:
			t.Pressures++
		}

	case model.ActionGoalkeeper:
		if f.Keeper.IsSave() {
			t.Saves++
		}
		if f.Keeper.IsConceded() {
			t.GoalsConceded++
		}
	}
}

// canonical returns a copy of facts in a fixed order so floating-point sums
// come out bit-identical however the input was ordered.
func canonical(facts []model.Fact) []model.Fact {
	out := make([]model.Fact, len(facts))
	copy(out, facts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if c := bytes.Compare(a.EventID[:], b.EventID[:]); c != 0 {
			return c < 0
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Action != b.Action {
			return a.Action < b.Action
		}
		return a.XG < b.XG
	})
	return out
}
