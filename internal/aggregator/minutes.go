package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-football-metrics/internal/model"
)

const (
	// defaultDuration is used for matches whose length was never recorded.
	defaultDuration = 90
	shootoutPeriod  = 5
)

type stintKey struct {
	matchID  int64
	playerID int64
}

// Appearances derives each player's stint per match. Starters play from
// minute 0 and substitutes from the substitution clock. A stint ends at the
// player's own substitution or sending-off, otherwise at the match duration.
// Players who act in a match with no recorded lineup for their team are
// treated as playing the whole match.
//
// Every event must reference a match in matches; otherwise the error wraps
// model.ErrUnknownEntity.
func Appearances(events []model.Event, matches map[int64]model.Match) ([]model.Appearance, error) {
	byMatch := make(map[int64][]*model.Event)
	for i := range events {
		e := &events[i]
		if _, ok := matches[e.MatchID]; !ok {
			return nil, fmt.Errorf("event %s: match %d: %w", e.ID, e.MatchID, model.ErrUnknownEntity)
		}
		byMatch[e.MatchID] = append(byMatch[e.MatchID], e)
	}

	stints := make(map[stintKey]*model.Appearance)
	for matchID, evs := range byMatch {
		length := duration(matches[matchID])
		sort.SliceStable(evs, func(i, j int) bool {
			if evs[i].Period != evs[j].Period {
				return evs[i].Period < evs[j].Period
			}
			return evs[i].Index < evs[j].Index
		})

		on := func(teamID, playerID int64, name, position string, at float64) {
			k := stintKey{matchID, playerID}
			if _, ok := stints[k]; ok {
				return
			}
			stints[k] = &model.Appearance{
				MatchID:  matchID,
				TeamID:   teamID,
				PlayerID: playerID,
				Player:   name,
				Position: position,
				From:     at,
				To:       length,
			}
		}
		// Exits are applied once every stint exists: a player of a team with
		// no lineup only gets a stint in pass 2.
		type exit struct {
			playerID int64
			at       float64
		}
		var exits []exit

		// ---- Pass 1: lineups, substitutions and dismissals. ----

		lineupTeams := make(map[int64]bool)
		for _, e := range evs {
			if e.Period >= shootoutPeriod {
				continue
			}
			switch {
			case e.Type == model.ActionLineup:
				lineupTeams[e.TeamID] = true
				for _, s := range e.Lineup {
					on(e.TeamID, s.PlayerID, s.Player, s.Position, 0)
				}
			case e.Type == model.ActionSubstitution && e.PlayerID != 0:
				exits = append(exits, exit{e.PlayerID, e.Clock()})
				if e.ReplacementID != 0 {
					on(e.TeamID, e.ReplacementID, e.Replacement, e.Position, e.Clock())
				}
			case e.Card.SendsOff() && e.PlayerID != 0:
				exits = append(exits, exit{e.PlayerID, e.Clock()})
			}
		}

		// ---- Pass 2: players seen only through their actions. ----

		for _, e := range evs {
			if e.PlayerID == 0 || e.Period >= shootoutPeriod || lineupTeams[e.TeamID] {
				continue
			}
			on(e.TeamID, e.PlayerID, e.Player, e.Position, 0)
		}

		for _, x := range exits {
			if a, ok := stints[stintKey{matchID, x.playerID}]; ok && x.at < a.To {
				a.To = x.at
			}
		}
	}

	out := make([]model.Appearance, 0, len(stints))
	for _, a := range stints {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.PlayerID < b.PlayerID
	})
	return out, nil
}

func duration(m model.Match) float64 {
	if m.Duration <= 0 {
		return defaultDuration
	}
	return m.Duration
}

// Minutes sums appearance minutes per player.
func Minutes(apps []model.Appearance) map[int64]float64 {
	out := make(map[int64]float64)
	for i := range apps {
		out[apps[i].PlayerID] += apps[i].Minutes()
	}
	return out
}

// Roles fixes one role per player: the role they spent the most minutes in.
// Ties go to the role listed first in model.Roles.
func Roles(apps []model.Appearance) map[int64]model.Role {
	byRole := make(map[int64]map[model.Role]float64)
	for i := range apps {
		a := &apps[i]
		r := model.RoleForPosition(a.Position)
		if byRole[a.PlayerID] == nil {
			byRole[a.PlayerID] = make(map[model.Role]float64)
		}
		byRole[a.PlayerID][r] += a.Minutes()
	}

	out := make(map[int64]model.Role, len(byRole))
	for id, mins := range byRole {
		best, bestMin := model.RoleUnknown, -1.0
		for _, r := range model.Roles {
			if m, ok := mins[r]; ok && m > bestMin {
				best, bestMin = r, m
			}
		}
		out[id] = best
	}
	return out
}
