package aggregator

import (
	"github.com/pable/go-football-metrics/internal/model"
)

// Profiles joins player totals with minutes, appearances and the player's
// tournament role. Players with appearances but no facts get zero totals;
// players with facts but no appearance get zero minutes.
func Profiles(facts []model.Fact, apps []model.Appearance, matches map[int64]model.Match) map[int64]*model.PlayerProfile {
	totals := Aggregate(facts)
	minutes := Minutes(apps)
	roles := Roles(apps)

	out := make(map[int64]*model.PlayerProfile)
	get := func(id int64) *model.PlayerProfile {
		p, ok := out[id]
		if !ok {
			p = &model.PlayerProfile{PlayerID: id}
			p.Totals = model.Totals{Kind: model.EntityPlayer, ID: id}
			out[id] = p
		}
		return p
	}

	for i := range apps {
		a := &apps[i]
		p := get(a.PlayerID)
		if p.Name == "" {
			p.Name = a.Player
		}
		p.TeamID = a.TeamID
		if m, ok := matches[a.MatchID]; ok {
			p.Team = teamName(m, a.TeamID)
		}
		p.Matches++
	}

	for k, t := range totals {
		if k.Kind != model.EntityPlayer {
			continue
		}
		p := get(k.ID)
		p.Totals = *t
		if p.Name == "" {
			p.Name = t.Name
		}
	}

	for id, p := range out {
		p.Role = roles[id]
		p.Minutes = minutes[id]
		p.Totals.Minutes = p.Minutes
		p.Totals.Matches = p.Matches
		p.Totals.Name = p.Name
	}
	return out
}

// TeamTotals returns per-team totals. A team's minutes are the summed
// durations of the matches it played among matches.
func TeamTotals(facts []model.Fact, matches map[int64]model.Match) map[int64]*model.Totals {
	out := make(map[int64]*model.Totals)
	for k, t := range Aggregate(facts) {
		if k.Kind == model.EntityTeam {
			out[k.ID] = t
		}
	}

	for _, m := range matches {
		for _, id := range []int64{m.HomeTeamID, m.AwayTeamID} {
			if id == 0 {
				continue
			}
			t, ok := out[id]
			if !ok {
				t = &model.Totals{Kind: model.EntityTeam, ID: id}
				out[id] = t
			}
			t.Name = teamName(m, id)
			t.Matches++
			t.Minutes += duration(m)
		}
	}
	return out
}

func teamName(m model.Match, teamID int64) string {
	switch teamID {
	case m.HomeTeamID:
		return m.HomeTeam
	case m.AwayTeamID:
		return m.AwayTeam
	default:
		return ""
	}
}
