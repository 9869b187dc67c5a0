// Package statsbomb decodes StatsBomb open-data JSON (competitions, matches
// and per-match event files) into model types.
//
// Rows are decoded one at a time with gjson so a single malformed row is
// skipped and counted instead of failing the whole file.
package statsbomb

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/pable/go-football-metrics/internal/model"
)

// Result holds decoded rows and the number of rows that were skipped.
type Result[T any] struct {
	Rows    []T
	Skipped int
}

var errNotArray = errors.New("expected a JSON array")

func rows(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errNotArray
	}
	return root.Array(), nil
}

// ParseCompetitions decodes competitions.json.
func ParseCompetitions(data []byte) (Result[model.Competition], error) {
	var res Result[model.Competition]
	rs, err := rows(data)
	if err != nil {
		return res, fmt.Errorf("parse competitions: %w", err)
	}
	for _, r := range rs {
		id, season := r.Get("competition_id"), r.Get("season_id")
		if !id.Exists() || !season.Exists() {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, model.Competition{
			ID:         id.Int(),
			SeasonID:   season.Int(),
			Name:       r.Get("competition_name").String(),
			SeasonName: r.Get("season_name").String(),
			Country:    r.Get("country_name").String(),
		})
	}
	return res, nil
}

// ParseMatches decodes matches/{competition}/{season}.json. Duration is left
// zero; it is derived from the match's events with Duration.
func ParseMatches(data []byte) (Result[model.Match], error) {
	var res Result[model.Match]
	rs, err := rows(data)
	if err != nil {
		return res, fmt.Errorf("parse matches: %w", err)
	}
	for _, r := range rs {
		id := r.Get("match_id")
		home, away := r.Get("home_team.home_team_id"), r.Get("away_team.away_team_id")
		if !id.Exists() || !home.Exists() || !away.Exists() {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, model.Match{
			ID:            id.Int(),
			CompetitionID: r.Get("competition.competition_id").Int(),
			SeasonID:      r.Get("season.season_id").Int(),
			Date:          r.Get("match_date").String(),
			HomeTeamID:    home.Int(),
			HomeTeam:      r.Get("home_team.home_team_name").String(),
			AwayTeamID:    away.Int(),
			AwayTeam:      r.Get("away_team.away_team_name").String(),
			HomeScore:     int(r.Get("home_score").Int()),
			AwayScore:     int(r.Get("away_score").Int()),
		})
	}
	return res, nil
}

// ParseEvents decodes events/{match}.json. Rows without an id or type are
// skipped; rows missing optional detail (locations, xG) are kept with that
// detail unset.
func ParseEvents(matchID int64, data []byte) (Result[model.Event], error) {
	var res Result[model.Event]
	rs, err := rows(data)
	if err != nil {
		return res, fmt.Errorf("parse events of match %d: %w", matchID, err)
	}
	res.Rows = make([]model.Event, 0, len(rs))
	for _, r := range rs {
		e, err := decodeEvent(matchID, r)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, e)
	}
	return res, nil
}

func decodeEvent(matchID int64, r gjson.Result) (model.Event, error) {
	id, err := uuid.Parse(r.Get("id").String())
	if err != nil {
		return model.Event{}, fmt.Errorf("event id: %w", model.ErrMalformedRow)
	}
	typeName := r.Get("type.name").String()
	if typeName == "" {
		return model.Event{}, fmt.Errorf("event %s has no type: %w", id, model.ErrMalformedRow)
	}

	e := model.Event{
		ID:       id,
		Index:    int(r.Get("index").Int()),
		MatchID:  matchID,
		Period:   int(r.Get("period").Int()),
		Minute:   int(r.Get("minute").Int()),
		Second:   int(r.Get("second").Int()),
		TeamID:   r.Get("team.id").Int(),
		Team:     r.Get("team.name").String(),
		PlayerID: r.Get("player.id").Int(),
		Player:   r.Get("player.name").String(),
		Position: r.Get("position.name").String(),
		TypeName: typeName,
		Location: point(r.Get("location")),
	}
	decodeDetail(&e, r)
	return e, nil
}

// point reads an [x, y, ...] array; nil when fewer than two numbers.
func point(r gjson.Result) *model.Point {
	if !r.IsArray() {
		return nil
	}
	xs := r.Array()
	if len(xs) < 2 || xs[0].Type != gjson.Number || xs[1].Type != gjson.Number {
		return nil
	}
	return &model.Point{X: xs[0].Float(), Y: xs[1].Float()}
}

// Duration returns the minutes of play in a match: the latest event clock
// over regulation and extra time. Shootouts do not count. Matches without
// events are assumed to last 90 minutes.
func Duration(events []model.Event) float64 {
	var latest float64
	for i := range events {
		if events[i].Period < 1 || events[i].Period > 4 {
			continue
		}
		if c := events[i].Clock(); c > latest {
			latest = c
		}
	}
	if latest == 0 {
		return 90
	}
	return latest
}
