package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pable/go-football-metrics/internal/model"
)

// MatchLoaded returns true if events for the match are already stored.
func (db *DB) MatchLoaded(matchID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM events WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertCompetition inserts a competition season. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertCompetition(c model.Competition) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO competitions(competition_id, season_id, name, season_name, country)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.SeasonID, c.Name, c.SeasonName, c.Country,
	)
	return err
}

// InsertMatches bulk-inserts matches in a transaction.
func (db *DB) InsertMatches(matches []model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO matches(
			match_id, competition_id, season_id, match_date,
			home_team_id, home_team, away_team_id, away_team,
			home_score, away_score, duration
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err = stmt.Exec(
			m.ID, m.CompetitionID, m.SeasonID, m.Date,
			m.HomeTeamID, m.HomeTeam, m.AwayTeamID, m.AwayTeam,
			m.HomeScore, m.AwayScore, m.Duration,
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceEvents stores the events of one match, replacing any previously
// stored events and lineups of that match.
func (db *DB) ReplaceEvents(matchID int64, events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM lineups WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("clear lineups of match %d: %w", matchID, err)
	}
	if _, err := tx.Exec("DELETE FROM events WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("clear events of match %d: %w", matchID, err)
	}

	evStmt, err := tx.Prepare(`
		INSERT INTO events(
			event_id, match_id, idx, period, minute, second,
			team_id, team, player_id, player, position,
			action, type_name, outcome,
			loc_x, loc_y, end_x, end_y, xg,
			recipient_id, key_pass, defensive, keeper, card,
			replacement_id, replacement
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer evStmt.Close()

	luStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO lineups(event_id, match_id, slot, player_id, player, position)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer luStmt.Close()

	for _, e := range events {
		var xg sql.NullFloat64
		if e.HasXG {
			xg = sql.NullFloat64{Float64: e.XG, Valid: true}
		}
		lx, ly := nullPoint(e.Location)
		ex, ey := nullPoint(e.End)

		_, err = evStmt.Exec(
			e.ID.String(), matchID, e.Index, e.Period, e.Minute, e.Second,
			e.TeamID, e.Team, e.PlayerID, e.Player, e.Position,
			int(e.Type), e.TypeName, int(e.Outcome),
			lx, ly, ex, ey, xg,
			e.RecipientID, boolInt(e.KeyPass), int(e.Defensive), int(e.Keeper), int(e.Card),
			e.ReplacementID, e.Replacement,
		)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
		for i, s := range e.Lineup {
			if _, err := luStmt.Exec(e.ID.String(), matchID, i, s.PlayerID, s.Player, s.Position); err != nil {
				return fmt.Errorf("insert lineup of event %s: %w", e.ID, err)
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns stored matches, newest first. Zero ids list every
// competition season.
func (db *DB) ListMatches(competitionID, seasonID int64) ([]model.MatchSummary, error) {
	q := `
		SELECT m.match_id, m.competition_id, m.season_id, m.match_date,
		       m.home_team_id, m.home_team, m.away_team_id, m.away_team,
		       m.home_score, m.away_score, m.duration,
		       COALESCE(c.name, ''), COALESCE(c.season_name, ''),
		       (SELECT COUNT(1) FROM events e WHERE e.match_id = m.match_id)
		FROM matches m
		LEFT JOIN competitions c ON c.competition_id = m.competition_id AND c.season_id = m.season_id`
	var args []any
	if competitionID != 0 || seasonID != 0 {
		q += " WHERE m.competition_id = ? AND m.season_id = ?"
		args = append(args, competitionID, seasonID)
	}
	q += " ORDER BY m.match_date DESC, m.match_id DESC"

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.ID, &s.CompetitionID, &s.SeasonID, &s.Date,
			&s.HomeTeamID, &s.HomeTeam, &s.AwayTeamID, &s.AwayTeam,
			&s.HomeScore, &s.AwayScore, &s.Duration,
			&s.Competition, &s.Season, &s.EventCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadDataset reads one competition season into memory. Events and
// TournamentEvents both hold every event of the season; callers narrow
// Events to their selection.
func (db *DB) LoadDataset(competitionID, seasonID int64) (*model.Dataset, error) {
	ds := &model.Dataset{}

	var c model.Competition
	err := db.conn.QueryRow(`
		SELECT competition_id, season_id, name, season_name, country
		FROM competitions WHERE competition_id = ? AND season_id = ?`,
		competitionID, seasonID,
	).Scan(&c.ID, &c.SeasonID, &c.Name, &c.SeasonName, &c.Country)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("competition %d season %d not loaded: %w", competitionID, seasonID, model.ErrUnknownEntity)
	}
	if err != nil {
		return nil, fmt.Errorf("load competition: %w", err)
	}
	ds.Competitions = []model.Competition{c}

	summaries, err := db.ListMatches(competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	for _, s := range summaries {
		ds.Matches = append(ds.Matches, s.Match)
	}

	events, err := db.seasonEvents(competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if err := db.attachLineups(competitionID, seasonID, events); err != nil {
		return nil, fmt.Errorf("load lineups: %w", err)
	}
	ds.Events = events
	ds.TournamentEvents = events
	return ds, nil
}

func (db *DB) seasonEvents(competitionID, seasonID int64) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT e.event_id, e.match_id, e.idx, e.period, e.minute, e.second,
		       e.team_id, e.team, e.player_id, e.player, e.position,
		       e.action, e.type_name, e.outcome,
		       e.loc_x, e.loc_y, e.end_x, e.end_y, e.xg,
		       e.recipient_id, e.key_pass, e.defensive, e.keeper, e.card,
		       e.replacement_id, e.replacement
		FROM events e
		JOIN matches m ON m.match_id = e.match_id
		WHERE m.competition_id = ? AND m.season_id = ?
		ORDER BY e.match_id, e.period, e.idx`, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			e                      model.Event
			id                     string
			action, outcome        int
			defensive, keeper, crd int
			keyPass                int
			lx, ly, ex, ey, xg     sql.NullFloat64
		)
		if err := rows.Scan(&id, &e.MatchID, &e.Index, &e.Period, &e.Minute, &e.Second,
			&e.TeamID, &e.Team, &e.PlayerID, &e.Player, &e.Position,
			&action, &e.TypeName, &outcome,
			&lx, &ly, &ex, &ey, &xg,
			&e.RecipientID, &keyPass, &defensive, &keeper, &crd,
			&e.ReplacementID, &e.Replacement); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("event id %q: %w", id, err)
		}
		e.Type = model.ActionType(action)
		e.Outcome = model.Outcome(outcome)
		e.Location = point(lx, ly)
		e.End = point(ex, ey)
		e.XG, e.HasXG = xg.Float64, xg.Valid
		e.KeyPass = keyPass != 0
		e.Defensive = model.DefensiveKind(defensive)
		e.Keeper = model.KeeperKind(keeper)
		e.Card = model.CardKind(crd)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) attachLineups(competitionID, seasonID int64, events []model.Event) error {
	rows, err := db.conn.Query(`
		SELECT l.event_id, l.player_id, l.player, l.position
		FROM lineups l
		JOIN matches m ON m.match_id = l.match_id
		WHERE m.competition_id = ? AND m.season_id = ?
		ORDER BY l.event_id, l.slot`, competitionID, seasonID)
	if err != nil {
		return err
	}
	defer rows.Close()

	slots := make(map[string][]model.LineupSlot)
	for rows.Next() {
		var id string
		var s model.LineupSlot
		if err := rows.Scan(&id, &s.PlayerID, &s.Player, &s.Position); err != nil {
			return err
		}
		slots[id] = append(slots[id], s)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range events {
		if events[i].Type == model.ActionLineup {
			events[i].Lineup = slots[events[i].ID.String()]
		}
	}
	return nil
}

// Teams returns team id to name for every team in a season.
func (db *DB) Teams(competitionID, seasonID int64) (map[int64]string, error) {
	rows, err := db.conn.Query(`
		SELECT home_team_id, home_team FROM matches WHERE competition_id = ? AND season_id = ?
		UNION
		SELECT away_team_id, away_team FROM matches WHERE competition_id = ? AND season_id = ?`,
		competitionID, seasonID, competitionID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// FindTeam resolves a team by id or case-insensitive name within a season.
func (db *DB) FindTeam(competitionID, seasonID int64, query string) (int64, string, error) {
	teams, err := db.Teams(competitionID, seasonID)
	if err != nil {
		return 0, "", err
	}
	for id, name := range teams {
		if strings.EqualFold(name, query) || fmt.Sprint(id) == query {
			return id, name, nil
		}
	}
	return 0, "", fmt.Errorf("team %q: %w", query, model.ErrUnknownEntity)
}

func nullPoint(p *model.Point) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.X, Valid: true}, sql.NullFloat64{Float64: p.Y, Valid: true}
}

func point(x, y sql.NullFloat64) *model.Point {
	if !x.Valid || !y.Valid {
		return nil
	}
	return &model.Point{X: x.Float64, Y: y.Float64}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
