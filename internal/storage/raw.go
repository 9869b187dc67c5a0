package storage

import (
	"errors"
	"fmt"
	"strings"
)

// QueryRaw runs an ad hoc query and returns column names and rows with every
// value rendered as text. NULL renders as "NULL". The query runs in a
// transaction that is always rolled back, so it cannot change the store.
func (db *DB) QueryRaw(query string, args ...any) ([]string, [][]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, errors.New("query: empty statement")
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			case float64:
				row[i] = fmt.Sprintf("%.4g", x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// Overview counts the rows of each table.
type Overview struct {
	Competitions int
	Matches      int
	Events       int
	Lineups      int
	Players      int
	Teams        int
}

// GetOverview returns table row counts plus distinct players and teams.
func (db *DB) GetOverview() (Overview, error) {
	var o Overview
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM competitions),
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM events),
			(SELECT COUNT(1) FROM lineups),
			(SELECT COUNT(DISTINCT player_id) FROM events WHERE player_id != 0),
			(SELECT COUNT(DISTINCT team_id) FROM events WHERE team_id != 0)`,
	).Scan(&o.Competitions, &o.Matches, &o.Events, &o.Lineups, &o.Players, &o.Teams)
	if err != nil {
		return o, fmt.Errorf("overview: %w", err)
	}
	return o, nil
}
