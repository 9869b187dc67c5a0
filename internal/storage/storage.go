// Package storage keeps loaded competition seasons in a local SQLite file so
// analyses run without refetching the open-data feed.
package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// DB is the match store: competitions, matches, events and lineups.
type DB struct {
	conn *sql.DB
}

// Open opens the store at path, creating it and its tables on first use.
// path may be ":memory:" for a throwaway store.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("open db: empty path")
	}
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Writers and the rolled-back QueryRaw transaction share this connection;
	// an in-memory store also lives only as long as its one connection.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}
