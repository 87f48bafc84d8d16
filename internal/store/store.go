// Package store caches known CM server endpoints between runs.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sqlite (server directory cache).
type DB struct {
	*sql.DB
}

// Open opens db at path, runs migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS servers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			addr TEXT NOT NULL UNIQUE,
			universe INTEGER NOT NULL DEFAULT 1,
			failures INTEGER NOT NULL DEFAULT 0,
			last_attempt_at TEXT,
			last_success_at TEXT,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_servers_failures ON servers(failures);
	`)
	return err
}

// Server: one CM endpoint with attempt bookkeeping.
type Server struct {
	ID            int64
	Addr          string
	Universe      uint32
	Failures      int
	LastAttemptAt time.Time
	LastSuccessAt time.Time
}

// AddServer inserts addr if not present; known addrs keep their history.
func (db *DB) AddServer(addr string, universe uint32) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		"INSERT OR IGNORE INTO servers (addr, universe, created_at) VALUES (?, ?, ?)",
		addr, universe, now)
	return err
}

// Servers returns all endpoints, best candidates first: fewest failures,
// then most recent success.
func (db *DB) Servers() ([]Server, error) {
	rows, err := db.Query(`
		SELECT id, addr, universe, failures, last_attempt_at, last_success_at
		FROM servers
		ORDER BY failures ASC, last_success_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Server
	for rows.Next() {
		var s Server
		var attempt, success sql.NullString
		if err := rows.Scan(&s.ID, &s.Addr, &s.Universe, &s.Failures, &attempt, &success); err != nil {
			return nil, err
		}
		if attempt.Valid {
			s.LastAttemptAt, _ = time.Parse(time.RFC3339, attempt.String)
		}
		if success.Valid {
			s.LastSuccessAt, _ = time.Parse(time.RFC3339, success.String)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordSuccess marks addr good: failures reset, success stamped.
func (db *DB) RecordSuccess(addr string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		"UPDATE servers SET failures = 0, last_attempt_at = ?, last_success_at = ? WHERE addr = ?",
		now, now, addr)
	return err
}

// RecordFailure bumps the failure count for addr.
func (db *DB) RecordFailure(addr string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		"UPDATE servers SET failures = failures + 1, last_attempt_at = ? WHERE addr = ?",
		now, addr)
	return err
}
