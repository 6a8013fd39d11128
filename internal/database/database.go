// Package database stores the history of pipeline runs in a local SQLite
// database. Each parse, analyze, sanitize, or viz invocation records a run
// row so `skillkit history` can show what ran, over which export, and with
// what result.
package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/kurtosis-tech/stacktrace"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the skillkit SQLite database.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the SQLite database at the given filepath and runs
// auto-migration.
func Open(dbFilepath string) (*DB, error) {
	dsn := dbFilepath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open database at '%s'", dbFilepath)
	}

	// SQLite only supports a single writer, so limit the pool to one connection
	// to avoid unnecessary contention between connections in the same process.
	conn.SetMaxOpenConns(1)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, stacktrace.Propagate(err, "failed to auto-migrate database")
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ShortID returns the first 8 characters of a full UUID.
func ShortID(fullID string) string {
	return fullID[:8]
}

// ResolveRunID resolves a user-provided run identifier (either a full UUID
// or an 8-character short ID) to the full run UUID. Returns an error if the
// identifier matches zero or multiple runs.
func (db *DB) ResolveRunID(userInput string) (string, error) {
	// Try exact match on full ID first (O(1) via primary key)
	var fullID string
	err := db.conn.QueryRow("SELECT id FROM runs WHERE id = ?", userInput).Scan(&fullID)
	if err == nil {
		return fullID, nil
	}
	if err != sql.ErrNoRows {
		return "", stacktrace.Propagate(err, "failed to query run by full ID")
	}

	// Try match on short_id (O(1) via index)
	rows, err := db.conn.Query("SELECT id, command, started_at FROM runs WHERE short_id = ?", userInput)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to query run by short ID")
	}
	defer rows.Close()

	type match struct {
		id        string
		command   string
		startedAt string
	}
	var matches []match
	for rows.Next() {
		var m match
		if err := rows.Scan(&m.id, &m.command, &m.startedAt); err != nil {
			return "", stacktrace.Propagate(err, "failed to scan run row")
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return "", stacktrace.Propagate(err, "error iterating run rows")
	}

	switch len(matches) {
	case 0:
		return "", stacktrace.NewError("run '%s' not found", userInput)
	case 1:
		return matches[0].id, nil
	default:
		var lines []string
		for _, m := range matches {
			lines = append(lines, fmt.Sprintf("  %s  %s  %s", m.id, m.command, m.startedAt))
		}
		return "", stacktrace.NewError(
			"short ID '%s' is ambiguous; matches %d runs:\n%s\nPlease provide more of the UUID to disambiguate.",
			userInput, len(matches), strings.Join(lines, "\n"),
		)
	}
}
