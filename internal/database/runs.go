package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kurtosis-tech/stacktrace"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// selectRunColumns is the column list every run query selects, in the
// order the scanners expect.
const selectRunColumns = "id, short_id, command, export_dirpath, output_dirpath, status, connections, messages, invitations, error_message, started_at, finished_at"

// Run represents a row in the runs table.
type Run struct {
	ID            string
	ShortID       string
	Command       string
	ExportDirpath string
	OutputDirpath string
	Status        string
	Connections   int
	Messages      int
	Invitations   int
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// RecordCounts holds the per-record-type row counts a completed run stores.
type RecordCounts struct {
	Connections int
	Messages    int
	Invitations int
}

// ListRunsParams holds optional parameters for filtering runs.
type ListRunsParams struct {
	// Command filters to runs recorded by this command when non-empty.
	Command string

	// Status filters to runs with this status when non-empty.
	Status string

	// Limit caps the number of returned runs when positive.
	Limit int
}

// CreateRun inserts a new run in the 'running' state and returns it.
func (db *DB) CreateRun(command string, exportDirpath string, outputDirpath string) (*Run, error) {
	id := uuid.New().String()
	shortID := ShortID(id)
	now := time.Now().UTC()

	_, err := db.conn.Exec(
		"INSERT INTO runs (id, short_id, command, export_dirpath, output_dirpath, status, started_at) VALUES (?, ?, ?, ?, ?, 'running', ?)",
		id, shortID, command, exportDirpath, outputDirpath, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to insert run")
	}

	return &Run{
		ID:            id,
		ShortID:       shortID,
		Command:       command,
		ExportDirpath: exportDirpath,
		OutputDirpath: outputDirpath,
		Status:        RunStatusRunning,
		StartedAt:     now,
	}, nil
}

// CompleteRun marks a run as succeeded and stores its record counts.
func (db *DB) CompleteRun(id string, counts RecordCounts) error {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := db.conn.Exec(
		"UPDATE runs SET status = 'succeeded', connections = ?, messages = ?, invitations = ?, finished_at = ? WHERE id = ?",
		counts.Connections, counts.Messages, counts.Invitations, now, id,
	)
	if err != nil {
		return stacktrace.Propagate(err, "failed to complete run '%s'", id)
	}
	return requireRowAffected(result, id)
}

// FailRun marks a run as failed and stores the failure message.
func (db *DB) FailRun(id string, errorMessage string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := db.conn.Exec(
		"UPDATE runs SET status = 'failed', error_message = ?, finished_at = ? WHERE id = ?",
		errorMessage, now, id,
	)
	if err != nil {
		return stacktrace.Propagate(err, "failed to mark run '%s' as failed", id)
	}
	return requireRowAffected(result, id)
}

// ListRuns returns runs ordered most recent first.
func (db *DB) ListRuns(params ListRunsParams) ([]*Run, error) {
	query := "SELECT " + selectRunColumns + " FROM runs"

	var conditions []string
	var args []interface{}

	if params.Command != "" {
		conditions = append(conditions, "command = ?")
		args = append(args, params.Command)
	}
	if params.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, params.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if params.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, params.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to query runs")
	}
	defer rows.Close()

	return scanRuns(rows)
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(id string) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+selectRunColumns+" FROM runs WHERE id = ?", id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, stacktrace.NewError("run '%s' not found", id)
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to get run '%s'", id)
	}
	return run, nil
}

// DeleteRun permanently removes a run from the database.
func (db *DB) DeleteRun(id string) error {
	result, err := db.conn.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return stacktrace.Propagate(err, "failed to delete run '%s'", id)
	}
	return requireRowAffected(result, id)
}

// requireRowAffected converts a zero-row UPDATE or DELETE into a not-found
// error.
func requireRowAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return stacktrace.Propagate(err, "failed to check rows affected")
	}
	if rowsAffected == 0 {
		return stacktrace.NewError("run '%s' not found", id)
	}
	return nil
}
