package database

import (
	"database/sql"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

// scanRuns scans multiple run rows from a query result.
func scanRuns(rows *sql.Rows) ([]*Run, error) {
	var runs []*Run
	for rows.Next() {
		var r Run
		var finishedAt sql.NullString
		var startedAt string
		if err := rows.Scan(&r.ID, &r.ShortID, &r.Command, &r.ExportDirpath, &r.OutputDirpath, &r.Status, &r.Connections, &r.Messages, &r.Invitations, &r.ErrorMessage, &startedAt, &finishedAt); err != nil {
			return nil, stacktrace.Propagate(err, "failed to scan run row")
		}
		applyTimestamps(&r, startedAt, finishedAt)
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, stacktrace.Propagate(err, "error iterating run rows")
	}
	return runs, nil
}

// scanRun scans a single run row.
func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	var finishedAt sql.NullString
	var startedAt string
	if err := row.Scan(&r.ID, &r.ShortID, &r.Command, &r.ExportDirpath, &r.OutputDirpath, &r.Status, &r.Connections, &r.Messages, &r.Invitations, &r.ErrorMessage, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	applyTimestamps(&r, startedAt, finishedAt)
	return &r, nil
}

func applyTimestamps(r *Run, startedAt string, finishedAt sql.NullString) {
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339, finishedAt.String)
		r.FinishedAt = &t
	}
}
