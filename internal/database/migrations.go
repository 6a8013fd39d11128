package database

import (
	"database/sql"

	"github.com/kurtosis-tech/stacktrace"
)

// SQL migration statements
const (
	createRunsTableSQL = `CREATE TABLE IF NOT EXISTS runs (id TEXT PRIMARY KEY, command TEXT NOT NULL DEFAULT '', export_dirpath TEXT NOT NULL DEFAULT '', output_dirpath TEXT NOT NULL DEFAULT '', status TEXT NOT NULL DEFAULT 'running', started_at TEXT NOT NULL, finished_at TEXT);`

	addShortIDColumnSQL   = `ALTER TABLE runs ADD COLUMN short_id TEXT NOT NULL DEFAULT '';`
	backfillShortIDSQL    = `UPDATE runs SET short_id = SUBSTR(id, 1, 8) WHERE short_id = '';`
	createShortIDIndexSQL = `CREATE INDEX IF NOT EXISTS idx_runs_short_id ON runs(short_id);`

	addConnectionsColumnSQL  = `ALTER TABLE runs ADD COLUMN connections INTEGER NOT NULL DEFAULT 0;`
	addMessagesColumnSQL     = `ALTER TABLE runs ADD COLUMN messages INTEGER NOT NULL DEFAULT 0;`
	addInvitationsColumnSQL  = `ALTER TABLE runs ADD COLUMN invitations INTEGER NOT NULL DEFAULT 0;`
	addErrorMessageColumnSQL = `ALTER TABLE runs ADD COLUMN error_message TEXT NOT NULL DEFAULT '';`
)

// migrate brings the runs table up to the current schema. Every step is
// idempotent so reopening an already-migrated database is a no-op.
func migrate(conn *sql.DB) error {
	if _, err := conn.Exec(createRunsTableSQL); err != nil {
		return stacktrace.Propagate(err, "failed to create runs table")
	}

	if err := migrateAddShortID(conn); err != nil {
		return stacktrace.Propagate(err, "failed to add short_id column")
	}

	if err := migrateAddRecordCounts(conn); err != nil {
		return stacktrace.Propagate(err, "failed to add record-count columns")
	}

	if err := migrateAddErrorMessage(conn); err != nil {
		return stacktrace.Propagate(err, "failed to add error_message column")
	}

	return nil
}

// getColumnNames returns a set of column names present in the runs table.
func getColumnNames(conn *sql.DB) (map[string]bool, error) {
	rows, err := conn.Query("PRAGMA table_info(runs)")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read runs table info")
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, stacktrace.Propagate(err, "failed to scan table_info row")
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, stacktrace.Propagate(err, "error iterating table_info rows")
	}
	return columns, nil
}

// migrateAddShortID idempotently adds the short_id column, backfills it from
// existing IDs, and creates an index.
func migrateAddShortID(conn *sql.DB) error {
	columns, err := getColumnNames(conn)
	if err != nil {
		return err
	}

	if columns["short_id"] {
		return nil
	}

	if _, err := conn.Exec(addShortIDColumnSQL); err != nil {
		return stacktrace.Propagate(err, "failed to add short_id column")
	}
	if _, err := conn.Exec(backfillShortIDSQL); err != nil {
		return stacktrace.Propagate(err, "failed to backfill short_id column")
	}
	if _, err := conn.Exec(createShortIDIndexSQL); err != nil {
		return stacktrace.Propagate(err, "failed to create short_id index")
	}
	return nil
}

// migrateAddRecordCounts idempotently adds the per-record-type count columns.
func migrateAddRecordCounts(conn *sql.DB) error {
	columns, err := getColumnNames(conn)
	if err != nil {
		return err
	}

	additions := map[string]string{
		"connections": addConnectionsColumnSQL,
		"messages":    addMessagesColumnSQL,
		"invitations": addInvitationsColumnSQL,
	}
	for column, statement := range additions {
		if columns[column] {
			continue
		}
		if _, err := conn.Exec(statement); err != nil {
			return stacktrace.Propagate(err, "failed to add %s column", column)
		}
	}
	return nil
}

// migrateAddErrorMessage idempotently adds the error_message column.
func migrateAddErrorMessage(conn *sql.DB) error {
	columns, err := getColumnNames(conn)
	if err != nil {
		return err
	}

	if columns["error_message"] {
		return nil
	}

	_, err = conn.Exec(addErrorMessageColumnSQL)
	return err
}
