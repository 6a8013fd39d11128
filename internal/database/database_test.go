package database

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbFilepath := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := Open(dbFilepath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndGetRun(t *testing.T) {
	db := openTestDB(t)

	created, err := db.CreateRun("linkedin analyze", "/exports/archive", "/out")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if created.Status != RunStatusRunning {
		t.Errorf("expected status '%s', got '%s'", RunStatusRunning, created.Status)
	}
	if created.ShortID != created.ID[:8] {
		t.Errorf("expected short ID '%s', got '%s'", created.ID[:8], created.ShortID)
	}

	got, err := db.GetRun(created.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Command != "linkedin analyze" || got.ExportDirpath != "/exports/archive" || got.OutputDirpath != "/out" {
		t.Errorf("unexpected run fields: %+v", got)
	}
	if got.FinishedAt != nil {
		t.Errorf("expected no finished_at on a running run, got %v", got.FinishedAt)
	}
}

func TestCompleteRun(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("linkedin parse", "/exports/archive", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	counts := RecordCounts{Connections: 120, Messages: 900, Invitations: 40}
	if err := db.CompleteRun(run.ID, counts); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Status != RunStatusSucceeded {
		t.Errorf("expected status '%s', got '%s'", RunStatusSucceeded, got.Status)
	}
	if got.Connections != 120 || got.Messages != 900 || got.Invitations != 40 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("expected finished_at to be set")
	}
}

func TestFailRun(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("linkedin viz", "/exports/archive", "/out")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := db.FailRun(run.ID, "dashboard template not found"); err != nil {
		t.Fatalf("FailRun failed: %v", err)
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Status != RunStatusFailed {
		t.Errorf("expected status '%s', got '%s'", RunStatusFailed, got.Status)
	}
	if got.ErrorMessage != "dashboard template not found" {
		t.Errorf("unexpected error message: %q", got.ErrorMessage)
	}
}

func TestCompleteRun_NotFound(t *testing.T) {
	db := openTestDB(t)

	err := db.CompleteRun("00000000-0000-0000-0000-000000000000", RecordCounts{})
	if err == nil {
		t.Error("expected an error for an unknown run")
	}
}

func TestListRuns_FilterAndLimit(t *testing.T) {
	db := openTestDB(t)

	first, err := db.CreateRun("linkedin parse", "/a", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	second, err := db.CreateRun("linkedin analyze", "/b", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if err := db.CompleteRun(second.ID, RecordCounts{}); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	// Spread the start timestamps so ordering is deterministic.
	older := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	if _, err := db.conn.Exec("UPDATE runs SET started_at = ? WHERE id = ?", older, first.ID); err != nil {
		t.Fatalf("failed to adjust started_at: %v", err)
	}

	all, err := db.ListRuns(ListRunsParams{})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	if all[0].ID != second.ID {
		t.Errorf("expected most recent run first, got '%s'", all[0].ID)
	}

	succeeded, err := db.ListRuns(ListRunsParams{Status: RunStatusSucceeded})
	if err != nil {
		t.Fatalf("ListRuns with status filter failed: %v", err)
	}
	if len(succeeded) != 1 || succeeded[0].ID != second.ID {
		t.Errorf("expected only the succeeded run, got %d runs", len(succeeded))
	}

	parses, err := db.ListRuns(ListRunsParams{Command: "linkedin parse"})
	if err != nil {
		t.Fatalf("ListRuns with command filter failed: %v", err)
	}
	if len(parses) != 1 || parses[0].ID != first.ID {
		t.Errorf("expected only the parse run, got %d runs", len(parses))
	}

	limited, err := db.ListRuns(ListRunsParams{Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}
}

func TestDeleteRun(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("linkedin parse", "/a", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := db.DeleteRun(run.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := db.GetRun(run.ID); err == nil {
		t.Error("expected an error getting a deleted run")
	}
	if err := db.DeleteRun(run.ID); err == nil {
		t.Error("expected an error deleting an already-deleted run")
	}
}

func TestResolveRunID(t *testing.T) {
	db := openTestDB(t)

	run, err := db.CreateRun("linkedin analyze", "/a", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	resolved, err := db.ResolveRunID(run.ID)
	if err != nil {
		t.Fatalf("ResolveRunID with full ID failed: %v", err)
	}
	if resolved != run.ID {
		t.Errorf("expected '%s', got '%s'", run.ID, resolved)
	}

	resolved, err = db.ResolveRunID(run.ShortID)
	if err != nil {
		t.Fatalf("ResolveRunID with short ID failed: %v", err)
	}
	if resolved != run.ID {
		t.Errorf("expected '%s', got '%s'", run.ID, resolved)
	}

	if _, err := db.ResolveRunID("ffffffff"); err == nil {
		t.Error("expected an error for an unknown identifier")
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbFilepath := filepath.Join(t.TempDir(), "test.sqlite")

	db, err := Open(dbFilepath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	run, err := db.CreateRun("linkedin parse", "/a", "")
	if err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	reopened, err := Open(dbFilepath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun after reopen failed: %v", err)
	}
	if !strings.EqualFold(got.Command, "linkedin parse") {
		t.Errorf("unexpected command after reopen: %q", got.Command)
	}
}
