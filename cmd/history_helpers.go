package cmd

import (
	"strings"

	"github.com/kurtosis-tech/stacktrace"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

// openDB opens the run-history database, creating the schema on first use.
func openDB() (*database.DB, error) {
	db, err := database.Open(config.GetDatabaseFilepath(skillkitDirpath))
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open database")
	}
	return db, nil
}

// recordRun wraps a command's work with run-history bookkeeping: a run row
// is created before the work starts, marked failed if the work errors, and
// marked succeeded with its record counts otherwise. The work's error is
// returned unchanged so the command's exit status reflects it.
func recordRun(command string, sourcePath string, outputPath string, work func() (database.RecordCounts, error)) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.CreateRun(command, sourcePath, outputPath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to record run start")
	}

	counts, workErr := work()
	if workErr != nil {
		_ = db.FailRun(run.ID, workErr.Error())
		return workErr
	}

	if err := db.CompleteRun(run.ID, counts); err != nil {
		return stacktrace.Propagate(err, "failed to record run completion")
	}
	return nil
}

// displayValue returns "--" for empty strings so table cells stay readable.
func displayValue(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

const defaultCellMaxLen = 40

// truncateCell collapses whitespace and truncates a string for table
// display. Returns "--" for an empty string.
func truncateCell(s string, maxLen int) string {
	if s == "" {
		return "--"
	}
	collapsed := strings.Join(strings.Fields(s), " ")
	if len(collapsed) <= maxLen {
		return collapsed
	}
	return collapsed[:maxLen] + "…"
}

// colorizeRunStatus wraps a run status string with ANSI color codes.
func colorizeRunStatus(status string) string {
	switch status {
	case database.RunStatusSucceeded:
		return colorize(ansiGreen, status)
	case database.RunStatusFailed:
		return colorize(ansiRed, status)
	case database.RunStatusRunning:
		return colorize(ansiYellow, status)
	default:
		return status
	}
}

// formatRecordTotal sums a run's record counts for the RECORDS column.
// Returns "--" when nothing was recorded.
func formatRecordTotal(run *database.Run) string {
	total := run.Connections + run.Messages + run.Invitations
	if total == 0 {
		return "--"
	}
	return tableprinter.FormatCount(total)
}
