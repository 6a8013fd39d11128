package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

var historyRmCmd = &cobra.Command{
	Use:   rmCmdStr + " <run-id>",
	Short: "Remove a run from the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRm,
}

func init() {
	historyCmd.AddCommand(historyRmCmd)
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.ResolveRunID(args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteRun(runID); err != nil {
		return err
	}

	fmt.Printf("Removed run '%s'\n", database.ShortID(runID))
	return nil
}
