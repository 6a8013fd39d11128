package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var historyInspectCmd = &cobra.Command{
	Use:   inspectCmdStr + " <run-id>",
	Short: "Show the full details of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryInspect,
}

func init() {
	historyCmd.AddCommand(historyInspectCmd)
}

func runHistoryInspect(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.ResolveRunID(args[0])
	if err != nil {
		return err
	}
	run, err := db.GetRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("ID:           %s\n", run.ID)
	fmt.Printf("Command:      %s\n", run.Command)
	fmt.Printf("Status:       %s\n", colorizeRunStatus(run.Status))
	fmt.Printf("Source:       %s\n", displayValue(run.ExportDirpath))
	fmt.Printf("Output:       %s\n", displayValue(run.OutputDirpath))
	fmt.Printf("Connections:  %s\n", tableprinter.FormatCount(run.Connections))
	fmt.Printf("Messages:     %s\n", tableprinter.FormatCount(run.Messages))
	fmt.Printf("Invitations:  %s\n", tableprinter.FormatCount(run.Invitations))
	fmt.Printf("Started:      %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Printf("Finished:     %s\n", run.FinishedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Duration:     %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	if run.ErrorMessage != "" {
		fmt.Printf("Error:        %s\n", run.ErrorMessage)
	}
	return nil
}
