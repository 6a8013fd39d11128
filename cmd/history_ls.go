package cmd

import (
	"fmt"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

const defaultHistoryLsLimit = 20

var (
	historyLsCommandFlag string
	historyLsLimitFlag   int
)

var historyLsCmd = &cobra.Command{
	Use:   lsCmdStr,
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryLs,
}

func init() {
	historyLsCmd.Flags().StringVar(&historyLsCommandFlag, commandFlagName, "", "filter to runs of a specific command")
	historyLsCmd.Flags().IntVarP(&historyLsLimitFlag, limitFlagName, "n", defaultHistoryLsLimit, "number of runs to show (0 = all)")
	historyCmd.AddCommand(historyLsCmd)
}

func runHistoryLs(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(database.ListRunsParams{Command: historyLsCommandFlag})
	if err != nil {
		return stacktrace.Propagate(err, "failed to list runs")
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	totalCount := len(runs)
	displayRuns := runs
	if historyLsLimitFlag > 0 && totalCount > historyLsLimitFlag {
		displayRuns = runs[:historyLsLimitFlag]
	}

	tbl := tableprinter.NewTable("STARTED", "ID", "COMMAND", "STATUS", "RECORDS", "SOURCE")
	for _, run := range displayRuns {
		tbl.AddRow(
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.ShortID,
			run.Command,
			colorizeRunStatus(run.Status),
			formatRecordTotal(run),
			truncateCell(run.ExportDirpath, defaultCellMaxLen),
		)
	}
	tbl.Print()

	if remaining := totalCount - len(displayRuns); remaining > 0 {
		fmt.Printf("\n...and %d more runs; run '%s %s %s -n 0' to see all runs\n", remaining, skillkitCmdStr, historyCmdStr, lsCmdStr)
	}
	return nil
}
