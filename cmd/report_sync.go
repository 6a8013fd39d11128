package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/report"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var (
	reportSyncSourceFlag    string
	reportSyncDashboardFlag string
	reportSyncDaysFlag      int
)

var reportSyncCmd = &cobra.Command{
	Use:   syncCmdStr,
	Short: "Pull from a marketing source and stage dashboard tab CSVs",
	Args:  cobra.NoArgs,
	RunE:  runReportSync,
}

func init() {
	reportSyncCmd.Flags().StringVar(&reportSyncSourceFlag, sourceFlagName, "", "source to pull from (klaviyo, shopify, or ga4)")
	reportSyncCmd.Flags().StringVar(&reportSyncDashboardFlag, dashboardFlagName, "", "dashboard whose tab CSVs to refresh")
	reportSyncCmd.Flags().IntVar(&reportSyncDaysFlag, daysFlagName, 30, "lookback window for the pulled data")
	_ = reportSyncCmd.MarkFlagRequired(sourceFlagName)
	_ = reportSyncCmd.MarkFlagRequired(dashboardFlagName)
	reportCmd.AddCommand(reportSyncCmd)
}

func runReportSync(cmd *cobra.Command, args []string) error {
	return recordRun(reportCmdStr+" "+syncCmdStr, reportSyncSourceFlag, reportSyncDashboardFlag, func() (database.RecordCounts, error) {
		result, err := newReportSyncer().Sync(cmd.Context(), reportSyncSourceFlag, reportSyncDashboardFlag, reportSyncDaysFlag)
		if err != nil {
			return database.RecordCounts{}, err
		}
		printSyncResult(result)
		return database.RecordCounts{}, nil
	})
}

func printSyncResult(result *report.SyncResult) {
	tbl := tableprinter.NewTable("TAB", "ROWS", "FILE")
	for _, tab := range result.Tabs {
		tbl.AddRow(tab.Tab, tableprinter.FormatCount(tab.Rows), tab.Filepath)
	}
	tbl.Print()

	summary := fmt.Sprintf("Synced %s into dashboard '%s'", result.Source, result.Dashboard)
	if result.Period != "" {
		summary += fmt.Sprintf(" (%s)", strings.ToLower(result.Period))
	}
	fmt.Println("\n" + summary)
}
