package cmd

import (
	"github.com/spf13/cobra"
)

var reportScheduleDisableCmd = &cobra.Command{
	Use:   disableCmdStr + " <name>",
	Short: "Disable a schedule without removing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportScheduleDisable,
}

func init() {
	reportScheduleCmd.AddCommand(reportScheduleDisableCmd)
}

func runReportScheduleDisable(cmd *cobra.Command, args []string) error {
	return setScheduleEnabled(args[0], false)
}
