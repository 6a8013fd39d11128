package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/report"
)

var reportCreateDashboardCmd = &cobra.Command{
	Use:   createDashboardCmdStr + " <template>",
	Short: "Scaffold a dashboard's tab CSVs from a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportCreateDashboard,
}

func init() {
	reportCmd.AddCommand(reportCreateDashboardCmd)
}

func runReportCreateDashboard(cmd *cobra.Command, args []string) error {
	scaffold, err := report.NewSyncer(skillkitDirpath).CreateDashboard(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Created dashboard '%s': %s\n", scaffold.Dashboard, scaffold.Description)
	for _, tabFilepath := range scaffold.Files {
		fmt.Printf("  %s\n", tabFilepath)
	}

	fmt.Println("\nNext steps:")
	for i, step := range scaffold.NextSteps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	return nil
}
