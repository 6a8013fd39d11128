package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/report"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var reportTemplatesCmd = &cobra.Command{
	Use:   templatesCmdStr,
	Short: "List the available dashboard templates",
	Args:  cobra.NoArgs,
	RunE:  runReportTemplates,
}

func init() {
	reportCmd.AddCommand(reportTemplatesCmd)
}

func runReportTemplates(cmd *cobra.Command, args []string) error {
	tbl := tableprinter.NewTable("NAME", "TABS", "DESCRIPTION")
	for _, template := range report.Templates() {
		tabNames := make([]string, len(template.Tabs))
		for i, tab := range template.Tabs {
			tabNames[i] = tab.Name
		}
		tbl.AddRow(
			colorize(ansiLightBlue, template.Name),
			strings.Join(tabNames, ", "),
			truncateCell(template.Description, 60),
		)
	}
	tbl.Print()
	return nil
}
