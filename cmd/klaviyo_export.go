package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

const maxRecordsFlagName = "max-records"

var (
	klaviyoExportOutputFlag     string
	klaviyoExportMaxRecordsFlag int
)

var klaviyoExportCmd = &cobra.Command{
	Use:   exportCmdStr + " <profiles|catalog>",
	Short: "Export account data to a local file",
	Args:  cobra.ExactArgs(1),
	RunE:  runKlaviyoExport,
}

func init() {
	klaviyoExportCmd.Flags().StringVarP(&klaviyoExportOutputFlag, outputFlagName, "o", "", "file to write the exported records to")
	klaviyoExportCmd.Flags().IntVar(&klaviyoExportMaxRecordsFlag, maxRecordsFlagName, 0, "stop after this many records (0 = no limit)")
	_ = klaviyoExportCmd.MarkFlagRequired(outputFlagName)
	klaviyoCmd.AddCommand(klaviyoExportCmd)
}

func runKlaviyoExport(cmd *cobra.Command, args []string) error {
	devTools, err := newKlaviyoDevTools()
	if err != nil {
		return err
	}

	summary, err := devTools.ExportData(cmd.Context(), args[0], klaviyoExportOutputFlag, klaviyoExportMaxRecordsFlag)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s %s to %s\n", tableprinter.FormatCount(summary.RecordsExported), summary.Resource, summary.OutputFile)
	return nil
}
