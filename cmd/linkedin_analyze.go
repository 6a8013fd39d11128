package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/analysis"
	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

var analyzeOutputFlag string

var linkedinAnalyzeCmd = &cobra.Command{
	Use:   analyzeCmdStr + " <parsed-data.json>",
	Short: "Compute network, messaging, and career analytics from parsed data",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinkedinAnalyze,
}

func init() {
	linkedinAnalyzeCmd.Flags().StringVarP(&analyzeOutputFlag, outputFlagName, "o", "", "write analysis JSON to this file instead of stdout")
	linkedinCmd.AddCommand(linkedinAnalyzeCmd)
}

func runLinkedinAnalyze(cmd *cobra.Command, args []string) error {
	inputFilepath := args[0]

	return recordRun(linkedinCmdStr+" "+analyzeCmdStr, inputFilepath, analyzeOutputFlag, func() (database.RecordCounts, error) {
		export, err := readParsedExport(inputFilepath)
		if err != nil {
			return database.RecordCounts{}, err
		}

		result := analysis.AnalyzeAll(export, time.Now())

		if analyzeOutputFlag == "" {
			return exportRecordCounts(export), printJSON(result)
		}
		if err := writeJSONFile(analyzeOutputFlag, result); err != nil {
			return database.RecordCounts{}, err
		}
		fmt.Printf("Wrote analysis to %s\n", analyzeOutputFlag)
		return exportRecordCounts(export), nil
	})
}
