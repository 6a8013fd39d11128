package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var parseOutputFlag string

var linkedinParseCmd = &cobra.Command{
	Use:   parseCmdStr + " [export-dir]",
	Short: "Parse a LinkedIn data export into normalized JSON",
	Long: `Parse the CSV files of an unzipped LinkedIn data export into a single
normalized JSON document.

The export directory defaults to the configured exportsDir. Output goes to
stdout unless --output names a file.

Example:
  skillkit linkedin parse ~/Downloads/linkedin-export -o parsed-data.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLinkedinParse,
}

func init() {
	linkedinParseCmd.Flags().StringVarP(&parseOutputFlag, outputFlagName, "o", "", "write parsed JSON to this file instead of stdout")
	linkedinCmd.AddCommand(linkedinParseCmd)
}

func runLinkedinParse(cmd *cobra.Command, args []string) error {
	exportDirpath, err := resolveExportDirpath(args)
	if err != nil {
		return err
	}

	return recordRun(linkedinCmdStr+" "+parseCmdStr, exportDirpath, parseOutputFlag, func() (database.RecordCounts, error) {
		export, err := linkedin.ParseAll(exportDirpath)
		if err != nil {
			return database.RecordCounts{}, err
		}

		if parseOutputFlag == "" {
			return exportRecordCounts(export), printJSON(export)
		}

		if err := writeJSONFile(parseOutputFlag, export); err != nil {
			return database.RecordCounts{}, err
		}
		printParseCounts(export)
		fmt.Printf("\nWrote parsed data to %s\n", parseOutputFlag)
		return exportRecordCounts(export), nil
	})
}

// printParseCounts renders per-record-type row counts for a parsed export.
func printParseCounts(export *linkedin.Export) {
	counts := export.Counts()
	recordTypes := make([]string, 0, len(counts))
	for recordType := range counts {
		recordTypes = append(recordTypes, recordType)
	}
	sort.Strings(recordTypes)

	tbl := tableprinter.NewTable("RECORD TYPE", "COUNT")
	for _, recordType := range recordTypes {
		tbl.AddRow(recordType, tableprinter.FormatCount(counts[recordType]))
	}
	tbl.Print()
}
