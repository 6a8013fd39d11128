package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

var (
	runTemplatesFlag string
	runOutputFlag    string
	runThemeFlag     string
)

var linkedinRunCmd = &cobra.Command{
	Use:   runCmdStr + " [export-dir]",
	Short: "Run the full parse, analyze, and visualize pipeline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLinkedinRun,
}

func init() {
	linkedinRunCmd.Flags().StringVar(&runTemplatesFlag, templatesFlagName, "", "visualization templates directory")
	linkedinRunCmd.Flags().StringVarP(&runOutputFlag, outputFlagName, "o", "", "directory to write pipeline output into")
	linkedinRunCmd.Flags().StringVar(&runThemeFlag, themeFlagName, "", "theme CSS file to inline")
	_ = linkedinRunCmd.MarkFlagRequired(outputFlagName)
	linkedinCmd.AddCommand(linkedinRunCmd)
}

func runLinkedinRun(cmd *cobra.Command, args []string) error {
	exportDirpath, err := resolveExportDirpath(args)
	if err != nil {
		return err
	}
	templatesDirpath, err := resolveTemplatesDirpath(runTemplatesFlag)
	if err != nil {
		return err
	}
	themeCSSFilepath, err := resolveThemeCSSFilepath(runThemeFlag, templatesDirpath)
	if err != nil {
		return err
	}

	return recordRun(linkedinCmdStr+" "+runCmdStr, exportDirpath, runOutputFlag, func() (database.RecordCounts, error) {
		export, vizResult, err := runPipeline(exportDirpath, templatesDirpath, runOutputFlag, themeCSSFilepath)
		if err != nil {
			return database.RecordCounts{}, err
		}
		printVizResult(vizResult)
		return exportRecordCounts(export), nil
	})
}
