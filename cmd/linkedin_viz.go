package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/viz"
)

const dashboardOnlyFlagName = "dashboard-only"

var (
	vizTemplatesFlag     string
	vizDataFlag          string
	vizOutputFlag        string
	vizThemeFlag         string
	vizDashboardOnlyFlag bool
)

var linkedinVizCmd = &cobra.Command{
	Use:   vizCmdStr,
	Short: "Generate the static HTML dashboard from an analysis JSON",
	Args:  cobra.NoArgs,
	RunE:  runLinkedinViz,
}

func init() {
	linkedinVizCmd.Flags().StringVar(&vizTemplatesFlag, templatesFlagName, "", "visualization templates directory")
	linkedinVizCmd.Flags().StringVar(&vizDataFlag, dataFlagName, "", "analysis JSON file to render")
	linkedinVizCmd.Flags().StringVarP(&vizOutputFlag, outputFlagName, "o", "", "directory to write generated HTML into")
	linkedinVizCmd.Flags().StringVar(&vizThemeFlag, themeFlagName, "", "theme CSS file to inline")
	linkedinVizCmd.Flags().BoolVar(&vizDashboardOnlyFlag, dashboardOnlyFlagName, false, "generate only the dashboard page")
	_ = linkedinVizCmd.MarkFlagRequired(dataFlagName)
	_ = linkedinVizCmd.MarkFlagRequired(outputFlagName)
	linkedinCmd.AddCommand(linkedinVizCmd)
}

func runLinkedinViz(cmd *cobra.Command, args []string) error {
	templatesDirpath, err := resolveTemplatesDirpath(vizTemplatesFlag)
	if err != nil {
		return err
	}
	themeCSSFilepath, err := resolveThemeCSSFilepath(vizThemeFlag, templatesDirpath)
	if err != nil {
		return err
	}

	return recordRun(linkedinCmdStr+" "+vizCmdStr, vizDataFlag, vizOutputFlag, func() (database.RecordCounts, error) {
		raw, err := os.ReadFile(vizDataFlag)
		if err != nil {
			return database.RecordCounts{}, stacktrace.Propagate(err, "failed to read '%s'", vizDataFlag)
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return database.RecordCounts{}, stacktrace.Propagate(err, "failed to parse '%s' as JSON", vizDataFlag)
		}

		if vizDashboardOnlyFlag {
			dashboardFilepath, err := viz.GenerateDashboard(templatesDirpath, data, vizOutputFlag, themeCSSFilepath)
			if err != nil {
				return database.RecordCounts{}, err
			}
			fmt.Printf("Dashboard generated: %s\n", dashboardFilepath)
			return database.RecordCounts{}, nil
		}

		result, err := viz.GenerateAll(templatesDirpath, data, vizOutputFlag, themeCSSFilepath)
		if err != nil {
			return database.RecordCounts{}, err
		}
		printVizResult(result)
		return database.RecordCounts{}, nil
	})
}
