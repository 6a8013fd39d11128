package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/analysis"
	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
	"github.com/thatrebeccarae/claude-code-skills/internal/sanitize"
	"github.com/thatrebeccarae/claude-code-skills/internal/viz"
)

const (
	inputFlagName    = "input"
	seedFlagName     = "seed"
	jsonOnlyFlagName = "json-only"

	demoDirname = "demo"
)

var (
	sanitizeInputFlag     string
	sanitizeOutputFlag    string
	sanitizeTemplatesFlag string
	sanitizeThemeFlag     string
	sanitizeJSONOnlyFlag  bool
	sanitizeSeedFlag      int64
)

var linkedinSanitizeCmd = &cobra.Command{
	Use:   sanitizeCmdStr,
	Short: "Anonymize export data into a shareable demo dataset",
	Long: `Replace every name, company, email, and message body in an export with
realistic fake data, preserving the statistical shape of the original.

The input may be a directory of raw CSV exports or a parsed-data JSON
file. The same --seed always produces the same fake identities.

Example:
  skillkit linkedin sanitize --input ~/Downloads/linkedin-export -o demo-out
  skillkit linkedin sanitize --input parsed-data.json -o demo-out --templates ./templates`,
	Args: cobra.NoArgs,
	RunE: runLinkedinSanitize,
}

func init() {
	linkedinSanitizeCmd.Flags().StringVar(&sanitizeInputFlag, inputFlagName, "", "parsed JSON file or directory of CSV exports")
	linkedinSanitizeCmd.Flags().StringVarP(&sanitizeOutputFlag, outputFlagName, "o", "", "directory to write sanitized output into")
	linkedinSanitizeCmd.Flags().StringVar(&sanitizeTemplatesFlag, templatesFlagName, "", "templates directory for the demo dashboard")
	linkedinSanitizeCmd.Flags().StringVar(&sanitizeThemeFlag, themeFlagName, "", "theme CSS file for the demo dashboard")
	linkedinSanitizeCmd.Flags().BoolVar(&sanitizeJSONOnlyFlag, jsonOnlyFlagName, false, "write only the sanitized JSON, no demo dashboard")
	linkedinSanitizeCmd.Flags().Int64Var(&sanitizeSeedFlag, seedFlagName, 42, "random seed for reproducible fake identities")
	_ = linkedinSanitizeCmd.MarkFlagRequired(inputFlagName)
	_ = linkedinSanitizeCmd.MarkFlagRequired(outputFlagName)
	linkedinCmd.AddCommand(linkedinSanitizeCmd)
}

func runLinkedinSanitize(cmd *cobra.Command, args []string) error {
	return recordRun(linkedinCmdStr+" "+sanitizeCmdStr, sanitizeInputFlag, sanitizeOutputFlag, func() (database.RecordCounts, error) {
		export, err := loadSanitizeInput(sanitizeInputFlag)
		if err != nil {
			return database.RecordCounts{}, err
		}

		sanitized, report := sanitize.New(sanitizeSeedFlag).SanitizeAll(export)
		fmt.Printf("Mapped %d names and %d companies\n", report.NamesMapped, report.CompaniesMapped)

		if err := os.MkdirAll(sanitizeOutputFlag, 0755); err != nil {
			return database.RecordCounts{}, stacktrace.Propagate(err, "failed to create output directory '%s'", sanitizeOutputFlag)
		}
		sanitizedFilepath := filepath.Join(sanitizeOutputFlag, sanitizedDataFilename)
		if err := writeJSONFile(sanitizedFilepath, sanitized); err != nil {
			return database.RecordCounts{}, err
		}
		fmt.Printf("Sanitized JSON: %s\n", sanitizedFilepath)

		if !sanitizeJSONOnlyFlag {
			if sanitizeTemplatesFlag == "" {
				fmt.Fprintf(os.Stderr, "Skipping HTML demo (no --%s provided); use --%s to suppress this message\n", templatesFlagName, jsonOnlyFlagName)
			} else if err := generateSanitizeDemo(sanitized); err != nil {
				return database.RecordCounts{}, err
			}
		}

		return exportRecordCounts(sanitized), nil
	})
}

// loadSanitizeInput accepts either a directory of raw CSV exports or a
// parsed-data JSON file.
func loadSanitizeInput(inputPath string) (*linkedin.Export, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to stat input '%s'", inputPath)
	}
	if info.IsDir() {
		return linkedin.ParseAll(inputPath)
	}
	if filepath.Ext(inputPath) == ".json" {
		return readParsedExport(inputPath)
	}
	return nil, stacktrace.NewError("input must be a JSON file or a directory of CSV exports")
}

// generateSanitizeDemo renders the sanitized dataset as a full dashboard
// under the output directory's demo/ subdirectory.
func generateSanitizeDemo(sanitized *linkedin.Export) error {
	themeCSSFilepath, err := resolveThemeCSSFilepath(sanitizeThemeFlag, sanitizeTemplatesFlag)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeAll(sanitized, time.Now())
	demoDirpath := filepath.Join(sanitizeOutputFlag, demoDirname)
	vizResult, err := viz.GenerateAll(sanitizeTemplatesFlag, result, demoDirpath, themeCSSFilepath)
	if err != nil {
		return err
	}
	fmt.Printf("Demo dashboard: %s\n", vizResult.Dashboard)
	return nil
}
