package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kurtosis-tech/stacktrace"

	"github.com/thatrebeccarae/claude-code-skills/internal/analysis"
	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/database"
	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
	"github.com/thatrebeccarae/claude-code-skills/internal/viz"
)

const (
	parsedDataFilename    = "parsed-data.json"
	analysisFilename      = "analysis.json"
	sanitizedDataFilename = "sanitized-data.json"
)

// resolveExportDirpath returns the LinkedIn export directory for a command:
// the positional argument when given, otherwise the configured exportsDir.
func resolveExportDirpath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, _, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to read config")
	}
	if cfg.ExportsDirpath != "" {
		return cfg.ExportsDirpath, nil
	}
	return "", stacktrace.NewError("no export directory given; pass one as an argument or set exportsDir in %s", config.GetConfigFilepath(skillkitDirpath))
}

// resolveTemplatesDirpath returns the viz templates directory: the
// --templates flag when given, otherwise the configured templatesDir.
func resolveTemplatesDirpath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cfg, _, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to read config")
	}
	if cfg.TemplatesDirpath != "" {
		return cfg.TemplatesDirpath, nil
	}
	return "", stacktrace.NewError("no templates directory given; pass --%s or set templatesDir in %s", templatesFlagName, config.GetConfigFilepath(skillkitDirpath))
}

// resolveThemeCSSFilepath returns the theme CSS path: the --theme flag when
// given, otherwise the configured default theme resolved against the
// templates directory. Returns "" (no theme) when the configured default
// does not exist on disk, so a stale config entry doesn't break rendering.
func resolveThemeCSSFilepath(flagValue string, templatesDirpath string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	cfg, _, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to read config")
	}
	themeCSSFilepath := cfg.GetThemeCSSFilepath(templatesDirpath)
	if themeCSSFilepath == "" {
		return "", nil
	}
	if _, err := os.Stat(themeCSSFilepath); err != nil {
		return "", nil
	}
	return themeCSSFilepath, nil
}

// writeJSONFile writes v as indented JSON with a trailing newline.
func writeJSONFile(outputFilepath string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return stacktrace.Propagate(err, "failed to encode JSON for '%s'", outputFilepath)
	}
	if err := os.WriteFile(outputFilepath, append(data, '\n'), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write '%s'", outputFilepath)
	}
	return nil
}

// readParsedExport loads a parsed-data JSON file produced by the parse
// command.
func readParsedExport(inputFilepath string) (*linkedin.Export, error) {
	data, err := os.ReadFile(inputFilepath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read '%s'", inputFilepath)
	}
	var export linkedin.Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse '%s'; expected JSON from '%s %s %s'", inputFilepath, skillkitCmdStr, linkedinCmdStr, parseCmdStr)
	}
	return &export, nil
}

// exportRecordCounts summarizes an export for run-history bookkeeping.
func exportRecordCounts(export *linkedin.Export) database.RecordCounts {
	return database.RecordCounts{
		Connections: len(export.Connections),
		Messages:    len(export.Messages),
		Invitations: len(export.Invitations),
	}
}

// runPipeline executes the full parse, analyze, and visualize flow into the
// output directory, leaving parsed-data.json and analysis.json alongside
// the generated pages.
func runPipeline(exportDirpath string, templatesDirpath string, outputDirpath string, themeCSSFilepath string) (*linkedin.Export, *viz.Result, error) {
	export, err := linkedin.ParseAll(exportDirpath)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(outputDirpath, 0755); err != nil {
		return nil, nil, stacktrace.Propagate(err, "failed to create output directory '%s'", outputDirpath)
	}
	if err := writeJSONFile(filepath.Join(outputDirpath, parsedDataFilename), export); err != nil {
		return nil, nil, err
	}

	result := analysis.AnalyzeAll(export, time.Now())
	if err := writeJSONFile(filepath.Join(outputDirpath, analysisFilename), result); err != nil {
		return nil, nil, err
	}

	vizResult, err := viz.GenerateAll(templatesDirpath, result, outputDirpath, themeCSSFilepath)
	if err != nil {
		return nil, nil, err
	}
	return export, vizResult, nil
}

// printVizResult summarizes what a viz run generated.
func printVizResult(result *viz.Result) {
	fmt.Printf("Generated %d visualization pages\n", len(result.Individual))
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped (no template): %s\n", strings.Join(result.Skipped, ", "))
	}
	if result.Dashboard != "" {
		fmt.Printf("Dashboard generated: %s\n", result.Dashboard)
	}
}
