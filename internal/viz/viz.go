// Package viz renders analysis results into static HTML pages by filling
// placeholders in a directory of page templates. Templates carry three
// placeholders: {{DATA}} receives the analysis document as compact JSON,
// {{THEME_CSS}} an optional stylesheet, and {{GENERATED_AT}} the render
// timestamp. The pages are self-contained and need no server to view.
package viz

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	placeholderData        = "{{DATA}}"
	placeholderThemeCSS    = "{{THEME_CSS}}"
	placeholderGeneratedAt = "{{GENERATED_AT}}"

	generatedAtLayout = "2006-01-02T15:04:05"

	// DashboardTemplateFilename is the one template every template set
	// must provide.
	DashboardTemplateFilename = "dashboard.html"

	assetsDirname = "assets"
)

// IndividualTemplateFilenames lists the per-analysis pages, rendered in
// this order. Output files keep the template's name. A template set may
// omit any of these; missing ones are skipped.
var IndividualTemplateFilenames = []string{
	"network-clusters.html",
	"company-categories.html",
	"relationship-tiers.html",
	"invitation-trends.html",
	"inbox-classification.html",
	"career-strata.html",
	"high-value-messages.html",
	"ad-targeting.html",
	"summary-stats.html",
}

// Result reports what a full generation run produced.
type Result struct {
	// Individual holds the paths of the generated per-analysis pages.
	Individual []string

	// Skipped holds the template filenames that were absent from the
	// template directory.
	Skipped []string

	// Dashboard is the path of the generated dashboard page.
	Dashboard string
}

// LoadTemplate reads a template file.
func LoadTemplate(templateFilepath string) (string, error) {
	content, err := os.ReadFile(templateFilepath)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to read template '%s'", templateFilepath)
	}
	return string(content), nil
}

// InjectData fills a template's placeholders. The data document is
// serialised as compact JSON so it can sit inside a <script> tag.
func InjectData(templateHTML string, data any, themeCSS string, generatedAt time.Time) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to serialize analysis data to JSON")
	}

	result := templateHTML
	result = strings.ReplaceAll(result, placeholderData, string(jsonBytes))
	result = strings.ReplaceAll(result, placeholderThemeCSS, themeCSS)
	result = strings.ReplaceAll(result, placeholderGeneratedAt, generatedAt.Format(generatedAtLayout))
	return result, nil
}

// GenerateIndividual renders every individual template present in the
// template directory into the output directory. Missing templates are
// reported in the second return value rather than treated as errors, so a
// trimmed-down template set still renders the pages it has.
func GenerateIndividual(templateDirpath string, data any, outputDirpath string, themeCSSFilepath string) ([]string, []string, error) {
	if err := os.MkdirAll(outputDirpath, 0755); err != nil {
		return nil, nil, stacktrace.Propagate(err, "failed to create output directory '%s'", outputDirpath)
	}

	themeCSS, err := readThemeCSS(themeCSSFilepath)
	if err != nil {
		return nil, nil, err
	}

	var generated, skipped []string
	for _, templateFilename := range IndividualTemplateFilenames {
		templateFilepath := filepath.Join(templateDirpath, templateFilename)
		if _, err := os.Stat(templateFilepath); err != nil {
			skipped = append(skipped, templateFilename)
			continue
		}

		outputFilepath, err := renderTemplate(templateFilepath, data, themeCSS, filepath.Join(outputDirpath, templateFilename))
		if err != nil {
			return nil, nil, err
		}
		generated = append(generated, outputFilepath)
	}
	return generated, skipped, nil
}

// GenerateDashboard renders the dashboard template. Unlike individual
// templates, a missing dashboard template is an error.
func GenerateDashboard(templateDirpath string, data any, outputDirpath string, themeCSSFilepath string) (string, error) {
	if err := os.MkdirAll(outputDirpath, 0755); err != nil {
		return "", stacktrace.Propagate(err, "failed to create output directory '%s'", outputDirpath)
	}

	templateFilepath := filepath.Join(templateDirpath, DashboardTemplateFilename)
	if _, err := os.Stat(templateFilepath); err != nil {
		return "", stacktrace.NewError("dashboard template not found at '%s'", templateFilepath)
	}

	themeCSS, err := readThemeCSS(themeCSSFilepath)
	if err != nil {
		return "", err
	}

	return renderTemplate(templateFilepath, data, themeCSS, filepath.Join(outputDirpath, DashboardTemplateFilename))
}

// GenerateAll renders the individual pages and the dashboard, and copies
// the template directory's assets/ subdirectory (if present) alongside
// them so generated pages can reference fonts and images relatively.
func GenerateAll(templateDirpath string, data any, outputDirpath string, themeCSSFilepath string) (*Result, error) {
	if err := os.MkdirAll(outputDirpath, 0755); err != nil {
		return nil, stacktrace.Propagate(err, "failed to create output directory '%s'", outputDirpath)
	}

	if err := copyAssets(templateDirpath, outputDirpath); err != nil {
		return nil, err
	}

	individual, skipped, err := GenerateIndividual(templateDirpath, data, outputDirpath, themeCSSFilepath)
	if err != nil {
		return nil, err
	}

	dashboard, err := GenerateDashboard(templateDirpath, data, outputDirpath, themeCSSFilepath)
	if err != nil {
		return nil, err
	}

	return &Result{
		Individual: individual,
		Skipped:    skipped,
		Dashboard:  dashboard,
	}, nil
}

// renderTemplate loads, fills, and writes one template.
func renderTemplate(templateFilepath string, data any, themeCSS string, outputFilepath string) (string, error) {
	templateHTML, err := LoadTemplate(templateFilepath)
	if err != nil {
		return "", err
	}

	populated, err := InjectData(templateHTML, data, themeCSS, time.Now())
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to render template '%s'", templateFilepath)
	}

	if err := os.WriteFile(outputFilepath, []byte(populated), 0644); err != nil {
		return "", stacktrace.Propagate(err, "failed to write '%s'", outputFilepath)
	}
	return outputFilepath, nil
}

// readThemeCSS loads the theme stylesheet. An empty path or a missing
// file yields no theme, not an error; themes are optional.
func readThemeCSS(themeCSSFilepath string) (string, error) {
	if themeCSSFilepath == "" {
		return "", nil
	}
	content, err := os.ReadFile(themeCSSFilepath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", stacktrace.Propagate(err, "failed to read theme CSS '%s'", themeCSSFilepath)
	}
	return string(content), nil
}

// copyAssets mirrors the template directory's assets/ subdirectory into
// the output directory, replacing any previous copy.
func copyAssets(templateDirpath string, outputDirpath string) error {
	assetsSrcDirpath := filepath.Join(templateDirpath, assetsDirname)
	info, err := os.Stat(assetsSrcDirpath)
	if err != nil || !info.IsDir() {
		return nil
	}

	assetsDstDirpath := filepath.Join(outputDirpath, assetsDirname)
	if err := os.RemoveAll(assetsDstDirpath); err != nil {
		return stacktrace.Propagate(err, "failed to clear existing assets at '%s'", assetsDstDirpath)
	}
	if err := os.CopyFS(assetsDstDirpath, os.DirFS(assetsSrcDirpath)); err != nil {
		return stacktrace.Propagate(err, "failed to copy assets to '%s'", assetsDstDirpath)
	}
	return nil
}
