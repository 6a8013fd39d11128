package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/viz"
)

var doctorCmd = &cobra.Command{
	Use:   doctorCmdStr,
	Short: "Check for common configuration issues",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// checkResult represents the outcome of a single doctor check.
type checkResult struct {
	name    string
	passed  bool
	message string // shown when the check does not pass
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := []checkResult{
		checkSkillkitDir(),
		checkConfigFile(),
		checkDatabase(),
		checkTemplatesDir(),
		checkKlaviyoCredentials(),
		checkShopifyCredentials(),
		checkGoogleAnalyticsCredentials(),
	}

	allPassed := true
	for _, check := range checks {
		if check.passed {
			fmt.Printf("  OK  %s\n", check.name)
		} else {
			allPassed = false
			fmt.Printf("  --  %s\n", check.name)
			fmt.Printf("      %s\n", check.message)
		}
	}

	if allPassed {
		fmt.Println("\nAll checks passed.")
	}

	return nil
}

func checkSkillkitDir() checkResult {
	name := "skillkit directory exists"

	if _, err := os.Stat(skillkitDirpath); err != nil {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("could not stat %s: %v", skillkitDirpath, err),
		}
	}

	return checkResult{name: name, passed: true}
}

func checkConfigFile() checkResult {
	name := "config file parses"

	if _, _, err := config.ReadSkillkitConfig(skillkitDirpath); err != nil {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("could not parse %s: %v", config.GetConfigFilepath(skillkitDirpath), err),
		}
	}

	return checkResult{name: name, passed: true}
}

func checkDatabase() checkResult {
	name := "run-history database opens"

	db, err := openDB()
	if err != nil {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("could not open %s: %v", config.GetDatabaseFilepath(skillkitDirpath), err),
		}
	}
	_ = db.Close()

	return checkResult{name: name, passed: true}
}

// checkTemplatesDir verifies that a templates directory is configured and
// actually contains the dashboard template.
func checkTemplatesDir() checkResult {
	name := "viz templates configured"

	cfg, _, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("could not read config: %v", err),
		}
	}

	if cfg.TemplatesDirpath == "" {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("no templatesDir configured; run '%s %s --%s %s'", skillkitCmdStr, setupCmdStr, skillFlagName, linkedinSkillName),
		}
	}

	dashboardFilepath := filepath.Join(cfg.TemplatesDirpath, viz.DashboardTemplateFilename)
	if _, err := os.Stat(dashboardFilepath); err != nil {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("%s not found in %s", viz.DashboardTemplateFilename, cfg.TemplatesDirpath),
		}
	}

	return checkResult{name: name, passed: true}
}

func checkKlaviyoCredentials() checkResult {
	name := "Klaviyo credentials set"

	apiKey := os.Getenv("KLAVIYO_API_KEY")
	if apiKey == "" {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("KLAVIYO_API_KEY is not set; run '%s %s --%s klaviyo'", skillkitCmdStr, setupCmdStr, skillFlagName),
		}
	}

	if !strings.HasPrefix(apiKey, "pk_") {
		return checkResult{
			name:    name,
			passed:  false,
			message: "KLAVIYO_API_KEY should start with 'pk_'",
		}
	}

	return checkResult{name: name, passed: true}
}

func checkShopifyCredentials() checkResult {
	name := "Shopify credentials set"

	storeURL := os.Getenv("SHOPIFY_STORE_URL")
	accessToken := os.Getenv("SHOPIFY_ACCESS_TOKEN")
	if storeURL == "" || accessToken == "" {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("SHOPIFY_STORE_URL or SHOPIFY_ACCESS_TOKEN is not set; run '%s %s --%s shopify'", skillkitCmdStr, setupCmdStr, skillFlagName),
		}
	}

	if !strings.HasPrefix(accessToken, "shpat_") {
		return checkResult{
			name:    name,
			passed:  false,
			message: "SHOPIFY_ACCESS_TOKEN should start with 'shpat_'",
		}
	}

	return checkResult{name: name, passed: true}
}

func checkGoogleAnalyticsCredentials() checkResult {
	name := "Google Analytics credentials set"

	propertyID := os.Getenv("GOOGLE_ANALYTICS_PROPERTY_ID")
	accessToken := os.Getenv("GOOGLE_ANALYTICS_ACCESS_TOKEN")
	if propertyID == "" || accessToken == "" {
		return checkResult{
			name:    name,
			passed:  false,
			message: fmt.Sprintf("GOOGLE_ANALYTICS_PROPERTY_ID or GOOGLE_ANALYTICS_ACCESS_TOKEN is not set; run '%s %s --%s google-analytics'", skillkitCmdStr, setupCmdStr, skillFlagName),
		}
	}

	if !isAllDigits(propertyID) {
		return checkResult{
			name:    name,
			passed:  false,
			message: "GOOGLE_ANALYTICS_PROPERTY_ID should be a number (e.g., 123456789)",
		}
	}

	return checkResult{name: name, passed: true}
}
