package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/klaviyo"
)

// linkedinSkillName selects the visualization-defaults section of setup; the
// LinkedIn pipeline itself needs no credentials.
const linkedinSkillName = "linkedin"

var setupSkillFlag string

var setupCmd = &cobra.Command{
	Use:   setupCmdStr,
	Short: "Interactively configure credentials and viz defaults",
	Long: `Walk through configuring API credentials for each marketing skill, plus
the LinkedIn visualization defaults.

Examples:
  skillkit setup
  skillkit setup --skill klaviyo`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupSkillFlag, skillFlagName, "", "configure only this skill")
	rootCmd.AddCommand(setupCmd)
}

type setupEnvVar struct {
	name         string
	prompt       string
	instructions string
	secret       bool
	valid        func(string) bool
	errorText    string
}

type setupSkill struct {
	name    string
	label   string
	envVars []setupEnvVar
}

var setupSkills = []setupSkill{
	{
		name:  "klaviyo",
		label: "Klaviyo email and SMS marketing",
		envVars: []setupEnvVar{
			{
				name:         "KLAVIYO_API_KEY",
				prompt:       "Klaviyo private API key",
				instructions: "Create a private key with read access under Account > Settings > API Keys.",
				secret:       true,
				valid: func(s string) bool {
					return strings.HasPrefix(s, "pk_") && len(s) > 10
				},
				errorText: "Key should start with 'pk_' and be 36+ characters",
			},
		},
	},
	{
		name:  "shopify",
		label: "Shopify store analytics",
		envVars: []setupEnvVar{
			{
				name:         "SHOPIFY_STORE_URL",
				prompt:       "Shopify store URL",
				instructions: "The store's admin URL, e.g. https://your-store.myshopify.com.",
				valid: func(s string) bool {
					return strings.Contains(s, "myshopify.com") || strings.HasPrefix(s, "https://")
				},
				errorText: "Should be your .myshopify.com URL",
			},
			{
				name:         "SHOPIFY_ACCESS_TOKEN",
				prompt:       "Shopify Admin API access token",
				instructions: "Create a custom app under Settings > Apps and sales channels > Develop apps.",
				secret:       true,
				valid: func(s string) bool {
					return strings.HasPrefix(s, "shpat_") && len(s) > 10
				},
				errorText: "Token should start with 'shpat_'",
			},
		},
	},
	{
		name:  "google-analytics",
		label: "Google Analytics 4 traffic reporting",
		envVars: []setupEnvVar{
			{
				name:         "GOOGLE_ANALYTICS_PROPERTY_ID",
				prompt:       "GA4 property ID",
				instructions: "The numeric property ID from Admin > Property Settings.",
				valid:        isAllDigits,
				errorText:    "Property ID should be a number (e.g., 123456789)",
			},
			{
				name:         "GOOGLE_ANALYTICS_ACCESS_TOKEN",
				prompt:       "GA4 API access token",
				instructions: "An OAuth access token with analytics.readonly scope.",
				secret:       true,
				valid: func(s string) bool {
					return s != ""
				},
				errorText: "Token cannot be empty",
			},
		},
	},
}

// isAllDigits reports whether s is non-empty and contains only ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func runSetup(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return stacktrace.NewError("setup is interactive and requires a terminal")
	}

	reader := bufio.NewReader(os.Stdin)

	if setupSkillFlag == linkedinSkillName {
		return configureVizDefaults(reader)
	}

	selected := setupSkills
	if setupSkillFlag != "" {
		skill, err := setupSkillByName(setupSkillFlag)
		if err != nil {
			return err
		}
		selected = []setupSkill{skill}
	}

	existing, err := config.ReadEnvFile(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read stored credentials")
	}

	var configured []string
	var skipped []string
	for _, skill := range selected {
		fmt.Printf("\n%s\n", skill.label)

		values, complete, err := promptSkillEnvVars(reader, skill, existing)
		if err != nil {
			return err
		}
		if !complete {
			skipped = append(skipped, skill.name)
			continue
		}

		if err := config.WriteEnvFile(skillkitDirpath, values); err != nil {
			return stacktrace.Propagate(err, "failed to write credentials")
		}
		configured = append(configured, skill.name)

		if skill.name == "klaviyo" {
			if err := offerKlaviyoHealthCheck(cmd.Context(), reader, values["KLAVIYO_API_KEY"]); err != nil {
				return err
			}
		}
	}

	if setupSkillFlag == "" {
		fmt.Println()
		if err := configureVizDefaults(reader); err != nil {
			return err
		}
	}

	if len(configured) > 0 {
		fmt.Printf("\nSaved credentials to %s\n", config.GetEnvFilepath(skillkitDirpath))
	}
	for _, name := range configured {
		fmt.Printf("  + %s\n", name)
	}
	for _, name := range skipped {
		fmt.Printf("  - %s (skipped)\n", name)
	}

	fmt.Printf("\nRun '%s %s' to verify your setup.\n", skillkitCmdStr, doctorCmdStr)
	return nil
}

// promptSkillEnvVars collects the env var values for one skill. Returns
// complete=false when the user leaves a required value empty, in which case
// nothing is saved for the skill.
func promptSkillEnvVars(reader *bufio.Reader, skill setupSkill, existing map[string]string) (map[string]string, bool, error) {
	values := make(map[string]string)
	for _, envVar := range skill.envVars {
		value, err := promptEnvVar(reader, envVar, existing[envVar.name])
		if err != nil {
			return nil, false, err
		}
		if value == "" {
			fmt.Printf("Skipping %s\n", skill.name)
			return nil, false, nil
		}
		values[envVar.name] = value
	}
	return values, true, nil
}

func promptEnvVar(reader *bufio.Reader, envVar setupEnvVar, existingValue string) (string, error) {
	if envVar.instructions != "" {
		fmt.Println(colorize(ansiDarkGray, "  "+envVar.instructions))
	}
	for {
		if existingValue != "" {
			fmt.Printf("  %s (press Enter to keep the configured value): ", envVar.prompt)
		} else {
			fmt.Printf("  %s (press Enter to skip): ", envVar.prompt)
		}

		var value string
		if envVar.secret {
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return "", stacktrace.Propagate(err, "failed to read input")
			}
			value = strings.TrimSpace(string(raw))
		} else {
			input, err := reader.ReadString('\n')
			if err != nil {
				return "", stacktrace.Propagate(err, "failed to read input")
			}
			value = strings.TrimSpace(input)
		}

		if value == "" {
			return existingValue, nil
		}
		if !envVar.valid(value) {
			fmt.Printf("  %s\n", colorize(ansiYellow, envVar.errorText))
			continue
		}
		return value, nil
	}
}

// offerKlaviyoHealthCheck runs a connectivity check against the key the user
// just entered. The key is passed directly because the process environment
// still holds whatever was loaded at startup.
func offerKlaviyoHealthCheck(ctx context.Context, reader *bufio.Reader, apiKey string) error {
	fmt.Print("Run a live Klaviyo health check now? [y/N]: ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return stacktrace.Propagate(err, "failed to read input")
	}
	if !strings.EqualFold(strings.TrimSpace(input), "y") {
		return nil
	}

	client, err := klaviyo.NewClient(apiKey)
	if err != nil {
		return err
	}
	result := klaviyo.NewDevTools(client).HealthCheck(ctx)
	fmt.Printf("  Integration status: %s\n", colorizeHealthStatus(result.Status))
	return nil
}

func setupSkillByName(name string) (setupSkill, error) {
	for _, skill := range setupSkills {
		if skill.name == name {
			return skill, nil
		}
	}
	available := []string{linkedinSkillName}
	for _, skill := range setupSkills {
		available = append(available, skill.name)
	}
	return setupSkill{}, stacktrace.NewError("unknown skill '%s'; available: %s", name, strings.Join(available, ", "))
}

func configureVizDefaults(reader *bufio.Reader) error {
	fmt.Println("LinkedIn visualization defaults")

	cfg, cm, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	templatesDirpath, err := promptPath(reader, "Templates directory", cfg.TemplatesDirpath, true)
	if err != nil {
		return err
	}
	if templatesDirpath != "" {
		cfg.TemplatesDirpath = templatesDirpath
	}

	exportsDirpath, err := promptPath(reader, "LinkedIn exports directory", cfg.ExportsDirpath, false)
	if err != nil {
		return err
	}
	if exportsDirpath != "" {
		cfg.ExportsDirpath = exportsDirpath
	}

	theme, err := promptTheme(reader, cfg.DefaultTheme)
	if err != nil {
		return err
	}
	if theme != "" {
		cfg.DefaultTheme = theme
	}

	if err := config.WriteSkillkitConfig(skillkitDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	fmt.Printf("Saved visualization defaults to %s\n", config.GetConfigFilepath(skillkitDirpath))
	return nil
}

func promptPath(reader *bufio.Reader, prompt string, existingValue string, mustExist bool) (string, error) {
	for {
		if existingValue != "" {
			fmt.Printf("  %s [%s]: ", prompt, existingValue)
		} else {
			fmt.Printf("  %s (press Enter to skip): ", prompt)
		}
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", stacktrace.Propagate(err, "failed to read input")
		}
		value := strings.TrimSpace(input)
		if value == "" {
			return existingValue, nil
		}
		if mustExist {
			info, err := os.Stat(value)
			if err != nil || !info.IsDir() {
				fmt.Printf("  %s\n", colorize(ansiYellow, "Directory does not exist"))
				continue
			}
		}
		return value, nil
	}
}

func promptTheme(reader *bufio.Reader, existingValue string) (string, error) {
	for {
		if existingValue != "" {
			fmt.Printf("  Default theme (dark or light) [%s]: ", existingValue)
		} else {
			fmt.Print("  Default theme (dark or light, press Enter to skip): ")
		}
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", stacktrace.Propagate(err, "failed to read input")
		}
		value := strings.TrimSpace(input)
		if value == "" {
			return existingValue, nil
		}
		if value != "dark" && value != "light" {
			fmt.Printf("  %s\n", colorize(ansiYellow, "Theme must be 'dark' or 'light'"))
			continue
		}
		return value, nil
	}
}
