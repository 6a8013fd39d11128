package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const jsonFlagName = "json"

var klaviyoHealthJSONFlag bool

var klaviyoHealthCmd = &cobra.Command{
	Use:   healthCmdStr,
	Short: "Check API connectivity and account configuration",
	Args:  cobra.NoArgs,
	RunE:  runKlaviyoHealth,
}

func init() {
	klaviyoHealthCmd.Flags().BoolVar(&klaviyoHealthJSONFlag, jsonFlagName, false, "print the full result as JSON")
	klaviyoCmd.AddCommand(klaviyoHealthCmd)
}

func runKlaviyoHealth(cmd *cobra.Command, args []string) error {
	devTools, err := newKlaviyoDevTools()
	if err != nil {
		return err
	}

	result := devTools.HealthCheck(cmd.Context())

	if klaviyoHealthJSONFlag {
		return writeAnalysisJSON(result, "")
	}

	for _, check := range result.Checks {
		switch check.Status {
		case "pass":
			fmt.Printf("  OK  %s\n", check.Check)
		case "warning":
			fmt.Printf("  %s  %s\n", colorize(ansiYellow, "!!"), check.Check)
			if check.Detail != "" {
				fmt.Printf("      %s\n", check.Detail)
			}
		default:
			fmt.Printf("  %s  %s\n", colorize(ansiRed, "--"), check.Check)
			if check.Detail != "" {
				fmt.Printf("      %s\n", check.Detail)
			}
		}
	}

	fmt.Printf("\nIntegration status: %s\n", colorizeHealthStatus(result.Status))

	if len(result.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range result.Recommendations {
			fmt.Printf("  [%s] %s\n", colorizePriority(rec.Priority), rec.Action)
		}
	}

	return nil
}

func colorizeHealthStatus(status string) string {
	switch status {
	case "healthy":
		return colorize(ansiGreen, status)
	case "degraded":
		return colorize(ansiYellow, status)
	default:
		return colorize(ansiRed, status)
	}
}

func colorizePriority(priority string) string {
	switch priority {
	case "CRITICAL":
		return colorize(ansiRed, priority)
	case "HIGH":
		return colorize(ansiYellow, priority)
	default:
		return priority
	}
}
