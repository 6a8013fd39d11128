package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/report"
)

var reportScheduleAddCmd = &cobra.Command{
	Use:   addCmdStr + " [name]",
	Short: "Create a report sync schedule (interactive wizard)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportScheduleAdd,
}

func init() {
	reportScheduleCmd.AddCommand(reportScheduleAddCmd)
}

func runReportScheduleAdd(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return stacktrace.NewError("interactive mode requires a terminal; edit %s directly", config.GetConfigFilepath(skillkitDirpath))
	}

	cfg, cm, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	reader := bufio.NewReader(os.Stdin)

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		fmt.Print("Schedule name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return stacktrace.Propagate(err, "failed to read input")
		}
		name = strings.TrimSpace(input)
	}
	if err := config.ValidateScheduleName(name); err != nil {
		return err
	}
	if _, exists := cfg.Schedules[name]; exists {
		return stacktrace.NewError("schedule '%s' already exists", name)
	}

	fmt.Println("\nEnter cron schedule (e.g., '0 9 * * *' for 9am daily):")
	fmt.Println("  Format: minute hour day-of-month month day-of-week")
	fmt.Println("  Common examples:")
	fmt.Println("    0 9 * * *     - 9am every day")
	fmt.Println("    0 9 * * 1-5   - 9am weekdays")
	fmt.Println("    0 0 * * SUN   - midnight on Sundays")
	fmt.Println("    */15 * * * *  - every 15 minutes")
	fmt.Print("\nSchedule: ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return stacktrace.Propagate(err, "failed to read input")
	}
	schedule := strings.TrimSpace(input)
	if err := config.ValidateCronSchedule(schedule); err != nil {
		return err
	}

	fmt.Print("\nSource (klaviyo, shopify, or ga4): ")
	input, err = reader.ReadString('\n')
	if err != nil {
		return stacktrace.Propagate(err, "failed to read input")
	}
	source := strings.TrimSpace(input)
	switch source {
	case "klaviyo", "shopify", "ga4":
	default:
		return stacktrace.NewError("unknown report source '%s'; expected klaviyo, shopify, or ga4", source)
	}

	fmt.Printf("\nDashboard (%s): ", strings.Join(report.TemplateNames(), ", "))
	input, err = reader.ReadString('\n')
	if err != nil {
		return stacktrace.Propagate(err, "failed to read input")
	}
	dashboard := strings.TrimSpace(input)
	if _, err := report.TemplateByName(dashboard); err != nil {
		return err
	}

	fmt.Print("\nDescription (press Enter to skip): ")
	input, err = reader.ReadString('\n')
	if err != nil {
		return stacktrace.Propagate(err, "failed to read input")
	}
	description := strings.TrimSpace(input)

	scheduleCfg := config.ScheduleConfig{
		Schedule:    schedule,
		Source:      source,
		Dashboard:   dashboard,
		Description: description,
	}
	if cfg.Schedules == nil {
		cfg.Schedules = make(map[string]config.ScheduleConfig)
	}
	cfg.Schedules[name] = scheduleCfg

	if err := config.WriteSkillkitConfig(skillkitDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	fmt.Printf("\nCreated schedule '%s'\n", name)
	fmt.Println()
	if nextTime, err := config.GetNextCronRun(schedule); err == nil {
		fmt.Printf("Next run: %s\n", nextTime.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("\nTo start the runner: %s %s %s\n", skillkitCmdStr, reportCmdStr, scheduleCmdStr)
	fmt.Printf("To disable: %s %s %s %s %s\n", skillkitCmdStr, reportCmdStr, scheduleCmdStr, disableCmdStr, name)
	return nil
}
