package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var reportScheduleLsCmd = &cobra.Command{
	Use:   lsCmdStr,
	Short: "List the report sync schedules",
	Args:  cobra.NoArgs,
	RunE:  runReportScheduleLs,
}

func init() {
	reportScheduleCmd.AddCommand(reportScheduleLsCmd)
}

func runReportScheduleLs(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	if len(cfg.Schedules) == 0 {
		fmt.Println("No schedules defined.")
		fmt.Printf("\nTo create one, run '%s %s %s %s' or add an entry to %s under 'schedules'.\n",
			skillkitCmdStr, reportCmdStr, scheduleCmdStr, addCmdStr, config.GetConfigFilepath(skillkitDirpath))
		return nil
	}

	names := make([]string, 0, len(cfg.Schedules))
	for name := range cfg.Schedules {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := tableprinter.NewTable("NAME", "SCHEDULE", "SOURCE", "DASHBOARD", "ENABLED", "NEXT RUN")
	for _, name := range names {
		scheduleCfg := cfg.Schedules[name]
		enabled := "yes"
		if !scheduleCfg.IsEnabled() {
			enabled = colorize(ansiYellow, "no")
		}
		tbl.AddRow(
			colorize(ansiLightBlue, name),
			scheduleCfg.Schedule,
			scheduleCfg.Source,
			scheduleCfg.Dashboard,
			enabled,
			getNextRunDisplay(scheduleCfg.Schedule, scheduleCfg.IsEnabled()),
		)
	}
	tbl.Print()
	return nil
}

// getNextRunDisplay formats when a schedule will next fire. Runs within the
// next 24 hours show as a relative duration.
func getNextRunDisplay(schedule string, enabled bool) string {
	if !enabled {
		return colorize(ansiYellow, "disabled")
	}
	nextTime, err := config.GetNextCronRun(schedule)
	if err != nil {
		return "error"
	}
	until := time.Until(nextTime)
	if until < 24*time.Hour {
		return formatDuration(until)
	}
	return nextTime.Local().Format("2006-01-02 15:04")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	minutes = minutes % 60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
