package cmd

import (
	"fmt"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
)

var reportScheduleEnableCmd = &cobra.Command{
	Use:   enableCmdStr + " <name>",
	Short: "Enable a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportScheduleEnable,
}

func init() {
	reportScheduleCmd.AddCommand(reportScheduleEnableCmd)
}

func runReportScheduleEnable(cmd *cobra.Command, args []string) error {
	return setScheduleEnabled(args[0], true)
}

func setScheduleEnabled(name string, enabled bool) error {
	cfg, cm, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	scheduleCfg, exists := cfg.Schedules[name]
	if !exists {
		return stacktrace.NewError("schedule '%s' not found", name)
	}

	if scheduleCfg.IsEnabled() == enabled {
		if enabled {
			fmt.Printf("Schedule '%s' is already enabled\n", name)
		} else {
			fmt.Printf("Schedule '%s' is already disabled\n", name)
		}
		return nil
	}

	scheduleCfg.Enabled = &enabled
	cfg.Schedules[name] = scheduleCfg

	if err := config.WriteSkillkitConfig(skillkitDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	if enabled {
		fmt.Printf("Enabled schedule '%s'\n", name)
		if nextTime, err := config.GetNextCronRun(scheduleCfg.Schedule); err == nil {
			fmt.Printf("Next run: %s\n", nextTime.Local().Format("2006-01-02 15:04:05"))
		}
	} else {
		fmt.Printf("Disabled schedule '%s'\n", name)
	}
	return nil
}
