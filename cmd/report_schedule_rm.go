package cmd

import (
	"fmt"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
)

var reportScheduleRmCmd = &cobra.Command{
	Use:   rmCmdStr + " <name>",
	Short: "Remove a schedule from config",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportScheduleRm,
}

func init() {
	reportScheduleCmd.AddCommand(reportScheduleRmCmd)
}

func runReportScheduleRm(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, cm, err := config.ReadSkillkitConfig(skillkitDirpath)
	if err != nil {
		return stacktrace.Propagate(err, "failed to read config")
	}

	if _, exists := cfg.Schedules[name]; !exists {
		return stacktrace.NewError("schedule '%s' not found", name)
	}

	delete(cfg.Schedules, name)

	if err := config.WriteSkillkitConfig(skillkitDirpath, cfg, cm); err != nil {
		return stacktrace.Propagate(err, "failed to write config")
	}

	fmt.Printf("Removed schedule '%s'\n", name)
	return nil
}
