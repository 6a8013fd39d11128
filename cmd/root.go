package cmd

import (
	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
)

var skillkitDirpath string

var rootCmd = &cobra.Command{
	Use:   skillkitCmdStr,
	Short: "LinkedIn export analysis, marketing audits, and dashboard reports",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dirpath, err := config.GetSkillkitDirpath()
		if err != nil {
			return stacktrace.Propagate(err, "failed to get skillkit directory path")
		}
		skillkitDirpath = dirpath

		if err := handleFirstRun(skillkitDirpath); err != nil {
			return stacktrace.Propagate(err, "first-run setup failed")
		}

		if err := config.EnsureDirStructure(skillkitDirpath); err != nil {
			return stacktrace.Propagate(err, "failed to ensure directory structure")
		}

		if err := config.LoadEnvFile(skillkitDirpath); err != nil {
			return stacktrace.Propagate(err, "failed to load stored credentials")
		}

		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
