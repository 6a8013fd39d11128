package cmd

import (
	"fmt"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/skills"
)

var skillsValidateCmd = &cobra.Command{
	Use:   validateCmdStr,
	Short: "Check every skill manifest for missing or malformed fields",
	Args:  cobra.NoArgs,
	RunE:  runSkillsValidate,
}

func init() {
	skillsCmd.AddCommand(skillsValidateCmd)
}

func runSkillsValidate(cmd *cobra.Command, args []string) error {
	issues, err := skills.ValidateAll(skillRootDirpaths()...)
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Println("All skill manifests are valid.")
		return nil
	}

	for _, issue := range issues {
		fmt.Printf("  %s: %s\n", issue.Filepath, issue.Problem)
	}
	return stacktrace.NewError("found %d skill manifest problem(s)", len(issues))
}
