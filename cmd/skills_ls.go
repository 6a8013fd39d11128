package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/skills"
	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

var skillsLsCmd = &cobra.Command{
	Use:   lsCmdStr,
	Short: "List the discovered skills",
	Args:  cobra.NoArgs,
	RunE:  runSkillsLs,
}

func init() {
	skillsCmd.AddCommand(skillsLsCmd)
}

func runSkillsLs(cmd *cobra.Command, args []string) error {
	discovered, err := skills.Discover(skillRootDirpaths()...)
	if err != nil {
		return err
	}

	if len(discovered) == 0 {
		fmt.Println("No skills found.")
		return nil
	}

	tbl := tableprinter.NewTable("NAME", "DESCRIPTION", "PATH")
	for _, skill := range discovered {
		tbl.AddRow(
			colorize(ansiLightBlue, skill.Name),
			truncateCell(skill.Description, 60),
			skill.Filepath,
		)
	}
	tbl.Print()
	return nil
}
