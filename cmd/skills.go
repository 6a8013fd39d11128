package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/skills"
)

var skillsDirFlags []string

var skillsCmd = &cobra.Command{
	Use:   skillsCmdStr,
	Short: "List and validate agent skill manifests",
}

func init() {
	skillsCmd.PersistentFlags().StringArrayVar(&skillsDirFlags, dirFlagName, nil, "additional directory to scan for skill manifests (repeatable)")
	rootCmd.AddCommand(skillsCmd)
}

// skillRootDirpaths returns the directories scanned for SKILL.md manifests:
// the working tree's skills/ and skill-packs/ plus any --dir flags.
func skillRootDirpaths() []string {
	return append([]string{skills.SkillsDirname, skills.SkillPacksDirname}, skillsDirFlags...)
}
