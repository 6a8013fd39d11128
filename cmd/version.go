package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   versionCmdStr,
	Short: "Print the skillkit version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skillkit version %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
