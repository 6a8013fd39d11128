package cmd

import (
	"github.com/spf13/cobra"
)

var linkedinCmd = &cobra.Command{
	Use:   linkedinCmdStr,
	Short: "Parse, analyze, and visualize LinkedIn data exports",
}

func init() {
	rootCmd.AddCommand(linkedinCmd)
}
