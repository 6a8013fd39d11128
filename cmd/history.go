package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   historyCmdStr,
	Short: "Inspect recorded pipeline and audit runs",
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
