package cmd

import (
	"github.com/spf13/cobra"
)

var klaviyoCmd = &cobra.Command{
	Use:   klaviyoCmdStr,
	Short: "Audit and inspect a Klaviyo account",
}

func init() {
	rootCmd.AddCommand(klaviyoCmd)
}
