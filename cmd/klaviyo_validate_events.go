package cmd

import (
	"github.com/spf13/cobra"
)

var validateEventsOutputFlag string

var klaviyoValidateEventsCmd = &cobra.Command{
	Use:   validateEventsCmdStr + " <event-name>...",
	Short: "Check that expected metrics exist and are flowing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKlaviyoValidateEvents,
}

func init() {
	klaviyoValidateEventsCmd.Flags().StringVarP(&validateEventsOutputFlag, outputFlagName, "o", "", "write the JSON report to this file instead of stdout")
	klaviyoCmd.AddCommand(klaviyoValidateEventsCmd)
}

func runKlaviyoValidateEvents(cmd *cobra.Command, args []string) error {
	devTools, err := newKlaviyoDevTools()
	if err != nil {
		return err
	}

	result, err := devTools.ValidateEvents(cmd.Context(), args)
	if err != nil {
		return err
	}

	return writeAnalysisJSON(result, validateEventsOutputFlag)
}
