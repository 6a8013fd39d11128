package cmd

import (
	"fmt"
	"os"

	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/tableprinter"
)

const listFlagName = "list"

var klaviyoImportListFlag string

var klaviyoImportCmd = &cobra.Command{
	Use:   importCmdStr + " <profiles.csv>",
	Short: "Bulk-import profiles from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runKlaviyoImport,
}

func init() {
	klaviyoImportCmd.Flags().StringVar(&klaviyoImportListFlag, listFlagName, "", "list ID to subscribe imported profiles to")
	klaviyoCmd.AddCommand(klaviyoImportCmd)
}

func runKlaviyoImport(cmd *cobra.Command, args []string) error {
	devTools, err := newKlaviyoDevTools()
	if err != nil {
		return err
	}

	result, err := devTools.ImportCSV(cmd.Context(), args[0], klaviyoImportListFlag, func(batch int, totalBatches int, profiles int) {
		fmt.Printf("Submitting batch %d/%d (%d profiles)\n", batch, totalBatches, profiles)
	})
	if err != nil {
		return err
	}

	for _, importErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", importErr)
	}

	fmt.Printf("Submitted %d of %d batches (%s profiles)\n", result.Summary.BatchesSubmitted, len(result.Batches), tableprinter.FormatCount(result.Summary.ProfilesSubmitted))

	if result.Summary.BatchesFailed > 0 {
		return stacktrace.NewError("%d of %d batches failed to submit", result.Summary.BatchesFailed, len(result.Batches))
	}
	return nil
}
