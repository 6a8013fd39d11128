package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/ga4"
	"github.com/thatrebeccarae/claude-code-skills/internal/klaviyo"
	"github.com/thatrebeccarae/claude-code-skills/internal/report"
	"github.com/thatrebeccarae/claude-code-skills/internal/shopify"
)

var reportCmd = &cobra.Command{
	Use:   reportCmdStr,
	Short: "Stage marketing data for Looker Studio dashboards",
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// newReportSyncer wires a syncer with whichever source clients the
// environment has credentials for. A missing credential leaves that source
// nil; syncing against it reports what to configure.
func newReportSyncer() *report.Syncer {
	syncer := report.NewSyncer(skillkitDirpath)
	if client, err := klaviyo.NewClientFromEnv(); err == nil {
		syncer.Klaviyo = client
	}
	if client, err := shopify.NewClientFromEnv(); err == nil {
		syncer.Shopify = client
	}
	if client, err := ga4.NewClientFromEnv(); err == nil {
		syncer.GA4 = client
	}
	return syncer
}
