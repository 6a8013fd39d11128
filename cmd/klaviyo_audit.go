package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

var (
	klaviyoAuditFlowsFlag          bool
	klaviyoAuditSegmentsFlag       bool
	klaviyoAuditCampaignsFlag      bool
	klaviyoAuditDeliverabilityFlag bool
	klaviyoAuditRevenueFlag        bool
	klaviyoAuditDaysFlag           int
	klaviyoAuditOutputFlag         string
)

var klaviyoAuditCmd = &cobra.Command{
	Use:   auditCmdStr,
	Short: "Audit flows, segments, campaigns, deliverability, and revenue",
	Long: `Audit the Klaviyo account and print the findings as JSON.

With no section flag the full audit runs every section. Pass a section
flag to run just that section.`,
	Args: cobra.NoArgs,
	RunE: runKlaviyoAudit,
}

func init() {
	klaviyoAuditCmd.Flags().BoolVar(&klaviyoAuditFlowsFlag, flowsFlagName, false, "audit flow structure and performance only")
	klaviyoAuditCmd.Flags().BoolVar(&klaviyoAuditSegmentsFlag, segmentsFlagName, false, "analyze segment sizes and overlap only")
	klaviyoAuditCmd.Flags().BoolVar(&klaviyoAuditCampaignsFlag, campaignsFlagName, false, "compare recent campaign performance only")
	klaviyoAuditCmd.Flags().BoolVar(&klaviyoAuditDeliverabilityFlag, deliverabilityFlagName, false, "check deliverability metrics only")
	klaviyoAuditCmd.Flags().BoolVar(&klaviyoAuditRevenueFlag, revenueFlagName, false, "analyze revenue attribution only")
	klaviyoAuditCmd.Flags().IntVar(&klaviyoAuditDaysFlag, daysFlagName, 30, "lookback window for campaign comparison")
	klaviyoAuditCmd.Flags().StringVarP(&klaviyoAuditOutputFlag, outputFlagName, "o", "", "write the JSON report to this file instead of stdout")
	klaviyoAuditCmd.MarkFlagsMutuallyExclusive(flowsFlagName, segmentsFlagName, campaignsFlagName, deliverabilityFlagName, revenueFlagName)
	klaviyoCmd.AddCommand(klaviyoAuditCmd)
}

// klaviyoAuditSection maps the section flags to the audit to run. No flag
// means the full audit.
func klaviyoAuditSection() string {
	switch {
	case klaviyoAuditFlowsFlag:
		return "flows"
	case klaviyoAuditSegmentsFlag:
		return "segments"
	case klaviyoAuditCampaignsFlag:
		return "campaigns"
	case klaviyoAuditDeliverabilityFlag:
		return "deliverability"
	case klaviyoAuditRevenueFlag:
		return "revenue"
	default:
		return "full-audit"
	}
}

func runKlaviyoAudit(cmd *cobra.Command, args []string) error {
	section := klaviyoAuditSection()
	return recordRun(klaviyoCmdStr+" "+auditCmdStr, section, klaviyoAuditOutputFlag, func() (database.RecordCounts, error) {
		auditor, err := newKlaviyoAuditor()
		if err != nil {
			return database.RecordCounts{}, err
		}

		ctx := cmd.Context()
		var result any
		switch section {
		case "flows":
			result, err = auditor.AuditFlows(ctx)
		case "segments":
			result, err = auditor.AnalyzeSegments(ctx)
		case "campaigns":
			result, err = auditor.CompareCampaigns(ctx, klaviyoAuditDaysFlag)
		case "deliverability":
			result, err = auditor.CheckDeliverability(ctx)
		case "revenue":
			result, err = auditor.AnalyzeRevenue(ctx)
		default:
			result, err = auditor.FullAudit(ctx)
		}
		if err != nil {
			return database.RecordCounts{}, err
		}

		return database.RecordCounts{}, writeAnalysisJSON(result, klaviyoAuditOutputFlag)
	})
}
