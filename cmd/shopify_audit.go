package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/database"
)

var (
	shopifyAuditHealthFlag   bool
	shopifyAuditFunnelFlag   bool
	shopifyAuditProductsFlag bool
	shopifyAuditCohortsFlag  bool
	shopifyAuditRevenueFlag  bool
	shopifyAuditDaysFlag     int
	shopifyAuditOutputFlag   string
)

var shopifyAuditCmd = &cobra.Command{
	Use:   auditCmdStr,
	Short: "Audit store health, funnel, products, cohorts, and revenue",
	Long: `Audit the Shopify store and print the findings as JSON.

With no section flag the full audit runs every section. Pass a section
flag to run just that section.`,
	Args: cobra.NoArgs,
	RunE: runShopifyAudit,
}

func init() {
	shopifyAuditCmd.Flags().BoolVar(&shopifyAuditHealthFlag, healthFlagName, false, "audit store configuration health only")
	shopifyAuditCmd.Flags().BoolVar(&shopifyAuditFunnelFlag, funnelFlagName, false, "analyze the checkout funnel only")
	shopifyAuditCmd.Flags().BoolVar(&shopifyAuditProductsFlag, productsFlagName, false, "analyze product performance only")
	shopifyAuditCmd.Flags().BoolVar(&shopifyAuditCohortsFlag, cohortsFlagName, false, "analyze customer cohorts only")
	shopifyAuditCmd.Flags().BoolVar(&shopifyAuditRevenueFlag, revenueFlagName, false, "analyze revenue trends only")
	shopifyAuditCmd.Flags().IntVar(&shopifyAuditDaysFlag, daysFlagName, 30, "lookback window for the analysis sections")
	shopifyAuditCmd.Flags().StringVarP(&shopifyAuditOutputFlag, outputFlagName, "o", "", "write the JSON report to this file instead of stdout")
	shopifyAuditCmd.MarkFlagsMutuallyExclusive(healthFlagName, funnelFlagName, productsFlagName, cohortsFlagName, revenueFlagName)
	shopifyCmd.AddCommand(shopifyAuditCmd)
}

// shopifyAuditSection maps the section flags to the audit to run. No flag
// means the full audit.
func shopifyAuditSection() string {
	switch {
	case shopifyAuditHealthFlag:
		return "health"
	case shopifyAuditFunnelFlag:
		return "funnel"
	case shopifyAuditProductsFlag:
		return "products"
	case shopifyAuditCohortsFlag:
		return "cohorts"
	case shopifyAuditRevenueFlag:
		return "revenue"
	default:
		return "full-audit"
	}
}

func runShopifyAudit(cmd *cobra.Command, args []string) error {
	section := shopifyAuditSection()
	return recordRun(shopifyCmdStr+" "+auditCmdStr, section, shopifyAuditOutputFlag, func() (database.RecordCounts, error) {
		analyzer, err := newShopifyAnalyzer()
		if err != nil {
			return database.RecordCounts{}, err
		}

		ctx := cmd.Context()
		var result any
		switch section {
		case "health":
			result, err = analyzer.AuditStoreHealth(ctx)
		case "funnel":
			result, err = analyzer.AnalyzeFunnel(ctx, shopifyAuditDaysFlag)
		case "products":
			result, err = analyzer.AnalyzeProducts(ctx, shopifyAuditDaysFlag)
		case "cohorts":
			result, err = analyzer.AnalyzeCohorts(ctx, shopifyAuditDaysFlag)
		case "revenue":
			result, err = analyzer.AnalyzeRevenue(ctx, shopifyAuditDaysFlag)
		default:
			result, err = analyzer.FullAudit(ctx)
		}
		if err != nil {
			return database.RecordCounts{}, err
		}

		return database.RecordCounts{}, writeAnalysisJSON(result, shopifyAuditOutputFlag)
	})
}
