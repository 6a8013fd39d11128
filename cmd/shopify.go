package cmd

import (
	"github.com/kurtosis-tech/stacktrace"
	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/shopify"
)

var shopifyCmd = &cobra.Command{
	Use:   shopifyCmdStr,
	Short: "Audit a Shopify store",
}

func init() {
	rootCmd.AddCommand(shopifyCmd)
}

func newShopifyAnalyzer() (*shopify.Analyzer, error) {
	client, err := shopify.NewClientFromEnv()
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to build Shopify client; run '%s %s --%s shopify' to configure credentials", skillkitCmdStr, setupCmdStr, skillFlagName)
	}
	return shopify.NewAnalyzer(client), nil
}
