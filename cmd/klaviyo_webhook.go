package cmd

import (
	"github.com/spf13/cobra"
)

const (
	urlFlagName    = "url"
	secretFlagName = "secret"
)

var (
	webhookURLFlag    string
	webhookSecretFlag string
	webhookOutputFlag string
)

var klaviyoWebhookTestCmd = &cobra.Command{
	Use:   webhookTestCmdStr,
	Short: "Send a signed test event to a webhook endpoint",
	Args:  cobra.NoArgs,
	RunE:  runKlaviyoWebhookTest,
}

func init() {
	klaviyoWebhookTestCmd.Flags().StringVar(&webhookURLFlag, urlFlagName, "", "webhook endpoint URL to test")
	klaviyoWebhookTestCmd.Flags().StringVar(&webhookSecretFlag, secretFlagName, "", "signing secret for the X-Webhook-Signature header")
	klaviyoWebhookTestCmd.Flags().StringVarP(&webhookOutputFlag, outputFlagName, "o", "", "write the JSON result to this file instead of stdout")
	_ = klaviyoWebhookTestCmd.MarkFlagRequired(urlFlagName)
	klaviyoCmd.AddCommand(klaviyoWebhookTestCmd)
}

func runKlaviyoWebhookTest(cmd *cobra.Command, args []string) error {
	devTools, err := newKlaviyoDevTools()
	if err != nil {
		return err
	}

	result := devTools.TestWebhook(cmd.Context(), webhookURLFlag, webhookSecretFlag)
	return writeAnalysisJSON(result, webhookOutputFlag)
}
