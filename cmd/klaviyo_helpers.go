package cmd

import (
	"github.com/kurtosis-tech/stacktrace"

	"github.com/thatrebeccarae/claude-code-skills/internal/klaviyo"
)

func newKlaviyoAuditor() (*klaviyo.Auditor, error) {
	client, err := klaviyo.NewClientFromEnv()
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to build Klaviyo client; run '%s %s --%s klaviyo' to configure credentials", skillkitCmdStr, setupCmdStr, skillFlagName)
	}
	return klaviyo.NewAuditor(client), nil
}

func newKlaviyoDevTools() (*klaviyo.DevTools, error) {
	client, err := klaviyo.NewClientFromEnv()
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to build Klaviyo client; run '%s %s --%s klaviyo' to configure credentials", skillkitCmdStr, setupCmdStr, skillFlagName)
	}
	return klaviyo.NewDevTools(client), nil
}
