package cmd

// Centralized names for flags that are referenced from more than one place
// (registration, MarkFlagRequired, help text, error messages) so that each
// name is defined exactly once. Flags used by a single command keep their
// name constant next to the command.

const (
	outputFlagName    = "output"
	templatesFlagName = "templates"
	themeFlagName     = "theme"
	dataFlagName      = "data"
	daysFlagName      = "days"
	sourceFlagName    = "source"
	dashboardFlagName = "dashboard"
	dirFlagName       = "dir"
	commandFlagName   = "command"
	limitFlagName     = "limit"
	skillFlagName     = "skill"

	// Audit section selectors shared by the klaviyo and shopify audit
	// commands.
	flowsFlagName          = "flows"
	segmentsFlagName       = "segments"
	campaignsFlagName      = "campaigns"
	deliverabilityFlagName = "deliverability"
	revenueFlagName        = "revenue"
	healthFlagName         = "health"
	funnelFlagName         = "funnel"
	productsFlagName       = "products"
	cohortsFlagName        = "cohorts"
)
