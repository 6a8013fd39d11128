package cmd

// Centralized command name strings for all CLI commands and subcommands.
// Use these constants in Cobra Use fields and user-facing messages (error
// text, help text, remediation suggestions) so that command names are
// defined in exactly one place.

const (
	// Root command
	skillkitCmdStr = "skillkit"

	// Top-level commands
	linkedinCmdStr = "linkedin"
	klaviyoCmdStr  = "klaviyo"
	shopifyCmdStr  = "shopify"
	reportCmdStr   = "report"
	skillsCmdStr   = "skills"
	historyCmdStr  = "history"
	setupCmdStr    = "setup"
	doctorCmdStr   = "doctor"
	versionCmdStr  = "version"

	// Subcommands shared across multiple parent commands
	lsCmdStr = "ls"
	rmCmdStr = "rm"

	// LinkedIn subcommands
	parseCmdStr    = "parse"
	analyzeCmdStr  = "analyze"
	vizCmdStr      = "viz"
	sanitizeCmdStr = "sanitize"
	runCmdStr      = "run"
	watchCmdStr    = "watch"

	// Klaviyo and Shopify subcommands
	auditCmdStr          = "audit"
	healthCmdStr         = "health"
	validateEventsCmdStr = "validate-events"
	webhookTestCmdStr    = "webhook-test"
	exportCmdStr         = "export"
	importCmdStr         = "import"

	// Report subcommands
	syncCmdStr            = "sync"
	templatesCmdStr       = "templates"
	createDashboardCmdStr = "create-dashboard"
	scheduleCmdStr        = "schedule"
	addCmdStr             = "add"
	enableCmdStr          = "enable"
	disableCmdStr         = "disable"

	// Skills subcommands
	validateCmdStr = "validate"

	// History subcommands
	inspectCmdStr = "inspect"
)
