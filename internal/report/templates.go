package report

import (
	"strings"

	"github.com/kurtosis-tech/stacktrace"
)

// Tab is one data table within a dashboard.
type Tab struct {
	Name    string
	Headers []string
}

// Template is a dashboard layout: the tabs Looker Studio expects as data
// sources, with their header rows.
type Template struct {
	Name        string
	Description string
	Tabs        []Tab
}

var templates = []Template{
	{
		Name:        "crm-dashboard",
		Description: "CRM Performance Dashboard — email/SMS KPIs, list growth, engagement tiers",
		Tabs: []Tab{
			{Name: "Campaign Metrics", Headers: []string{
				"Date", "Campaign Name", "Channel", "Recipients",
				"Opens", "Open Rate", "Clicks", "Click Rate",
				"Conversions", "Revenue", "Unsubscribes",
			}},
			{Name: "Flow Metrics", Headers: []string{
				"Date", "Flow Name", "Flow Type", "Messages Sent",
				"Opens", "Open Rate", "Clicks", "Click Rate",
				"Conversions", "Revenue",
			}},
			{Name: "List Growth", Headers: []string{
				"Date", "List Name", "New Subscribers", "Unsubscribes",
				"Net Growth", "Total Size",
			}},
		},
	},
	{
		Name:        "lifecycle",
		Description: "Lifecycle Marketing Dashboard — flow performance across customer journey",
		Tabs: []Tab{
			{Name: "Lifecycle Flows", Headers: []string{
				"Date", "Flow Name", "Stage", "Messages Sent",
				"Delivered", "Opens", "Clicks", "Conversions",
				"Revenue", "Revenue Per Recipient",
			}},
			{Name: "Customer Stages", Headers: []string{
				"Date", "Stage", "Customer Count", "Revenue",
				"Avg Order Value", "Repeat Rate",
			}},
		},
	},
	{
		Name:        "campaign-performance",
		Description: "Campaign ROI Tracker — campaign comparison, A/B test results, send-time analysis",
		Tabs: []Tab{
			{Name: "Campaigns", Headers: []string{
				"Date", "Campaign Name", "Subject Line", "Channel",
				"Audience", "Recipients", "Opens", "Open Rate",
				"Clicks", "Click Rate", "CTR", "Revenue",
				"Revenue Per Recipient", "Unsubscribes", "Bounces",
			}},
			{Name: "A/B Tests", Headers: []string{
				"Date", "Campaign", "Variant", "Subject Line",
				"Recipients", "Open Rate", "Click Rate", "Winner",
			}},
		},
	},
	{
		Name:        "revenue-attribution",
		Description: "Revenue Attribution Dashboard — Klaviyo vs Shopify revenue reconciliation",
		Tabs: []Tab{
			{Name: "Klaviyo Revenue", Headers: []string{
				"Date", "Source", "Campaign/Flow Name", "Channel",
				"Attributed Revenue", "Orders", "AOV",
			}},
			{Name: "Shopify Revenue", Headers: []string{
				"Date", "Source", "Channel", "Orders",
				"Gross Revenue", "Discounts", "Net Revenue", "AOV",
			}},
			{Name: "Reconciliation", Headers: []string{
				"Date", "Klaviyo Attributed", "Shopify Total",
				"Attribution %", "Gap", "Notes",
			}},
		},
	},
}

// Templates lists the available dashboard templates.
func Templates() []Template {
	return templates
}

// TemplateNames lists the template names in their documented order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for _, template := range templates {
		names = append(names, template.Name)
	}
	return names
}

// TemplateByName looks a dashboard template up by name.
func TemplateByName(name string) (Template, error) {
	for _, template := range templates {
		if template.Name == name {
			return template, nil
		}
	}
	return Template{}, stacktrace.NewError("unknown dashboard template '%s'; available: %s", name, strings.Join(TemplateNames(), ", "))
}

// tabFilename slugs a tab name into a CSV filename ("A/B Tests" ->
// "a-b-tests.csv").
func tabFilename(tab string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(tab) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
		} else {
			pendingDash = true
		}
	}
	return b.String() + ".csv"
}
