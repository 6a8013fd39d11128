// Package report stages marketing data as local CSV files that Looker
// Studio dashboards ingest as data sources, and runs the configured sync
// schedules.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kurtosis-tech/stacktrace"

	"github.com/thatrebeccarae/claude-code-skills/internal/config"
	"github.com/thatrebeccarae/claude-code-skills/internal/ga4"
	"github.com/thatrebeccarae/claude-code-skills/internal/klaviyo"
	"github.com/thatrebeccarae/claude-code-skills/internal/shopify"
)

const (
	// maxTabRows caps staged campaign and flow rows so dashboard tabs stay
	// skimmable.
	maxTabRows = 50

	// defaultSyncDays is the sync window when none is given.
	defaultSyncDays = 30

	// emailCampaignsFilter limits campaign syncs to the email channel.
	emailCampaignsFilter = "equals(messages.channel,'email')"
)

// KlaviyoSource provides the campaign and flow reads the sync stages.
type KlaviyoSource interface {
	GetCampaigns(ctx context.Context, filter string) ([]klaviyo.Resource, error)
	GetFlows(ctx context.Context, filter string) ([]klaviyo.Resource, error)
}

// ShopifySource provides the order reads the sync stages.
type ShopifySource interface {
	GetOrders(ctx context.Context, params shopify.OrderParams) ([]shopify.Order, error)
}

// GA4Source provides the traffic summary the sync stages.
type GA4Source interface {
	TrafficSummary(ctx context.Context, days int) ([]ga4.DailySummary, error)
}

// Syncer pulls data from marketing sources and stages it as dashboard tab
// CSVs under the reports directory. Sources are wired by the caller and may
// be left nil when unused; syncing against a missing source errors.
type Syncer struct {
	skillkitDirpath string

	Klaviyo KlaviyoSource
	Shopify ShopifySource
	GA4     GA4Source
}

// NewSyncer creates a syncer staging under the given skillkit directory.
func NewSyncer(skillkitDirpath string) *Syncer {
	return &Syncer{skillkitDirpath: skillkitDirpath}
}

// TabResult reports one staged tab file.
type TabResult struct {
	Tab      string `json:"tab"`
	Filepath string `json:"filepath"`
	Rows     int    `json:"rows"`
}

// SyncResult reports what a sync staged and where.
type SyncResult struct {
	Source    string      `json:"source"`
	Dashboard string      `json:"dashboard"`
	Period    string      `json:"period,omitempty"`
	Tabs      []TabResult `json:"tabs"`
}

// Sync pulls from the named source and stages its tabs under the dashboard's
// reports directory.
func (s *Syncer) Sync(ctx context.Context, source, dashboard string, days int) (*SyncResult, error) {
	switch source {
	case "klaviyo":
		return s.SyncKlaviyo(ctx, dashboard)
	case "shopify":
		return s.SyncShopify(ctx, dashboard, days)
	case "ga4":
		return s.SyncGA4(ctx, dashboard, days)
	default:
		return nil, stacktrace.NewError("unknown report source '%s'; expected klaviyo, shopify, or ga4", source)
	}
}

// SyncKlaviyo stages recent email campaigns and flows as the Campaigns and
// Flows tabs.
func (s *Syncer) SyncKlaviyo(ctx context.Context, dashboard string) (*SyncResult, error) {
	if s.Klaviyo == nil {
		return nil, stacktrace.NewError("no Klaviyo client configured; set KLAVIYO_API_KEY")
	}

	campaigns, err := s.Klaviyo.GetCampaigns(ctx, emailCampaignsFilter)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch campaigns")
	}
	flows, err := s.Klaviyo.GetFlows(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch flows")
	}

	var campaignRows [][]string
	for _, campaign := range capRows(campaigns) {
		campaignRows = append(campaignRows, []string{
			dateOnly(campaign.Str("created_at")),
			campaign.Name(),
			"email",
			audienceID(campaign),
			campaign.Status(),
		})
	}

	var flowRows [][]string
	for _, flow := range capRows(flows) {
		flowRows = append(flowRows, []string{
			dateOnly(flow.Str("created")),
			flow.Name(),
			flow.Status(),
			flow.Str("trigger_type"),
		})
	}

	campaignsTab, err := s.writeTab(dashboard, "Campaigns",
		[]string{"Date", "Campaign Name", "Channel", "Audience ID", "Status"}, campaignRows)
	if err != nil {
		return nil, err
	}
	flowsTab, err := s.writeTab(dashboard, "Flows",
		[]string{"Date", "Flow Name", "Status", "Trigger Type"}, flowRows)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Source:    "klaviyo",
		Dashboard: dashboard,
		Tabs:      []TabResult{campaignsTab, flowsTab},
	}, nil
}

// SyncShopify stages the last days days of orders as the Shopify Orders tab.
func (s *Syncer) SyncShopify(ctx context.Context, dashboard string, days int) (*SyncResult, error) {
	if s.Shopify == nil {
		return nil, stacktrace.NewError("no Shopify client configured; set SHOPIFY_STORE_URL and SHOPIFY_ACCESS_TOKEN")
	}
	if days <= 0 {
		days = defaultSyncDays
	}

	orders, err := s.Shopify.GetOrders(ctx, shopify.OrderParams{
		Status:       "any",
		CreatedAtMin: time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339),
		Limit:        250,
	})
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch orders")
	}

	var rows [][]string
	for _, order := range orders {
		fulfillment := order.FulfillmentStatus
		if fulfillment == "" {
			fulfillment = "unfulfilled"
		}
		cancelled := "No"
		if order.CancelledAt != "" {
			cancelled = "Yes"
		}
		rows = append(rows, []string{
			dateOnly(order.CreatedAt),
			order.Name,
			order.Email,
			order.FinancialStatus,
			fulfillment,
			money(order.TotalPrice),
			money(order.TotalDiscounts),
			money(order.SubtotalPrice),
			strconv.Itoa(len(order.LineItems)),
			order.SourceName,
			cancelled,
		})
	}

	tab, err := s.writeTab(dashboard, "Shopify Orders", []string{
		"Date", "Order", "Email", "Financial Status",
		"Fulfillment", "Total Price", "Discounts",
		"Subtotal", "Items", "Source", "Cancelled",
	}, rows)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Source:    "shopify",
		Dashboard: dashboard,
		Period:    fmt.Sprintf("Last %d days", days),
		Tabs:      []TabResult{tab},
	}, nil
}

// SyncGA4 stages daily site traffic as the GA4 Summary tab.
func (s *Syncer) SyncGA4(ctx context.Context, dashboard string, days int) (*SyncResult, error) {
	if s.GA4 == nil {
		return nil, stacktrace.NewError("no GA4 client configured; set GOOGLE_ANALYTICS_PROPERTY_ID and GOOGLE_ANALYTICS_ACCESS_TOKEN")
	}
	if days <= 0 {
		days = defaultSyncDays
	}

	summaries, err := s.GA4.TrafficSummary(ctx, days)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch the GA4 traffic summary")
	}

	var rows [][]string
	for _, day := range summaries {
		rows = append(rows, []string{day.Date, day.Sessions, day.ActiveUsers, day.BounceRate, day.Conversions})
	}

	tab, err := s.writeTab(dashboard, "GA4 Summary",
		[]string{"Date", "Sessions", "Active Users", "Bounce Rate", "Conversions"}, rows)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Source:    "ga4",
		Dashboard: dashboard,
		Period:    fmt.Sprintf("Last %d days", days),
		Tabs:      []TabResult{tab},
	}, nil
}

// DashboardScaffold reports a newly created dashboard directory.
type DashboardScaffold struct {
	Dashboard   string   `json:"dashboard"`
	Description string   `json:"description"`
	Files       []string `json:"files"`
	NextSteps   []string `json:"next_steps"`
}

// CreateDashboard creates a dashboard directory from a template, one CSV per
// tab holding just its header row. Fails if the dashboard already exists.
func (s *Syncer) CreateDashboard(name string) (*DashboardScaffold, error) {
	template, err := TemplateByName(name)
	if err != nil {
		return nil, err
	}

	dashboardDirpath := config.GetReportDirpath(s.skillkitDirpath, name)
	if _, err := os.Stat(dashboardDirpath); err == nil {
		return nil, stacktrace.NewError("dashboard '%s' already exists at '%s'", name, dashboardDirpath)
	}

	scaffold := &DashboardScaffold{
		Dashboard:   name,
		Description: template.Description,
	}
	for _, tab := range template.Tabs {
		result, err := s.writeTab(name, tab.Name, tab.Headers, nil)
		if err != nil {
			return nil, err
		}
		scaffold.Files = append(scaffold.Files, result.Filepath)
	}
	scaffold.NextSteps = []string{
		fmt.Sprintf("Populate the tabs: skillkit report sync --source klaviyo --dashboard %s", name),
		"Connect the CSV files as data sources in Looker Studio",
	}
	return scaffold, nil
}

// writeTab writes one tab CSV (header row first) under the dashboard's
// reports directory, creating the directory as needed.
func (s *Syncer) writeTab(dashboard, tab string, headers []string, rows [][]string) (TabResult, error) {
	dirpath := config.GetReportDirpath(s.skillkitDirpath, dashboard)
	if err := os.MkdirAll(dirpath, 0755); err != nil {
		return TabResult{}, stacktrace.Propagate(err, "failed to create report directory '%s'", dirpath)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return TabResult{}, stacktrace.Propagate(err, "failed to write the '%s' header row", tab)
	}
	if err := writer.WriteAll(rows); err != nil {
		return TabResult{}, stacktrace.Propagate(err, "failed to write the '%s' rows", tab)
	}

	tabFilepath := filepath.Join(dirpath, tabFilename(tab))
	if err := os.WriteFile(tabFilepath, buf.Bytes(), 0644); err != nil {
		return TabResult{}, stacktrace.Propagate(err, "failed to write report tab file '%s'", tabFilepath)
	}
	return TabResult{Tab: tab, Filepath: tabFilepath, Rows: len(rows)}, nil
}

// capRows truncates a resource list to the per-tab row cap.
func capRows[T any](items []T) []T {
	if len(items) > maxTabRows {
		return items[:maxTabRows]
	}
	return items
}

// audienceID returns a campaign's first included audience. Klaviyo returns
// audience IDs as bare strings; older payloads wrapped them in id objects.
func audienceID(campaign klaviyo.Resource) string {
	audiences, ok := campaign["audiences"].(map[string]any)
	if !ok {
		return ""
	}
	included, ok := audiences["included"].([]any)
	if !ok || len(included) == 0 {
		return ""
	}
	switch first := included[0].(type) {
	case string:
		return first
	case map[string]any:
		if id, ok := first["id"].(string); ok {
			return id
		}
	}
	return ""
}

// dateOnly trims an ISO 8601 timestamp to its date part.
func dateOnly(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}

// money renders a Shopify decimal money string as a plain number, reading
// missing or malformed values as zero.
func money(value string) string {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(parsed, 'f', -1, 64)
}
