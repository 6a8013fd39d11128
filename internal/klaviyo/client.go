// Package klaviyo is a minimal JSON:API client for the Klaviyo REST API,
// plus the account audit and integration tooling built on top of it.
package klaviyo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	defaultBaseURL = "https://a.klaviyo.com/api"

	// apiRevision is the Klaviyo API revision every request is pinned to.
	apiRevision = "2025-10-15"

	apiKeyEnvVar = "KLAVIYO_API_KEY"

	maxAttempts   = 3
	maxRetryDelay = 60 * time.Second

	maxPageSize = 100
)

// Client talks to the Klaviyo REST API with a private API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given private API key.
func NewClient(apiKey string) (*Client, error) {
	if !strings.HasPrefix(apiKey, "pk_") {
		return nil, stacktrace.NewError("Klaviyo API key should start with 'pk_'; use a private API key, not a public one")
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// NewClientFromEnv builds a client from the KLAVIYO_API_KEY environment
// variable.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv(apiKeyEnvVar)
	if apiKey == "" {
		return nil, stacktrace.NewError("%s environment variable not set; find your API key in Klaviyo under Settings > Account > API Keys", apiKeyEnvVar)
	}
	return NewClient(apiKey)
}

// Resource is a JSON:API resource flattened to id + type + attributes, the
// shape every read endpoint returns.
type Resource map[string]any

// ID returns the resource's JSON:API id.
func (r Resource) ID() string { return r.str("id") }

// Name returns the name attribute, if present.
func (r Resource) Name() string { return r.str("name") }

// Status returns the status attribute, if present.
func (r Resource) Status() string { return r.str("status") }

// Str returns the named attribute when it is a string, "" otherwise.
func (r Resource) Str(key string) string { return r.str(key) }

func (r Resource) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

type rawResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

func flattenResource(raw rawResource) Resource {
	flat := Resource{"id": raw.ID, "type": raw.Type}
	for key, value := range raw.Attributes {
		flat[key] = value
	}
	return flat
}

// GetFlows lists all flows. An optional filter uses Klaviyo's filter syntax,
// e.g. `equals(status,"live")`.
func (c *Client) GetFlows(ctx context.Context, filter string) ([]Resource, error) {
	return c.getList(ctx, "/flows/", withFilter(filter))
}

// GetCampaigns lists campaigns. An optional filter uses Klaviyo's filter
// syntax, e.g. `equals(messages.channel,"email")`.
func (c *Client) GetCampaigns(ctx context.Context, filter string) ([]Resource, error) {
	return c.getList(ctx, "/campaigns/", withFilter(filter))
}

// GetSegments lists all segments, including their profile counts.
func (c *Client) GetSegments(ctx context.Context) ([]Resource, error) {
	query := url.Values{"additional-fields[segment]": []string{"profile_count"}}
	return c.getList(ctx, "/segments/", query)
}

// GetLists lists all lists.
func (c *Client) GetLists(ctx context.Context) ([]Resource, error) {
	return c.getList(ctx, "/lists/", nil)
}

// GetMetrics lists all available event types.
func (c *Client) GetMetrics(ctx context.Context) ([]Resource, error) {
	return c.getList(ctx, "/metrics/", nil)
}

// GetCatalogItems lists catalog items, optionally filtered.
func (c *Client) GetCatalogItems(ctx context.Context, filter string) ([]Resource, error) {
	return c.getList(ctx, "/catalog-items/", withFilter(filter))
}

// ProfilePage is one page of profiles plus the cursor for the next page.
// An empty NextCursor means the last page was reached.
type ProfilePage struct {
	Profiles   []Resource
	NextCursor string
}

// GetProfiles fetches a single page of profiles. The API caps pageSize at 100.
func (c *Client) GetProfiles(ctx context.Context, pageSize int, cursor string) (*ProfilePage, error) {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	query := url.Values{"page[size]": []string{strconv.Itoa(pageSize)}}
	if cursor != "" {
		query.Set("page[cursor]", cursor)
	}

	body, err := c.do(ctx, http.MethodGet, "/profiles/", query, nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data  []rawResource `json:"data"`
		Links struct {
			Next string `json:"next"`
		} `json:"links"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, stacktrace.Propagate(err, "failed to decode profiles page")
	}

	page := &ProfilePage{Profiles: make([]Resource, 0, len(env.Data))}
	for _, raw := range env.Data {
		page.Profiles = append(page.Profiles, flattenResource(raw))
	}
	if env.Links.Next != "" {
		page.NextCursor = cursorFromLink(env.Links.Next)
	}
	return page, nil
}

// ExportProfiles pages through profiles until exhausted. maxPages of 0 means
// no limit. Page progress is reported through onPage when non-nil.
func (c *Client) ExportProfiles(ctx context.Context, pageSize int, maxPages int, onPage func(page, fetched, total int)) ([]Resource, error) {
	var profiles []Resource
	cursor := ""
	pageCount := 0

	for {
		page, err := c.GetProfiles(ctx, pageSize, cursor)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, page.Profiles...)
		pageCount++
		if onPage != nil {
			onPage(pageCount, len(page.Profiles), len(profiles))
		}

		if page.NextCursor == "" {
			break
		}
		if maxPages > 0 && pageCount >= maxPages {
			break
		}
		cursor = page.NextCursor
	}

	return profiles, nil
}

// cursorFromLink extracts the page[cursor] query parameter from a links.next
// URL. Returns "" when the link can't be parsed, which ends pagination.
func cursorFromLink(next string) string {
	parsed, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("page[cursor]")
}

// ReportStats are the summed statistics of a values report, keyed by
// statistic name (opens, recipients, revenue, ...). Missing keys read as 0.
type ReportStats map[string]float64

// Get returns a statistic by name, or 0 when absent.
func (s ReportStats) Get(name string) float64 {
	return s[name]
}

// reportStatistics are requested for every values report.
var reportStatistics = []string{
	"opens",
	"unique_opens",
	"clicks",
	"unique_clicks",
	"recipients",
	"deliveries",
	"bounces",
	"unsubscribes",
	"spam_complaints",
	"revenue",
}

// GetFlowReport returns summed last-365-day performance statistics for one
// flow.
func (c *Client) GetFlowReport(ctx context.Context, flowID string) (ReportStats, error) {
	body := valuesReportBody("flow-values-report", `equals(flow_id,"`+flowID+`")`)
	return c.queryValuesReport(ctx, "/flow-values-reports/", body)
}

// GetCampaignReport returns summed last-365-day performance statistics for
// one campaign.
func (c *Client) GetCampaignReport(ctx context.Context, campaignID string) (ReportStats, error) {
	body := valuesReportBody("campaign-values-report", `equals(campaign_id,"`+campaignID+`")`)
	return c.queryValuesReport(ctx, "/campaign-values-reports/", body)
}

func valuesReportBody(reportType, filter string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type": reportType,
			"attributes": map[string]any{
				"statistics":           reportStatistics,
				"timeframe":            map[string]string{"key": "last_365_days"},
				"conversion_metric_id": "placed_order",
				"filter":               filter,
			},
		},
	}
}

func (c *Client) queryValuesReport(ctx context.Context, path string, reqBody map[string]any) (ReportStats, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, reqBody)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data struct {
			Attributes struct {
				Results []struct {
					Statistics map[string]float64 `json:"statistics"`
				} `json:"results"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, stacktrace.Propagate(err, "failed to decode report from %s", path)
	}

	// Reports group results per message; sum them into account-level totals.
	stats := ReportStats{}
	for _, result := range env.Data.Attributes.Results {
		for name, value := range result.Statistics {
			stats[name] += value
		}
	}
	return stats, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]Resource, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var env struct {
		Data []rawResource `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, stacktrace.Propagate(err, "failed to decode response from %s", path)
	}

	resources := make([]Resource, 0, len(env.Data))
	for _, raw := range env.Data {
		resources = append(resources, flattenResource(raw))
	}
	return resources, nil
}

func decodeSingle(body []byte, path string) (Resource, error) {
	var env struct {
		Data rawResource `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, stacktrace.Propagate(err, "failed to decode response from %s", path)
	}
	return flattenResource(env.Data), nil
}

// do issues one API request, retrying 429s and transient server errors with
// exponential backoff. A Retry-After header takes precedence over the
// computed delay.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to marshal request body for %s", path)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to create request for %s", path)
		}
		req.Header.Set("Authorization", "Klaviyo-API-Key "+c.apiKey)
		req.Header.Set("revision", apiRevision)
		req.Header.Set("Accept", "application/vnd.api+json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/vnd.api+json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = stacktrace.Propagate(err, "request to %s failed", path)
			if attempt == maxAttempts {
				break
			}
			if waitErr := waitBeforeRetry(ctx, attempt, ""); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to read response from %s", path)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = stacktrace.NewError("Klaviyo API returned %d for %s %s", resp.StatusCode, method, path)
			if attempt == maxAttempts {
				break
			}
			if waitErr := waitBeforeRetry(ctx, attempt, resp.Header.Get("Retry-After")); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, stacktrace.NewError("Klaviyo API returned %d for %s %s: %s", resp.StatusCode, method, path, truncate(string(respBody), 300))
		}

		return respBody, nil
	}

	return nil, lastErr
}

// waitBeforeRetry sleeps for the Retry-After duration when given, else an
// exponential backoff (1s, 2s, ...) capped at maxRetryDelay. Returns early
// if the context is cancelled.
func waitBeforeRetry(ctx context.Context, attempt int, retryAfter string) error {
	delay := time.Duration(1<<(attempt-1)) * time.Second
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return stacktrace.Propagate(ctx.Err(), "cancelled while waiting to retry")
	}
}

func withFilter(filter string) url.Values {
	if filter == "" {
		return nil
	}
	return url.Values{"filter": []string{filter}}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
