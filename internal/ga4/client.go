// Package ga4 is a minimal client for the GA4 Data API (v1beta runReport),
// covering the daily traffic summary the report pipeline stages.
package ga4

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

const (
	defaultBaseURL = "https://analyticsdata.googleapis.com/v1beta"

	propertyIDEnvVar  = "GOOGLE_ANALYTICS_PROPERTY_ID"
	accessTokenEnvVar = "GOOGLE_ANALYTICS_ACCESS_TOKEN"

	// defaultWindowDays matches the GA4 UI's standard reporting window.
	defaultWindowDays = 28
)

// Client calls the GA4 Data API for a single property.
type Client struct {
	propertyID  string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewClient builds a client for the given property. The property ID is the
// numeric GA4 property ID, with or without the "properties/" prefix.
func NewClient(propertyID, accessToken string) *Client {
	return &Client{
		propertyID:  strings.TrimPrefix(propertyID, "properties/"),
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientFromEnv builds a client from GOOGLE_ANALYTICS_PROPERTY_ID and
// GOOGLE_ANALYTICS_ACCESS_TOKEN.
func NewClientFromEnv() (*Client, error) {
	propertyID := os.Getenv(propertyIDEnvVar)
	if propertyID == "" {
		return nil, stacktrace.NewError("%s environment variable not set; set it to the numeric GA4 property ID (Admin > Property Settings)", propertyIDEnvVar)
	}
	accessToken := os.Getenv(accessTokenEnvVar)
	if accessToken == "" {
		return nil, stacktrace.NewError("%s environment variable not set; mint an OAuth access token with the analytics.readonly scope (e.g. gcloud auth print-access-token)", accessTokenEnvVar)
	}
	return NewClient(propertyID, accessToken), nil
}

// DailySummary is one day of site traffic. Values stay as the API returns
// them; the report pipeline stages them verbatim.
type DailySummary struct {
	Date        string `json:"date"`
	Sessions    string `json:"sessions"`
	ActiveUsers string `json:"active_users"`
	BounceRate  string `json:"bounce_rate"`
	Conversions string `json:"conversions"`
}

type runReportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Dimensions []named     `json:"dimensions"`
	Metrics    []named     `json:"metrics"`
	Limit      string      `json:"limit,omitempty"`
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type named struct {
	Name string `json:"name"`
}

type reportValue struct {
	Value string `json:"value"`
}

type reportRow struct {
	DimensionValues []reportValue `json:"dimensionValues"`
	MetricValues    []reportValue `json:"metricValues"`
}

type runReportResponse struct {
	Rows []reportRow `json:"rows"`
}

// TrafficSummary reports sessions, active users, bounce rate, and
// conversions per day over the last days days (ending yesterday, since GA4
// data for the current day is incomplete).
func (c *Client) TrafficSummary(ctx context.Context, days int) ([]DailySummary, error) {
	if days <= 0 {
		days = defaultWindowDays
	}

	request := runReportRequest{
		DateRanges: []dateRange{{StartDate: fmt.Sprintf("%ddaysAgo", days), EndDate: "yesterday"}},
		Dimensions: []named{{Name: "date"}},
		Metrics: []named{
			{Name: "sessions"},
			{Name: "activeUsers"},
			{Name: "bounceRate"},
			{Name: "conversions"},
		},
		Limit: strconv.Itoa(days),
	}

	response, err := c.runReport(ctx, request)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to run the GA4 traffic report")
	}

	summaries := make([]DailySummary, 0, len(response.Rows))
	for _, row := range response.Rows {
		summaries = append(summaries, DailySummary{
			Date:        formatDate(dimensionAt(row, 0)),
			Sessions:    metricAt(row, 0),
			ActiveUsers: metricAt(row, 1),
			BounceRate:  metricAt(row, 2),
			Conversions: metricAt(row, 3),
		})
	}
	return summaries, nil
}

func (c *Client) runReport(ctx context.Context, request runReportRequest) (*runReportResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to serialize the report request")
	}

	url := fmt.Sprintf("%s/properties/%s:runReport", c.baseURL, c.propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to create a request for '%s'", url)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, stacktrace.Propagate(err, "GA4 Data API request failed for property '%s'", c.propertyID)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read the GA4 Data API response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, stacktrace.NewError("GA4 Data API returned %d for property '%s': %s", resp.StatusCode, c.propertyID, truncate(string(body), 300))
	}

	var response runReportResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse the GA4 Data API response")
	}
	return &response, nil
}

func dimensionAt(row reportRow, i int) string {
	if i >= len(row.DimensionValues) {
		return ""
	}
	return row.DimensionValues[i].Value
}

func metricAt(row reportRow, i int) string {
	if i >= len(row.MetricValues) {
		return ""
	}
	return row.MetricValues[i].Value
}

// formatDate turns GA4's YYYYMMDD date dimension into ISO 8601. Anything
// else (e.g. the "(other)" bucket) passes through unchanged.
func formatDate(value string) string {
	if len(value) != 8 {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return value[:4] + "-" + value[4:6] + "-" + value[6:8]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
