package klaviyo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kurtosis-tech/stacktrace"
)

const importBatchSize = 10000

// essentialEvents are the e-commerce events every integration should track.
var essentialEvents = []string{
	"placed order",
	"started checkout",
	"viewed product",
	"added to cart",
}

// DevTools bundles integration management utilities on top of the API
// client.
type DevTools struct {
	client        *Client
	webhookClient *http.Client
}

// NewDevTools builds dev tools on top of an API client.
func NewDevTools(client *Client) *DevTools {
	return &DevTools{
		client: client,
		webhookClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HealthCheckItem is one check's outcome: pass, warning, or fail.
type HealthCheckItem struct {
	Check  string `json:"check"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// HealthCheckResult reports integration health: healthy, degraded, or
// unhealthy.
type HealthCheckResult struct {
	Timestamp       string            `json:"timestamp"`
	Checks          []HealthCheckItem `json:"checks"`
	Status          string            `json:"status"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
}

// HealthCheck verifies API connectivity, key scopes, and event coverage.
// A connectivity failure short-circuits the remaining checks.
func (d *DevTools) HealthCheck(ctx context.Context) *HealthCheckResult {
	result := &HealthCheckResult{
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    "healthy",
	}

	metrics, err := d.client.GetMetrics(ctx)
	if err != nil {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "API Connectivity",
			Status: "fail",
			Detail: fmt.Sprintf("Failed to connect: %v", err),
		})
		result.Status = "unhealthy"
		return result
	}
	result.Checks = append(result.Checks, HealthCheckItem{
		Check:  "API Connectivity",
		Status: "pass",
		Detail: "Successfully connected to Klaviyo API",
	})

	if _, err := d.client.ExportProfiles(ctx, 1, 1, nil); err != nil {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "Profile Read Scope",
			Status: "fail",
			Detail: fmt.Sprintf("profiles:read may not be enabled: %v", err),
		})
	} else {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "Profile Read Scope",
			Status: "pass",
			Detail: "profiles:read scope verified",
		})
	}

	result.Checks = append(result.Checks, HealthCheckItem{
		Check:  "Metrics Available",
		Status: "pass",
		Detail: fmt.Sprintf("%d event types found", len(metrics)),
	})

	metricNames := map[string]bool{}
	for _, metric := range metrics {
		metricNames[strings.ToLower(metric.Name())] = true
	}
	var missingEvents []string
	for _, event := range essentialEvents {
		if !metricNames[event] {
			missingEvents = append(missingEvents, event)
		}
	}
	if len(missingEvents) > 0 {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "E-commerce Events",
			Status: "warning",
			Detail: "Missing: " + strings.Join(missingEvents, ", "),
		})
	} else {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "E-commerce Events",
			Status: "pass",
			Detail: fmt.Sprintf("All %d essential events present", len(essentialEvents)),
		})
	}

	if catalog, err := d.client.GetCatalogItems(ctx, ""); err != nil {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "Catalog Access",
			Status: "warning",
			Detail: fmt.Sprintf("catalogs:read may not be enabled: %v", err),
		})
	} else {
		result.Checks = append(result.Checks, HealthCheckItem{
			Check:  "Catalog Access",
			Status: "pass",
			Detail: fmt.Sprintf("catalogs:read verified (%d items found)", len(catalog)),
		})
	}

	hasFail, hasWarning := false, false
	for _, check := range result.Checks {
		switch check.Status {
		case "fail":
			hasFail = true
		case "warning":
			hasWarning = true
		}
	}
	if hasFail {
		result.Status = "unhealthy"
	} else if hasWarning {
		result.Status = "degraded"
	}

	result.Recommendations = recommendHealthFixes(result.Checks)
	return result
}

func recommendHealthFixes(checks []HealthCheckItem) []Recommendation {
	var recommendations []Recommendation

	for _, check := range checks {
		nameLower := strings.ToLower(check.Check)
		switch check.Status {
		case "fail":
			if strings.Contains(nameLower, "connectivity") {
				recommendations = append(recommendations, Recommendation{
					Priority:       "CRITICAL",
					Action:         "Fix API authentication",
					Reason:         check.Detail,
					ExpectedImpact: "Restore all Klaviyo integrations",
				})
			} else if strings.Contains(nameLower, "scope") {
				recommendations = append(recommendations, Recommendation{
					Priority:       "HIGH",
					Action:         fmt.Sprintf("Enable missing scope for %s", check.Check),
					Reason:         check.Detail,
					ExpectedImpact: "Restore access to this resource",
				})
			}
		case "warning":
			if strings.Contains(nameLower, "events") {
				recommendations = append(recommendations, Recommendation{
					Priority:       "HIGH",
					Action:         "Implement missing e-commerce event tracking",
					Reason:         check.Detail,
					ExpectedImpact: "Enable automated flows for missing events",
				})
			}
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "INFO",
			Action:         "All health checks passed",
			Reason:         "Integration is healthy",
			ExpectedImpact: "Continue monitoring",
		})
	}
	return recommendations
}

// EventCheck is one expected event's validation outcome.
type EventCheck struct {
	Event  string `json:"event"`
	Status string `json:"status"`
}

// EventValidationSummary totals the validation outcomes.
type EventValidationSummary struct {
	EventsChecked int `json:"events_checked"`
	EventsFound   int `json:"events_found"`
	EventsMissing int `json:"events_missing"`
}

// EventValidation reports which expected events exist in the account.
type EventValidation struct {
	Summary         EventValidationSummary `json:"summary"`
	Results         []EventCheck           `json:"results"`
	AvailableEvents []string               `json:"available_events"`
	Recommendations []Recommendation       `json:"recommendations"`
}

// ValidateEvents checks that the named events exist as metrics in the
// account. Matching is case-insensitive.
func (d *DevTools) ValidateEvents(ctx context.Context, eventNames []string) (*EventValidation, error) {
	metrics, err := d.client.GetMetrics(ctx)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch metrics")
	}

	available := make([]string, 0, len(metrics))
	availableLower := map[string]bool{}
	for _, metric := range metrics {
		available = append(available, metric.Name())
		availableLower[strings.ToLower(metric.Name())] = true
	}

	results := make([]EventCheck, 0, len(eventNames))
	foundCount := 0
	for _, event := range eventNames {
		status := "missing"
		if availableLower[strings.ToLower(event)] {
			status = "found"
			foundCount++
		}
		results = append(results, EventCheck{Event: event, Status: status})
	}

	return &EventValidation{
		Summary: EventValidationSummary{
			EventsChecked: len(eventNames),
			EventsFound:   foundCount,
			EventsMissing: len(eventNames) - foundCount,
		},
		Results:         results,
		AvailableEvents: available,
		Recommendations: recommendEventFixes(results),
	}, nil
}

func recommendEventFixes(results []EventCheck) []Recommendation {
	var recommendations []Recommendation
	for _, result := range results {
		if result.Status != "missing" {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         fmt.Sprintf("Implement tracking for '%s'", result.Event),
			Reason:         fmt.Sprintf("Event '%s' not found in Klaviyo", result.Event),
			ExpectedImpact: "Enable flows and segments triggered by this event",
		})
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "INFO",
			Action:         "All expected events are being tracked",
			Reason:         "Event validation passed",
			ExpectedImpact: "Continue monitoring event freshness",
		})
	}
	return recommendations
}

// WebhookTestResult reports a test delivery to a webhook endpoint. Failures
// are captured in the struct, not returned as errors.
type WebhookTestResult struct {
	URL               string `json:"url"`
	PayloadSize       int    `json:"payload_size"`
	SignatureIncluded bool   `json:"signature_included"`
	Status            string `json:"status"`
	ResponseCode      int    `json:"response_code,omitempty"`
	ResponseBody      string `json:"response_body,omitempty"`
	Error             string `json:"error,omitempty"`
}

// TestWebhook POSTs a signed test payload to a webhook endpoint and reports
// the outcome. When secret is set the payload is signed with HMAC-SHA256 in
// the X-Klaviyo-Webhook-Signature header.
func (d *DevTools) TestWebhook(ctx context.Context, webhookURL, secret string) *WebhookTestResult {
	payload, _ := json.Marshal(map[string]any{
		"type": "test",
		"data": map[string]any{
			"type": "event",
			"attributes": map[string]any{
				"metric_name": "webhook_test",
				"timestamp":   time.Now().Format(time.RFC3339),
				"properties":  map[string]string{"source": "skillkit-dev-tools"},
			},
		},
	})

	result := &WebhookTestResult{
		URL:               webhookURL,
		PayloadSize:       len(payload),
		SignatureIncluded: secret != "",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		result.Status = "fail"
		result.Error = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(payload)
		req.Header.Set("X-Klaviyo-Webhook-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := d.webhookClient.Do(req)
	if err != nil {
		result.Status = "fail"
		result.Error = fmt.Sprintf("Connection failed: %v", err)
		return result
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	result.ResponseCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		result.Status = "fail"
		result.Error = fmt.Sprintf("webhook returned HTTP %d", resp.StatusCode)
		return result
	}
	result.Status = "pass"
	result.ResponseBody = truncate(string(body), 500)
	return result
}

// CSVImportBatch is one submitted or failed import batch.
type CSVImportBatch struct {
	Batch    int    `json:"batch"`
	Profiles int    `json:"profiles"`
	Status   string `json:"status"`
	JobID    string `json:"job_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CSVImportSummary totals the batch outcomes.
type CSVImportSummary struct {
	BatchesSubmitted  int `json:"batches_submitted"`
	BatchesFailed     int `json:"batches_failed"`
	ProfilesSubmitted int `json:"profiles_submitted"`
}

// CSVImportResult reports a batched CSV profile import.
type CSVImportResult struct {
	File          string           `json:"file"`
	TotalProfiles int              `json:"total_profiles"`
	Batches       []CSVImportBatch `json:"batches"`
	Errors        []string         `json:"errors"`
	Summary       CSVImportSummary `json:"summary"`
}

// ImportCSV reads profiles from a CSV file and submits them as bulk import
// jobs of up to 10,000 profiles each. Batch progress is reported through
// onBatch when non-nil. A failed batch doesn't stop the remaining ones.
func (d *DevTools) ImportCSV(ctx context.Context, csvFilepath, listID string, onBatch func(batch, totalBatches, profiles int)) (*CSVImportResult, error) {
	profiles, err := readProfilesCSV(csvFilepath)
	if err != nil {
		return nil, err
	}

	total := len(profiles)
	totalBatches := (total + importBatchSize - 1) / importBatchSize
	result := &CSVImportResult{
		File:          csvFilepath,
		TotalProfiles: total,
		Batches:       []CSVImportBatch{},
		Errors:        []string{},
	}

	for start := 0; start < total; start += importBatchSize {
		end := start + importBatchSize
		if end > total {
			end = total
		}
		batch := profiles[start:end]
		batchNum := start/importBatchSize + 1
		if onBatch != nil {
			onBatch(batchNum, totalBatches, len(batch))
		}

		submitted, err := d.client.BulkImport(ctx, batch, listID)
		if err != nil {
			result.Batches = append(result.Batches, CSVImportBatch{
				Batch:    batchNum,
				Profiles: len(batch),
				Status:   "failed",
				Error:    err.Error(),
			})
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Batches = append(result.Batches, CSVImportBatch{
			Batch:    batchNum,
			Profiles: len(batch),
			Status:   "submitted",
			JobID:    submitted.JobID,
		})
	}

	for _, batch := range result.Batches {
		if batch.Status == "submitted" {
			result.Summary.BatchesSubmitted++
			result.Summary.ProfilesSubmitted += batch.Profiles
		} else {
			result.Summary.BatchesFailed++
		}
	}
	return result, nil
}

func readProfilesCSV(csvFilepath string) ([]map[string]string, error) {
	file, err := os.Open(csvFilepath)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open '%s'", csvFilepath)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read CSV header from '%s'", csvFilepath)
	}

	var profiles []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stacktrace.Propagate(err, "failed to read CSV row from '%s'", csvFilepath)
		}
		profile := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				profile[name] = record[i]
			}
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// ExportSummary reports a completed data export.
type ExportSummary struct {
	Resource        string `json:"resource"`
	RecordsExported int    `json:"records_exported"`
	OutputFile      string `json:"output_file,omitempty"`
}

// ExportData exports a resource collection, optionally writing it as CSV.
// Supported resources are profiles and catalog. maxRecords of 0 means no
// limit.
func (d *DevTools) ExportData(ctx context.Context, resource, outputFilepath string, maxRecords int) (*ExportSummary, error) {
	maxPages := 0
	if maxRecords > 0 {
		maxPages = (maxRecords + maxPageSize - 1) / maxPageSize
	}

	var data []Resource
	var err error
	switch resource {
	case "profiles":
		data, err = d.client.ExportProfiles(ctx, maxPageSize, maxPages, nil)
	case "catalog":
		data, err = d.client.GetCatalogItems(ctx, "")
	case "events":
		return nil, stacktrace.NewError("event export requires the metric aggregation API; export profiles or catalog instead")
	default:
		return nil, stacktrace.NewError("unsupported resource type '%s' (use profiles or catalog)", resource)
	}
	if err != nil {
		return nil, err
	}

	if maxRecords > 0 && len(data) > maxRecords {
		data = data[:maxRecords]
	}

	if outputFilepath != "" && len(data) > 0 {
		if err := writeResourcesCSV(outputFilepath, data); err != nil {
			return nil, err
		}
	}

	return &ExportSummary{
		Resource:        resource,
		RecordsExported: len(data),
		OutputFile:      outputFilepath,
	}, nil
}

// writeResourcesCSV writes resources with columns id, type, then the union
// of attribute keys sorted alphabetically. Nested values are JSON-encoded.
func writeResourcesCSV(outputFilepath string, resources []Resource) error {
	keySet := map[string]bool{}
	for _, resource := range resources {
		for key := range resource {
			keySet[key] = true
		}
	}
	delete(keySet, "id")
	delete(keySet, "type")
	attrKeys := make([]string, 0, len(keySet))
	for key := range keySet {
		attrKeys = append(attrKeys, key)
	}
	sort.Strings(attrKeys)
	columns := append([]string{"id", "type"}, attrKeys...)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(columns); err != nil {
		return stacktrace.Propagate(err, "failed to write CSV header")
	}
	for _, resource := range resources {
		row := make([]string, len(columns))
		for i, column := range columns {
			cell, err := cellString(resource[column])
			if err != nil {
				return err
			}
			row[i] = cell
		}
		if err := writer.Write(row); err != nil {
			return stacktrace.Propagate(err, "failed to write CSV row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return stacktrace.Propagate(err, "failed to flush CSV")
	}

	if err := os.WriteFile(outputFilepath, buf.Bytes(), 0644); err != nil {
		return stacktrace.Propagate(err, "failed to write '%s'", outputFilepath)
	}
	return nil
}

func cellString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", stacktrace.Propagate(err, "failed to encode CSV cell value")
		}
		return string(encoded), nil
	}
}
