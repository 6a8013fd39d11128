package klaviyo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDevTools(t *testing.T, mux *http.ServeMux) *DevTools {
	t.Helper()
	return NewDevTools(newTestClient(t, mux))
}

func healthyAccountMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "M1", "type": "metric", "attributes": {"name": "Placed Order"}},
			{"id": "M2", "type": "metric", "attributes": {"name": "Started Checkout"}},
			{"id": "M3", "type": "metric", "attributes": {"name": "Viewed Product"}},
			{"id": "M4", "type": "metric", "attributes": {"name": "Added to Cart"}},
			{"id": "M5", "type": "metric", "attributes": {"name": "Custom Event"}}
		]}`))
	})
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "P1", "type": "profile", "attributes": {"email": "a@example.com"}}]}`))
	})
	mux.HandleFunc("/catalog-items/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "I1", "type": "catalog-item", "attributes": {"title": "Widget"}}]}`))
	})
	return mux
}

func TestHealthCheckAllPass(t *testing.T) {
	tools := newTestDevTools(t, healthyAccountMux())

	result := tools.HealthCheck(context.Background())
	if result.Status != "healthy" {
		t.Errorf("expected healthy status, got '%s'", result.Status)
	}
	if len(result.Checks) != 5 {
		t.Fatalf("expected 5 checks, got %d: %+v", len(result.Checks), result.Checks)
	}
	for _, check := range result.Checks {
		if check.Status != "pass" {
			t.Errorf("expected check '%s' to pass, got %s (%s)", check.Check, check.Status, check.Detail)
		}
	}
	if len(result.Recommendations) != 1 || result.Recommendations[0].Priority != "INFO" {
		t.Errorf("expected a single INFO recommendation, got %+v", result.Recommendations)
	}
}

func TestHealthCheckFlagsMissingEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "M1", "type": "metric", "attributes": {"name": "Placed Order"}}]}`))
	})
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "P1", "type": "profile", "attributes": {"email": "a@example.com"}}]}`))
	})
	mux.HandleFunc("/catalog-items/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})
	tools := newTestDevTools(t, mux)

	result := tools.HealthCheck(context.Background())
	if result.Status != "degraded" {
		t.Errorf("expected degraded status, got '%s'", result.Status)
	}

	var eventsCheck *HealthCheckItem
	for i := range result.Checks {
		if result.Checks[i].Check == "E-commerce Events" {
			eventsCheck = &result.Checks[i]
		}
	}
	if eventsCheck == nil {
		t.Fatal("expected an E-commerce Events check")
	}
	if eventsCheck.Status != "warning" {
		t.Errorf("expected warning status, got '%s'", eventsCheck.Status)
	}
	if eventsCheck.Detail != "Missing: started checkout, viewed product, added to cart" {
		t.Errorf("unexpected detail '%s'", eventsCheck.Detail)
	}

	foundTrackingRec := false
	for _, rec := range result.Recommendations {
		if rec.Action == "Implement missing e-commerce event tracking" {
			foundTrackingRec = true
		}
	}
	if !foundTrackingRec {
		t.Errorf("expected a tracking recommendation, got %+v", result.Recommendations)
	}
}

func TestHealthCheckConnectivityFailureShortCircuits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors": [{"detail": "invalid key"}]}`))
	})
	tools := newTestDevTools(t, mux)

	result := tools.HealthCheck(context.Background())
	if result.Status != "unhealthy" {
		t.Errorf("expected unhealthy status, got '%s'", result.Status)
	}
	if len(result.Checks) != 1 {
		t.Fatalf("expected only the connectivity check, got %d", len(result.Checks))
	}
	if result.Checks[0].Status != "fail" {
		t.Errorf("expected connectivity failure, got %+v", result.Checks[0])
	}
}

func TestValidateEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "M1", "type": "metric", "attributes": {"name": "Placed Order"}},
			{"id": "M2", "type": "metric", "attributes": {"name": "Custom Event"}}
		]}`))
	})
	tools := newTestDevTools(t, mux)

	validation, err := tools.ValidateEvents(context.Background(), []string{"placed order", "Started Checkout"})
	if err != nil {
		t.Fatalf("ValidateEvents failed: %v", err)
	}

	summary := validation.Summary
	if summary.EventsChecked != 2 || summary.EventsFound != 1 || summary.EventsMissing != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if validation.Results[0].Status != "found" || validation.Results[1].Status != "missing" {
		t.Errorf("unexpected results: %+v", validation.Results)
	}
	if len(validation.AvailableEvents) != 2 || validation.AvailableEvents[1] != "Custom Event" {
		t.Errorf("unexpected available events: %+v", validation.AvailableEvents)
	}
	if len(validation.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(validation.Recommendations))
	}
	if got := validation.Recommendations[0].Action; got != "Implement tracking for 'Started Checkout'" {
		t.Errorf("unexpected recommendation action '%s'", got)
	}
}

func TestTestWebhookSignedDelivery(t *testing.T) {
	var receivedBody []byte
	var receivedSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedBody, _ = io.ReadAll(r.Body)
		receivedSignature = r.Header.Get("X-Klaviyo-Webhook-Signature")
		w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	tools := newTestDevTools(t, http.NewServeMux())
	result := tools.TestWebhook(context.Background(), server.URL, "s3cret")

	if result.Status != "pass" {
		t.Fatalf("expected pass, got '%s' (%s)", result.Status, result.Error)
	}
	if result.ResponseCode != 200 || result.ResponseBody != "ok" {
		t.Errorf("unexpected response fields: %+v", result)
	}
	if !result.SignatureIncluded {
		t.Error("expected signature_included to be true")
	}
	if result.PayloadSize != len(receivedBody) {
		t.Errorf("payload size %d does not match received body %d", result.PayloadSize, len(receivedBody))
	}

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(receivedBody)
	if expected := hex.EncodeToString(mac.Sum(nil)); receivedSignature != expected {
		t.Errorf("signature mismatch: got '%s', want '%s'", receivedSignature, expected)
	}

	var payload struct {
		Type string `json:"type"`
		Data struct {
			Attributes struct {
				MetricName string `json:"metric_name"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to decode delivered payload: %v", err)
	}
	if payload.Type != "test" || payload.Data.Attributes.MetricName != "webhook_test" {
		t.Errorf("unexpected payload: %s", receivedBody)
	}
}

func TestTestWebhookWithoutSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Klaviyo-Webhook-Signature") != "" {
			t.Error("no signature header expected without a secret")
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)

	tools := newTestDevTools(t, http.NewServeMux())
	result := tools.TestWebhook(context.Background(), server.URL, "")

	if result.Status != "pass" || result.SignatureIncluded {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestTestWebhookServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	tools := newTestDevTools(t, http.NewServeMux())
	result := tools.TestWebhook(context.Background(), server.URL, "")

	if result.Status != "fail" {
		t.Errorf("expected fail, got '%s'", result.Status)
	}
	if result.ResponseCode != 500 {
		t.Errorf("expected response code 500, got %d", result.ResponseCode)
	}
	if !strings.Contains(result.Error, "500") {
		t.Errorf("expected error to mention 500, got '%s'", result.Error)
	}
}

func TestTestWebhookConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tools := newTestDevTools(t, http.NewServeMux())
	result := tools.TestWebhook(context.Background(), url, "")

	if result.Status != "fail" {
		t.Errorf("expected fail, got '%s'", result.Status)
	}
	if !strings.Contains(result.Error, "Connection failed") {
		t.Errorf("expected connection failure error, got '%s'", result.Error)
	}
}

func TestImportCSV(t *testing.T) {
	csvFilepath := filepath.Join(t.TempDir(), "contacts.csv")
	csvContent := "email,first_name,vip_tier\na@example.com,Ada,gold\nb@example.com,Bo,silver\n"
	if err := os.WriteFile(csvFilepath, []byte(csvContent), 0644); err != nil {
		t.Fatalf("failed to write CSV fixture: %v", err)
	}

	var captured map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/profile-bulk-import-jobs/", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode import request: %v", err)
		}
		w.Write([]byte(`{"data": {"id": "JOB1", "type": "profile-bulk-import-job", "attributes": {"status": "queued"}}}`))
	})
	tools := newTestDevTools(t, mux)

	var batchCalls int
	result, err := tools.ImportCSV(context.Background(), csvFilepath, "", func(batch, totalBatches, profiles int) {
		batchCalls++
		if batch != 1 || totalBatches != 1 || profiles != 2 {
			t.Errorf("unexpected batch progress: %d/%d with %d profiles", batch, totalBatches, profiles)
		}
	})
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if result.TotalProfiles != 2 || batchCalls != 1 {
		t.Errorf("expected one batch of 2 profiles, got %+v", result)
	}
	if len(result.Batches) != 1 || result.Batches[0].Status != "submitted" || result.Batches[0].JobID != "JOB1" {
		t.Errorf("unexpected batches: %+v", result.Batches)
	}
	if result.Summary.BatchesSubmitted != 1 || result.Summary.ProfilesSubmitted != 2 || result.Summary.BatchesFailed != 0 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	profileData := captured["data"].(map[string]any)["attributes"].(map[string]any)["profiles"].(map[string]any)["data"].([]any)
	if len(profileData) != 2 {
		t.Fatalf("expected 2 profiles submitted, got %d", len(profileData))
	}
	first := profileData[0].(map[string]any)["attributes"].(map[string]any)
	if first["email"] != "a@example.com" || first["first_name"] != "Ada" {
		t.Errorf("unexpected first profile: %+v", first)
	}
	if first["properties"].(map[string]any)["vip_tier"] != "gold" {
		t.Errorf("expected vip_tier as custom property, got %+v", first["properties"])
	}
}

func TestImportCSVRecordsFailedBatches(t *testing.T) {
	csvFilepath := filepath.Join(t.TempDir(), "contacts.csv")
	if err := os.WriteFile(csvFilepath, []byte("email\na@example.com\n"), 0644); err != nil {
		t.Fatalf("failed to write CSV fixture: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/profile-bulk-import-jobs/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"detail": "bad payload"}]}`))
	})
	tools := newTestDevTools(t, mux)

	result, err := tools.ImportCSV(context.Background(), csvFilepath, "", nil)
	if err != nil {
		t.Fatalf("ImportCSV should capture batch failures, got: %v", err)
	}
	if len(result.Batches) != 1 || result.Batches[0].Status != "failed" {
		t.Errorf("expected a failed batch, got %+v", result.Batches)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %+v", result.Errors)
	}
	if result.Summary.BatchesFailed != 1 || result.Summary.ProfilesSubmitted != 0 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}
}

func TestExportDataWritesCSV(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "P1", "type": "profile", "attributes": {"email": "a@example.com", "properties": {"tier": "gold"}}},
			{"id": "P2", "type": "profile", "attributes": {"email": "b@example.com", "properties": {"tier": "silver"}}}
		]}`))
	})
	tools := newTestDevTools(t, mux)

	outputFilepath := filepath.Join(t.TempDir(), "profiles.csv")
	summary, err := tools.ExportData(context.Background(), "profiles", outputFilepath, 0)
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if summary.RecordsExported != 2 {
		t.Errorf("expected 2 records exported, got %d", summary.RecordsExported)
	}

	file, err := os.Open(outputFilepath)
	if err != nil {
		t.Fatalf("failed to open exported CSV: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse exported CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	expectedHeader := []string{"id", "type", "email", "properties"}
	for i, column := range expectedHeader {
		if rows[0][i] != column {
			t.Errorf("header column %d: expected '%s', got '%s'", i, column, rows[0][i])
		}
	}
	if rows[1][0] != "P1" || rows[1][2] != "a@example.com" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[1][3] != `{"tier":"gold"}` {
		t.Errorf("expected nested values JSON-encoded, got '%s'", rows[1][3])
	}
}

func TestExportDataMaxRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "P1", "type": "profile", "attributes": {"email": "a@example.com"}},
			{"id": "P2", "type": "profile", "attributes": {"email": "b@example.com"}}
		], "links": {"next": "https://a.klaviyo.com/api/profiles/?page%5Bcursor%5D=more"}}`))
	})
	tools := newTestDevTools(t, mux)

	summary, err := tools.ExportData(context.Background(), "profiles", "", 1)
	if err != nil {
		t.Fatalf("ExportData failed: %v", err)
	}
	if summary.RecordsExported != 1 {
		t.Errorf("expected export capped at 1 record, got %d", summary.RecordsExported)
	}
}

func TestExportDataUnsupportedResource(t *testing.T) {
	tools := newTestDevTools(t, http.NewServeMux())

	if _, err := tools.ExportData(context.Background(), "orders", "", 0); err == nil {
		t.Fatal("expected an error for an unsupported resource")
	}
	if _, err := tools.ExportData(context.Background(), "events", "", 0); err == nil {
		t.Fatal("expected an error for event export")
	}
}
