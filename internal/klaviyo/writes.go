package klaviyo

import (
	"context"
	"net/http"

	"github.com/kurtosis-tech/stacktrace"
)

const maxBulkImportProfiles = 10000

// standardProfileFields are promoted from the properties map onto the profile
// itself; everything else lands under custom properties.
var standardProfileFields = map[string]bool{
	"first_name":   true,
	"last_name":    true,
	"organization": true,
	"title":        true,
	"image":        true,
	"location":     true,
}

// TrackEventParams describe one event to record against a profile.
type TrackEventParams struct {
	// EventName is the metric name, e.g. "Placed Order".
	EventName string

	// Email identifies the profile the event belongs to.
	Email string

	// Properties are arbitrary event properties.
	Properties map[string]any

	// UniqueID deduplicates the event when set.
	UniqueID string
}

// TrackEvent records a custom event for a profile.
func (c *Client) TrackEvent(ctx context.Context, params TrackEventParams) error {
	properties := params.Properties
	if properties == nil {
		properties = map[string]any{}
	}

	attributes := map[string]any{
		"metric": map[string]any{
			"data": map[string]any{
				"type":       "metric",
				"attributes": map[string]any{"name": params.EventName},
			},
		},
		"profile": map[string]any{
			"data": map[string]any{
				"type":       "profile",
				"attributes": map[string]any{"email": params.Email},
			},
		},
		"properties": properties,
	}
	if params.UniqueID != "" {
		attributes["unique_id"] = params.UniqueID
	}

	body := map[string]any{
		"data": map[string]any{
			"type":       "event",
			"attributes": attributes,
		},
	}
	_, err := c.do(ctx, http.MethodPost, "/events/", nil, body)
	return err
}

// UpsertProfile creates or updates a profile keyed by email or phone number.
// Standard fields in properties (first_name, last_name, organization, title,
// image, location) are set directly on the profile; the rest become custom
// properties.
func (c *Client) UpsertProfile(ctx context.Context, email, phone string, properties map[string]any) (Resource, error) {
	attributes := map[string]any{}
	if email != "" {
		attributes["email"] = email
	}
	if phone != "" {
		attributes["phone_number"] = phone
	}

	custom := map[string]any{}
	for key, value := range properties {
		if standardProfileFields[key] {
			attributes[key] = value
		} else {
			custom[key] = value
		}
	}
	if len(custom) > 0 {
		attributes["properties"] = custom
	}

	body := map[string]any{
		"data": map[string]any{
			"type":       "profile",
			"attributes": attributes,
		},
	}
	respBody, err := c.do(ctx, http.MethodPost, "/profiles/", nil, body)
	if err != nil {
		return nil, err
	}
	return decodeSingle(respBody, "/profiles/")
}

// BulkImportResult reports a submitted bulk profile import job.
type BulkImportResult struct {
	JobID             string `json:"job_id"`
	ProfilesSubmitted int    `json:"profiles_submitted"`
}

// BulkImport submits up to 10,000 profiles as one import job, optionally
// subscribing them to a list. Each profile map uses the keys email, phone,
// first_name, and last_name; any other keys become custom properties.
func (c *Client) BulkImport(ctx context.Context, profiles []map[string]string, listID string) (*BulkImportResult, error) {
	if len(profiles) > maxBulkImportProfiles {
		return nil, stacktrace.NewError("bulk import is limited to %d profiles per job, got %d", maxBulkImportProfiles, len(profiles))
	}

	profileData := make([]map[string]any, 0, len(profiles))
	for _, profile := range profiles {
		attributes := map[string]any{}
		if profile["email"] != "" {
			attributes["email"] = profile["email"]
		}
		if profile["phone"] != "" {
			attributes["phone_number"] = profile["phone"]
		}
		if profile["first_name"] != "" {
			attributes["first_name"] = profile["first_name"]
		}
		if profile["last_name"] != "" {
			attributes["last_name"] = profile["last_name"]
		}

		custom := map[string]any{}
		for key, value := range profile {
			switch key {
			case "email", "phone", "first_name", "last_name":
			default:
				custom[key] = value
			}
		}
		if len(custom) > 0 {
			attributes["properties"] = custom
		}

		profileData = append(profileData, map[string]any{
			"type":       "profile",
			"attributes": attributes,
		})
	}

	data := map[string]any{
		"type": "profile-bulk-import-job",
		"attributes": map[string]any{
			"profiles": map[string]any{"data": profileData},
		},
	}
	if listID != "" {
		data["relationships"] = map[string]any{
			"lists": map[string]any{
				"data": []map[string]string{{"type": "list", "id": listID}},
			},
		}
	}

	respBody, err := c.do(ctx, http.MethodPost, "/profile-bulk-import-jobs/", nil, map[string]any{"data": data})
	if err != nil {
		return nil, err
	}
	job, err := decodeSingle(respBody, "/profile-bulk-import-jobs/")
	if err != nil {
		return nil, err
	}
	return &BulkImportResult{
		JobID:             job.ID(),
		ProfilesSubmitted: len(profiles),
	}, nil
}

// GetImportJobStatus returns the state of a bulk profile import job.
func (c *Client) GetImportJobStatus(ctx context.Context, jobID string) (Resource, error) {
	body, err := c.do(ctx, http.MethodGet, "/profile-bulk-import-jobs/"+jobID+"/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeSingle(body, "/profile-bulk-import-jobs/")
}
