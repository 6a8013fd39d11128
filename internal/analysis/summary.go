package analysis

import (
	"math"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// SummaryStats are the aggregate metrics for the dashboard hero section.
type SummaryStats struct {
	TotalConnections    int        `json:"total_connections"`
	TotalMessages       int        `json:"total_messages"`
	TotalConversations  int        `json:"total_conversations"`
	OrphanMessages      int        `json:"orphan_messages"`
	TotalInvitations    int        `json:"total_invitations"`
	InboundInvitations  int        `json:"inbound_invitations"`
	OutboundInvitations int        `json:"outbound_invitations"`
	TotalCompanyFollows int        `json:"total_company_follows"`
	TotalInferences     int        `json:"total_inferences"`
	UniqueCompanies     int        `json:"unique_companies"`
	AdInterests         int        `json:"ad_interests"`
	AdSkills            int        `json:"ad_skills"`
	EarliestConnection  *time.Time `json:"earliest_connection"`
	LatestConnection    *time.Time `json:"latest_connection"`
	NetworkSpanYears    *float64   `json:"network_span_years"`
}

// GenerateSummaryStats computes the aggregate metrics over the export.
// Network span is the earliest-to-latest connection distance in years,
// rounded to one decimal.
func GenerateSummaryStats(export *linkedin.Export) SummaryStats {
	stats := SummaryStats{
		TotalConnections:    len(export.Connections),
		TotalMessages:       len(export.Messages),
		TotalInvitations:    len(export.Invitations),
		TotalCompanyFollows: len(export.CompanyFollows),
		TotalInferences:     len(export.Inferences),
		AdInterests:         len(export.AdTargeting["interests"]),
		AdSkills:            len(export.AdTargeting["skills"]),
	}

	var earliest, latest *time.Time
	uniqueCompanies := make(map[string]struct{})
	for _, conn := range export.Connections {
		if conn.Company != "" {
			uniqueCompanies[conn.Company] = struct{}{}
		}
		if conn.ConnectedOn == nil {
			continue
		}
		if earliest == nil || conn.ConnectedOn.Before(*earliest) {
			earliest = conn.ConnectedOn
		}
		if latest == nil || conn.ConnectedOn.After(*latest) {
			latest = conn.ConnectedOn
		}
	}
	stats.UniqueCompanies = len(uniqueCompanies)
	stats.EarliestConnection = earliest
	stats.LatestConnection = latest
	if earliest != nil && latest != nil {
		days := latest.Sub(*earliest).Hours() / 24
		span := math.Round(days/365.25*10) / 10
		stats.NetworkSpanYears = &span
	}

	conversations := make(map[string]struct{})
	for _, msg := range export.Messages {
		if msg.ConversationID == "" {
			stats.OrphanMessages++
		} else {
			conversations[msg.ConversationID] = struct{}{}
		}
	}
	stats.TotalConversations = len(conversations)

	for _, inv := range export.Invitations {
		switch inv.Direction {
		case linkedin.DirectionInbound:
			stats.InboundInvitations++
		case linkedin.DirectionOutbound:
			stats.OutboundInvitations++
		}
	}

	return stats
}
