// Package analysis runs the classification and scoring heuristics over a
// parsed LinkedIn export: role clustering, industry bucketing, relationship
// tiers, invitation trends, inbox noise classification, career strata,
// high-value message scoring, posting correlation, and summary stats.
package analysis

import (
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// Analysis is the full result document. Key names are the contract the
// HTML templates consume.
type Analysis struct {
	SummaryStats        SummaryStats           `json:"summary_stats"`
	NetworkClusters     []Cluster              `json:"network_clusters"`
	CompanyCategories   []CompanyCategory      `json:"company_categories"`
	RelationshipTiers   TierSummary            `json:"relationship_tiers"`
	InvitationTrends    []MonthlyInvitations   `json:"invitation_trends"`
	InboxClassification []PeriodClassification `json:"inbox_classification"`
	CareerStrata        []Stratum              `json:"career_strata"`
	HighValueMessages   []ScoredMessage        `json:"high_value_messages"`
	PostingCorrelation  PostingCorrelation     `json:"posting_correlation"`
}

// maxHighValueMessages caps the scored-message list in the result document.
const maxHighValueMessages = 25

// AnalyzeAll runs every analysis over the export. Tier cutoffs and recency
// bonuses are measured against now.
func AnalyzeAll(export *linkedin.Export, now time.Time) *Analysis {
	highValue := IdentifyHighValueMessages(export.Messages, export.Connections, now)
	if len(highValue) > maxHighValueMessages {
		highValue = highValue[:maxHighValueMessages]
	}

	return &Analysis{
		SummaryStats:        GenerateSummaryStats(export),
		NetworkClusters:     ClusterNetwork(export.Connections),
		CompanyCategories:   CategorizeCompanies(export.CompanyFollows),
		RelationshipTiers:   SummariseTiers(ScoreMessages(export.Connections, export.Messages, now)),
		InvitationTrends:    AnalyzeInvitations(export.Invitations),
		InboxClassification: ClassifyInbox(export.Messages),
		CareerStrata:        BuildCareerStrata(export.Connections, nil),
		HighValueMessages:   highValue,
		PostingCorrelation:  CorrelatePostingActivity(export.Shares, export.Connections),
	}
}
