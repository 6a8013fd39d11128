package klaviyo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kurtosis-tech/stacktrace"
)

// campaignReportCap bounds how many campaigns get a per-campaign report
// query; each report is its own API call.
const campaignReportCap = 20

type essentialFlow struct {
	name     string
	trigger  string
	priority string
}

// essentialFlows is the checklist every e-commerce account is audited
// against.
var essentialFlows = []essentialFlow{
	{name: "Welcome Series", trigger: "List Subscribe", priority: "CRITICAL"},
	{name: "Abandoned Cart", trigger: "Started Checkout", priority: "CRITICAL"},
	{name: "Browse Abandonment", trigger: "Viewed Product", priority: "HIGH"},
	{name: "Post-Purchase", trigger: "Placed Order", priority: "CRITICAL"},
	{name: "Winback", trigger: "Time Since Last Purchase", priority: "HIGH"},
	{name: "Sunset/Re-engagement", trigger: "Engagement Date", priority: "HIGH"},
	{name: "Review Request", trigger: "Fulfilled Order", priority: "MEDIUM"},
	{name: "Replenishment", trigger: "Predicted Next Order", priority: "MEDIUM"},
	{name: "Birthday/Anniversary", trigger: "Date Property", priority: "LOW"},
	{name: "VIP/Loyalty", trigger: "Segment Entry", priority: "MEDIUM"},
}

// alternateFlowNames maps checklist entries to common alternate namings,
// checked when the exact keywords don't match.
var alternateFlowNames = map[string][]string{
	"welcome series":       {"welcome", "onboarding"},
	"abandoned cart":       {"abandon", "cart recovery", "checkout abandon"},
	"browse abandonment":   {"browse abandon", "viewed product"},
	"post-purchase":        {"post purchase", "thank you", "order follow"},
	"winback":              {"win back", "win-back", "lapsed", "re-engage"},
	"sunset/re-engagement": {"sunset", "re-engagement", "sunsetting"},
	"review request":       {"review", "feedback request"},
	"replenishment":        {"replenish", "reorder", "restock"},
	"birthday/anniversary": {"birthday", "anniversary", "bday"},
	"vip/loyalty":          {"vip", "loyalty", "high value"},
}

// flowImpactEstimates give the expected revenue impact of adding each missing
// essential flow.
var flowImpactEstimates = map[string]string{
	"Welcome Series":       "10-15% of total email revenue",
	"Abandoned Cart":       "15-25% of total email revenue",
	"Browse Abandonment":   "5-10% of total email revenue",
	"Post-Purchase":        "8-12% of total email revenue",
	"Winback":              "5-8% of total email revenue",
	"Sunset/Re-engagement": "Protect deliverability, reduce costs",
	"Review Request":       "Indirect: increases social proof and conversion",
	"Replenishment":        "5-10% of total email revenue (if applicable)",
	"Birthday/Anniversary": "2-5% of total email revenue",
	"VIP/Loyalty":          "3-8% of total email revenue from high-value segment",
}

type benchmark struct {
	good    float64
	great   float64
	warning float64
}

// benchmarks are industry reference rates for e-commerce email, expressed as
// fractions.
var benchmarks = map[string]benchmark{
	"open_rate":           {good: 0.20, great: 0.30, warning: 0.15},
	"click_rate":          {good: 0.02, great: 0.04, warning: 0.015},
	"unsubscribe_rate":    {good: 0.003, great: 0.001, warning: 0.005},
	"spam_complaint_rate": {good: 0.0005, great: 0.0002, warning: 0.001},
	"flow_revenue_pct":    {good: 0.30, great: 0.50, warning: 0.20},
	"bounce_rate":         {good: 0.02, great: 0.01, warning: 0.05},
	"list_growth_rate":    {good: 0.03, great: 0.08, warning: 0.01},
}

// lowerIsBetter lists the metrics where a smaller value is the better one.
var lowerIsBetter = map[string]bool{
	"unsubscribe_rate":    true,
	"spam_complaint_rate": true,
	"bounce_rate":         true,
}

// Auditor runs account-level analyses over data fetched from the Klaviyo
// API.
type Auditor struct {
	client *Client
}

// NewAuditor builds an auditor on top of an API client.
func NewAuditor(client *Client) *Auditor {
	return &Auditor{client: client}
}

// Recommendation is one prioritized action item produced by an analysis.
type Recommendation struct {
	Priority       string `json:"priority"`
	Action         string `json:"action"`
	Reason         string `json:"reason"`
	ExpectedImpact string `json:"expected_impact"`
}

// MetricAssessment rates a metric value against its benchmark. Value and the
// benchmark fields are percentages.
type MetricAssessment struct {
	Rating         string  `json:"rating"`
	Value          float64 `json:"value"`
	BenchmarkGood  float64 `json:"benchmark_good,omitempty"`
	BenchmarkGreat float64 `json:"benchmark_great,omitempty"`
}

// ChecklistItem is one essential flow checked against the account's flows.
type ChecklistItem struct {
	Flow     string `json:"flow"`
	Trigger  string `json:"trigger"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// FlowInfo is a flow's identity as reported in the audit.
type FlowInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	ID     string `json:"id"`
}

// FlowAuditSummary totals the flow inventory and checklist coverage.
type FlowAuditSummary struct {
	TotalFlows       int    `json:"total_flows"`
	ActiveFlows      int    `json:"active_flows"`
	InactiveFlows    int    `json:"inactive_flows"`
	EssentialFound   int    `json:"essential_found"`
	EssentialMissing int    `json:"essential_missing"`
	CoverageScore    string `json:"coverage_score"`
}

// FlowAudit is the result of checking an account against the essential flows
// checklist.
type FlowAudit struct {
	Summary         FlowAuditSummary `json:"summary"`
	Checklist       []ChecklistItem  `json:"checklist"`
	AllFlows        []FlowInfo       `json:"all_flows"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AuditFlows checks the account's flows against the essential flows
// checklist and reports gaps.
func (a *Auditor) AuditFlows(ctx context.Context) (*FlowAudit, error) {
	flows, err := a.client.GetFlows(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch flows")
	}

	flowNamesLower := make([]string, 0, len(flows))
	for _, flow := range flows {
		flowNamesLower = append(flowNamesLower, strings.ToLower(flow.Name()))
	}

	checklist := make([]ChecklistItem, 0, len(essentialFlows))
	foundCount := 0
	for _, essential := range essentialFlows {
		status := "missing"
		if matchesEssentialFlow(essential.name, flowNamesLower) {
			status = "found"
			foundCount++
		}
		checklist = append(checklist, ChecklistItem{
			Flow:     essential.name,
			Trigger:  essential.trigger,
			Priority: essential.priority,
			Status:   status,
		})
	}

	activeCount := 0
	allFlows := make([]FlowInfo, 0, len(flows))
	for _, flow := range flows {
		if flow.Status() == "live" {
			activeCount++
		}
		allFlows = append(allFlows, FlowInfo{
			Name:   flow.Name(),
			Status: flow.Status(),
			ID:     flow.ID(),
		})
	}

	return &FlowAudit{
		Summary: FlowAuditSummary{
			TotalFlows:       len(flows),
			ActiveFlows:      activeCount,
			InactiveFlows:    len(flows) - activeCount,
			EssentialFound:   foundCount,
			EssentialMissing: len(essentialFlows) - foundCount,
			CoverageScore:    fmt.Sprintf("%d/%d", foundCount, len(essentialFlows)),
		},
		Checklist:       checklist,
		AllFlows:        allFlows,
		Recommendations: recommendFlowImprovements(checklist),
	}, nil
}

// matchesEssentialFlow reports whether any account flow name matches the
// essential flow: either every keyword of the essential name appears in the
// flow name, or one of the known alternate names does.
func matchesEssentialFlow(essentialName string, flowNamesLower []string) bool {
	keywords := strings.Fields(strings.ToLower(essentialName))
	for _, flowName := range flowNamesLower {
		matchedAll := true
		for _, keyword := range keywords {
			if !strings.Contains(flowName, keyword) {
				matchedAll = false
				break
			}
		}
		if matchedAll {
			return true
		}
	}

	for _, alt := range alternateFlowNames[strings.ToLower(essentialName)] {
		for _, flowName := range flowNamesLower {
			if strings.Contains(flowName, alt) {
				return true
			}
		}
	}
	return false
}

func recommendFlowImprovements(checklist []ChecklistItem) []Recommendation {
	var recommendations []Recommendation
	for _, item := range checklist {
		if item.Status != "missing" {
			continue
		}
		impact := flowImpactEstimates[item.Flow]
		if impact == "" {
			impact = "Incremental revenue improvement"
		}
		recommendations = append(recommendations, Recommendation{
			Priority:       item.Priority,
			Action:         fmt.Sprintf("Create %s flow", item.Flow),
			Reason:         fmt.Sprintf("Missing essential flow (trigger: %s)", item.Trigger),
			ExpectedImpact: impact,
		})
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "INFO",
			Action:         "All essential flows present",
			Reason:         "Focus on optimizing existing flows",
			ExpectedImpact: "Incremental 10-20% improvement per flow",
		})
	}
	return recommendations
}

// engagementTierOrder fixes tier precedence; the first tier whose keywords
// match wins.
var engagementTierOrder = []string{"active", "warm", "at_risk", "lapsed", "suppression"}

var engagementTierKeywords = map[string][]string{
	"active":      {"active", "engaged", "30 day", "30d", "recent"},
	"warm":        {"warm", "60 day", "90 day", "60d", "90d"},
	"at_risk":     {"at risk", "at-risk", "cooling", "fading"},
	"lapsed":      {"lapsed", "inactive", "unengaged", "180 day", "180d"},
	"suppression": {"suppress", "sunset", "never engaged", "do not"},
}

var rfmKeywords = []string{"rfm", "recency", "frequency", "monetary", "clv", "ltv"}

var predictiveKeywords = []string{"predicted", "churn", "next order", "likely to"}

// SegmentTier is one engagement tier and the segments assigned to it.
type SegmentTier struct {
	Count    int      `json:"count"`
	Segments []string `json:"segments"`
}

// ListInfo is a list's identity as reported in the segment analysis.
type ListInfo struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// SegmentHealthSummary totals the segment inventory and strategy coverage.
type SegmentHealthSummary struct {
	TotalSegments         int  `json:"total_segments"`
	TotalLists            int  `json:"total_lists"`
	HasEngagementTiers    bool `json:"has_engagement_tiers"`
	HasRFMSegments        bool `json:"has_rfm_segments"`
	HasPredictiveSegments bool `json:"has_predictive_segments"`
	HasSuppressionSegment bool `json:"has_suppression_segment"`
}

// SegmentHealth is the result of assessing the account's segmentation
// strategy.
type SegmentHealth struct {
	Summary         SegmentHealthSummary   `json:"summary"`
	EngagementTiers map[string]SegmentTier `json:"engagement_tiers"`
	Lists           []ListInfo             `json:"lists"`
	Recommendations []Recommendation       `json:"recommendations"`
}

// AnalyzeSegments categorizes segments into engagement tiers and checks for
// RFM, predictive, and suppression segments.
func (a *Auditor) AnalyzeSegments(ctx context.Context) (*SegmentHealth, error) {
	segments, err := a.client.GetSegments(ctx)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch segments")
	}
	lists, err := a.client.GetLists(ctx)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch lists")
	}

	tiers := map[string][]string{"other": {}}
	for _, tier := range engagementTierOrder {
		tiers[tier] = []string{}
	}
	for _, segment := range segments {
		tier := classifySegment(strings.ToLower(segment.Name()))
		tiers[tier] = append(tiers[tier], segment.Name())
	}

	hasRFM := anySegmentMatches(segments, rfmKeywords)
	hasPredictive := anySegmentMatches(segments, predictiveKeywords)

	tierResults := make(map[string]SegmentTier, len(tiers))
	for tier, names := range tiers {
		tierResults[tier] = SegmentTier{Count: len(names), Segments: names}
	}

	listInfos := make([]ListInfo, 0, len(lists))
	for _, list := range lists {
		listInfos = append(listInfos, ListInfo{Name: list.Name(), ID: list.ID()})
	}

	return &SegmentHealth{
		Summary: SegmentHealthSummary{
			TotalSegments:         len(segments),
			TotalLists:            len(lists),
			HasEngagementTiers:    len(tiers["active"]) > 0 || len(tiers["warm"]) > 0,
			HasRFMSegments:        hasRFM,
			HasPredictiveSegments: hasPredictive,
			HasSuppressionSegment: len(tiers["suppression"]) > 0,
		},
		EngagementTiers: tierResults,
		Lists:           listInfos,
		Recommendations: recommendSegmentImprovements(tiers, hasRFM, hasPredictive),
	}, nil
}

func classifySegment(nameLower string) string {
	for _, tier := range engagementTierOrder {
		for _, keyword := range engagementTierKeywords[tier] {
			if strings.Contains(nameLower, keyword) {
				return tier
			}
		}
	}
	return "other"
}

func anySegmentMatches(segments []Resource, keywords []string) bool {
	for _, segment := range segments {
		nameLower := strings.ToLower(segment.Name())
		for _, keyword := range keywords {
			if strings.Contains(nameLower, keyword) {
				return true
			}
		}
	}
	return false
}

func recommendSegmentImprovements(tiers map[string][]string, hasRFM, hasPredictive bool) []Recommendation {
	var recommendations []Recommendation

	if len(tiers["active"]) == 0 && len(tiers["warm"]) == 0 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Create engagement tier segments",
			Reason:         "No engagement-based segmentation found",
			ExpectedImpact: "20-30% improvement in campaign targeting",
		})
	}
	if len(tiers["suppression"]) == 0 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Create suppression segment",
			Reason:         "No suppression segment for unengaged contacts",
			ExpectedImpact: "Protect deliverability, reduce costs",
		})
	}
	if !hasRFM {
		recommendations = append(recommendations, Recommendation{
			Priority:       "MEDIUM",
			Action:         "Implement RFM segmentation",
			Reason:         "No RFM-based segments detected",
			ExpectedImpact: "15-25% lift in campaign revenue",
		})
	}
	if !hasPredictive {
		recommendations = append(recommendations, Recommendation{
			Priority:       "MEDIUM",
			Action:         "Enable predictive segments",
			Reason:         "Not using Klaviyo predictive analytics (CLV, churn risk)",
			ExpectedImpact: "10-20% better targeting for winback and VIP flows",
		})
	}
	return recommendations
}

// CampaignInfo is a campaign's identity as reported in the comparison.
type CampaignInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CampaignComparisonSummary totals the campaigns analyzed.
type CampaignComparisonSummary struct {
	TotalCampaigns    int     `json:"total_campaigns"`
	CampaignsAnalyzed int     `json:"campaigns_analyzed"`
	TotalRecipients   int     `json:"total_recipients"`
	TotalRevenue      float64 `json:"total_revenue"`
}

// CampaignComparison is the result of comparing recent campaign performance
// against benchmarks. AggregateMetrics values are percentages.
type CampaignComparison struct {
	Period           string                      `json:"period"`
	Summary          CampaignComparisonSummary   `json:"summary"`
	AggregateMetrics map[string]float64          `json:"aggregate_metrics"`
	Assessments      map[string]MetricAssessment `json:"benchmark_assessment"`
	Campaigns        []CampaignInfo              `json:"campaigns"`
	Recommendations  []Recommendation            `json:"recommendations"`
}

// CompareCampaigns aggregates recent campaign statistics and rates them
// against benchmarks. Per-campaign report failures are tolerated; those
// campaigns are listed without contributing to the aggregates.
func (a *Auditor) CompareCampaigns(ctx context.Context, days int) (*CampaignComparison, error) {
	campaigns, err := a.client.GetCampaigns(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch campaigns")
	}

	capped := campaigns
	if len(capped) > campaignReportCap {
		capped = capped[:campaignReportCap]
	}

	type campaignReport struct {
		name   string
		status string
		stats  ReportStats
	}
	var reports []campaignReport
	for _, campaign := range capped {
		if campaign.ID() == "" {
			continue
		}
		stats, err := a.client.GetCampaignReport(ctx, campaign.ID())
		if err != nil {
			reports = append(reports, campaignReport{name: campaign.Name(), status: campaign.Status()})
			continue
		}
		if len(stats) == 0 {
			continue
		}
		reports = append(reports, campaignReport{name: campaign.Name(), status: campaign.Status(), stats: stats})
	}

	var totalRecipients, totalOpens, totalClicks, totalBounces, totalUnsubscribes, totalComplaints, totalRevenue float64
	analyzed := 0
	for _, report := range reports {
		recipients := report.stats.Get("recipients")
		if recipients <= 0 {
			continue
		}
		analyzed++
		totalRecipients += recipients
		totalOpens += report.stats.Get("unique_opens")
		totalClicks += report.stats.Get("unique_clicks")
		totalBounces += report.stats.Get("bounces")
		totalUnsubscribes += report.stats.Get("unsubscribes")
		totalComplaints += report.stats.Get("spam_complaints")
		totalRevenue += report.stats.Get("revenue")
	}

	rates := map[string]float64{
		"open_rate":           0,
		"click_rate":          0,
		"bounce_rate":         0,
		"unsubscribe_rate":    0,
		"spam_complaint_rate": 0,
	}
	if totalRecipients > 0 {
		rates["open_rate"] = totalOpens / totalRecipients
		rates["click_rate"] = totalClicks / totalRecipients
		rates["bounce_rate"] = totalBounces / totalRecipients
		rates["unsubscribe_rate"] = totalUnsubscribes / totalRecipients
		rates["spam_complaint_rate"] = totalComplaints / totalRecipients
	}

	aggregates := make(map[string]float64, len(rates))
	assessments := make(map[string]MetricAssessment, len(rates))
	for name, value := range rates {
		aggregates[name] = round2(value * 100)
		assessments[name] = assessMetric(name, value)
	}

	campaignInfos := make([]CampaignInfo, 0, len(reports))
	for _, report := range reports {
		campaignInfos = append(campaignInfos, CampaignInfo{Name: report.name, Status: report.status})
	}

	return &CampaignComparison{
		Period: fmt.Sprintf("Last %d days", days),
		Summary: CampaignComparisonSummary{
			TotalCampaigns:    len(campaigns),
			CampaignsAnalyzed: analyzed,
			TotalRecipients:   int(totalRecipients),
			TotalRevenue:      round2(totalRevenue),
		},
		AggregateMetrics: aggregates,
		Assessments:      assessments,
		Campaigns:        campaignInfos,
		Recommendations:  recommendCampaignImprovements(rates, assessments),
	}, nil
}

func recommendCampaignImprovements(rates map[string]float64, assessments map[string]MetricAssessment) []Recommendation {
	var recommendations []Recommendation

	if needsWork(assessments["open_rate"]) {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Improve subject lines and sender reputation",
			Reason:         fmt.Sprintf("Open rate %.1f%% below benchmark", rates["open_rate"]*100),
			ExpectedImpact: "20-40% increase in open rates",
		})
	}
	if needsWork(assessments["click_rate"]) {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Optimize email content and CTAs",
			Reason:         fmt.Sprintf("Click rate %.1f%% below benchmark", rates["click_rate"]*100),
			ExpectedImpact: "30-50% increase in click rates",
		})
	}
	if needsWork(assessments["unsubscribe_rate"]) {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Reduce send frequency or improve segmentation",
			Reason:         fmt.Sprintf("Unsubscribe rate %.2f%% above threshold", rates["unsubscribe_rate"]*100),
			ExpectedImpact: "50% reduction in unsubscribes",
		})
	}
	return recommendations
}

func needsWork(assessment MetricAssessment) bool {
	return assessment.Rating == "warning" || assessment.Rating == "critical"
}

// DeliverabilityIssue is one threshold breach found in sending data.
type DeliverabilityIssue struct {
	Severity string `json:"severity"`
	Issue    string `json:"issue"`
	Detail   string `json:"detail"`
	Impact   string `json:"impact"`
}

// AuthenticationRecord is one DNS record to verify for sender
// authentication.
type AuthenticationRecord struct {
	Record string `json:"record"`
	Note   string `json:"note"`
}

// DeliverabilitySummary totals recent sending data. Rates are percentages.
type DeliverabilitySummary struct {
	CampaignsChecked int     `json:"campaigns_checked"`
	TotalSent        int     `json:"total_sent"`
	TotalDelivered   int     `json:"total_delivered"`
	DeliveryRate     float64 `json:"delivery_rate"`
	BounceRate       float64 `json:"bounce_rate"`
	ComplaintRate    float64 `json:"complaint_rate"`
}

// DeliverabilityReport is the result of running deliverability diagnostics
// over recent campaign sends.
type DeliverabilityReport struct {
	Summary         DeliverabilitySummary       `json:"summary"`
	Assessments     map[string]MetricAssessment `json:"assessments"`
	Issues          []DeliverabilityIssue       `json:"issues"`
	Authentication  []AuthenticationRecord      `json:"authentication_checklist"`
	Recommendations []Recommendation            `json:"recommendations"`
}

// CheckDeliverability aggregates bounce and complaint rates over recent
// campaigns and flags threshold breaches.
func (a *Auditor) CheckDeliverability(ctx context.Context) (*DeliverabilityReport, error) {
	campaigns, err := a.client.GetCampaigns(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch campaigns")
	}

	capped := campaigns
	if len(capped) > campaignReportCap {
		capped = capped[:campaignReportCap]
	}

	var totalSent, totalBounces, totalComplaints, totalDelivered float64
	checked := 0
	for _, campaign := range capped {
		if campaign.ID() == "" {
			continue
		}
		stats, err := a.client.GetCampaignReport(ctx, campaign.ID())
		if err != nil || len(stats) == 0 {
			continue
		}
		recipients := stats.Get("recipients")
		if recipients <= 0 {
			continue
		}
		checked++
		totalSent += recipients
		totalBounces += stats.Get("bounces")
		totalComplaints += stats.Get("spam_complaints")
		totalDelivered += stats.Get("deliveries")
	}

	var bounceRate, complaintRate, deliveryRate float64
	if totalSent > 0 {
		bounceRate = totalBounces / totalSent
		complaintRate = totalComplaints / totalSent
		deliveryRate = totalDelivered / totalSent
	}

	var issues []DeliverabilityIssue
	if bounceRate > 0.05 {
		issues = append(issues, DeliverabilityIssue{
			Severity: "CRITICAL",
			Issue:    "High bounce rate",
			Detail:   fmt.Sprintf("Bounce rate %.2f%% exceeds 5%% threshold", bounceRate*100),
			Impact:   "ISPs may throttle or block your sending",
		})
	}
	if complaintRate > 0.001 {
		issues = append(issues, DeliverabilityIssue{
			Severity: "CRITICAL",
			Issue:    "High spam complaint rate",
			Detail:   fmt.Sprintf("Complaint rate %.3f%% exceeds 0.1%% threshold", complaintRate*100),
			Impact:   "Risk of being blacklisted by major ISPs",
		})
	}
	if bounceRate > 0.02 {
		issues = append(issues, DeliverabilityIssue{
			Severity: "HIGH",
			Issue:    "Elevated bounce rate",
			Detail:   fmt.Sprintf("Bounce rate %.2f%% above 2%% benchmark", bounceRate*100),
			Impact:   "Sender reputation degradation over time",
		})
	}
	if complaintRate > 0.0005 {
		issues = append(issues, DeliverabilityIssue{
			Severity: "HIGH",
			Issue:    "Elevated complaint rate",
			Detail:   fmt.Sprintf("Complaint rate %.3f%% above 0.05%% benchmark", complaintRate*100),
			Impact:   "Gradual inbox placement decline",
		})
	}

	return &DeliverabilityReport{
		Summary: DeliverabilitySummary{
			CampaignsChecked: checked,
			TotalSent:        int(totalSent),
			TotalDelivered:   int(totalDelivered),
			DeliveryRate:     round2(deliveryRate * 100),
			BounceRate:       round2(bounceRate * 100),
			ComplaintRate:    round3(complaintRate * 100),
		},
		Assessments: map[string]MetricAssessment{
			"bounce_rate":    assessMetric("bounce_rate", bounceRate),
			"complaint_rate": assessMetric("spam_complaint_rate", complaintRate),
		},
		Issues: issues,
		Authentication: []AuthenticationRecord{
			{Record: "SPF", Note: "Verify include:_spf.klaviyo.com in DNS"},
			{Record: "DKIM", Note: "Verify CNAME records from Klaviyo Settings"},
			{Record: "DMARC", Note: "Verify DMARC policy (p=quarantine or p=reject)"},
		},
		Recommendations: recommendDeliverabilityFixes(bounceRate, complaintRate, issues),
	}, nil
}

func recommendDeliverabilityFixes(bounceRate, complaintRate float64, issues []DeliverabilityIssue) []Recommendation {
	var recommendations []Recommendation

	if bounceRate > 0.02 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Implement list cleaning",
			Reason:         "Elevated bounce rate indicates stale email addresses",
			ExpectedImpact: "Reduce bounces by 60-80%",
		})
	}
	if complaintRate > 0.0005 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Review sending frequency and content relevance",
			Reason:         "Spam complaints above safe threshold",
			ExpectedImpact: "Reduce complaints by 50-70%",
		})
	}

	recommendations = append(recommendations, Recommendation{
		Priority:       "MEDIUM",
		Action:         "Verify DNS authentication (SPF, DKIM, DMARC)",
		Reason:         "Authentication protects sender reputation",
		ExpectedImpact: "Improved inbox placement across all ISPs",
	})

	if len(issues) == 0 {
		healthy := Recommendation{
			Priority:       "INFO",
			Action:         "Deliverability metrics within healthy range",
			Reason:         "No critical issues detected",
			ExpectedImpact: "Continue monitoring",
		}
		recommendations = append([]Recommendation{healthy}, recommendations...)
	}

	return recommendations
}

// RevenueEntry is one flow or campaign with attributed revenue.
type RevenueEntry struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Status  string  `json:"status,omitempty"`
}

// RevenueSummary splits attributed revenue between flows and campaigns.
// Percentage fields are percentages of total revenue.
type RevenueSummary struct {
	TotalRevenue       float64 `json:"total_revenue"`
	FlowRevenue        float64 `json:"flow_revenue"`
	CampaignRevenue    float64 `json:"campaign_revenue"`
	FlowRevenuePct     float64 `json:"flow_revenue_pct"`
	CampaignRevenuePct float64 `json:"campaign_revenue_pct"`
}

// RevenueAttribution is the result of splitting attributed revenue between
// automated flows and one-off campaigns.
type RevenueAttribution struct {
	Summary         RevenueSummary   `json:"summary"`
	Assessment      MetricAssessment `json:"assessment"`
	TopFlows        []RevenueEntry   `json:"top_flows"`
	TopCampaigns    []RevenueEntry   `json:"top_campaigns"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AnalyzeRevenue attributes revenue between flows and campaigns and rates
// the flow share against the 30-50% benchmark. Per-report failures are
// skipped.
func (a *Auditor) AnalyzeRevenue(ctx context.Context) (*RevenueAttribution, error) {
	flows, err := a.client.GetFlows(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch flows")
	}
	campaigns, err := a.client.GetCampaigns(ctx, "")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to fetch campaigns")
	}

	var flowRevenue float64
	var flowEntries []RevenueEntry
	for _, flow := range flows {
		if flow.ID() == "" {
			continue
		}
		stats, err := a.client.GetFlowReport(ctx, flow.ID())
		if err != nil {
			continue
		}
		revenue := stats.Get("revenue")
		flowRevenue += revenue
		if revenue > 0 {
			flowEntries = append(flowEntries, RevenueEntry{
				Name:    flow.Name(),
				Revenue: round2(revenue),
				Status:  flow.Status(),
			})
		}
	}

	cappedCampaigns := campaigns
	if len(cappedCampaigns) > campaignReportCap {
		cappedCampaigns = cappedCampaigns[:campaignReportCap]
	}
	var campaignRevenue float64
	var campaignEntries []RevenueEntry
	for _, campaign := range cappedCampaigns {
		if campaign.ID() == "" {
			continue
		}
		stats, err := a.client.GetCampaignReport(ctx, campaign.ID())
		if err != nil {
			continue
		}
		revenue := stats.Get("revenue")
		campaignRevenue += revenue
		if revenue > 0 {
			campaignEntries = append(campaignEntries, RevenueEntry{
				Name:    campaign.Name(),
				Revenue: round2(revenue),
			})
		}
	}

	totalRevenue := flowRevenue + campaignRevenue
	var flowPct, campaignPct float64
	if totalRevenue > 0 {
		flowPct = flowRevenue / totalRevenue * 100
		campaignPct = campaignRevenue / totalRevenue * 100
	}

	sort.SliceStable(flowEntries, func(i, j int) bool {
		return flowEntries[i].Revenue > flowEntries[j].Revenue
	})
	sort.SliceStable(campaignEntries, func(i, j int) bool {
		return campaignEntries[i].Revenue > campaignEntries[j].Revenue
	})

	return &RevenueAttribution{
		Summary: RevenueSummary{
			TotalRevenue:       round2(totalRevenue),
			FlowRevenue:        round2(flowRevenue),
			CampaignRevenue:    round2(campaignRevenue),
			FlowRevenuePct:     round1(flowPct),
			CampaignRevenuePct: round1(campaignPct),
		},
		Assessment:      assessMetric("flow_revenue_pct", flowPct/100),
		TopFlows:        topEntries(flowEntries, 10),
		TopCampaigns:    topEntries(campaignEntries, 10),
		Recommendations: recommendRevenueImprovements(flowPct, flowEntries),
	}, nil
}

func topEntries(entries []RevenueEntry, limit int) []RevenueEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func recommendRevenueImprovements(flowPct float64, flowEntries []RevenueEntry) []Recommendation {
	var recommendations []Recommendation

	if flowPct < 30 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Increase flow automation coverage",
			Reason:         fmt.Sprintf("Flow revenue at %.0f%% (benchmark: 30-50%%)", flowPct),
			ExpectedImpact: "Shift 10-20% more revenue to automated flows",
		})
	}
	if flowPct > 70 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "MEDIUM",
			Action:         "Invest in campaign strategy",
			Reason:         fmt.Sprintf("Over-reliant on flows (%.0f%% of revenue)", flowPct),
			ExpectedImpact: "Diversify revenue sources, reduce flow fatigue",
		})
	}
	if len(flowEntries) < 5 {
		recommendations = append(recommendations, Recommendation{
			Priority:       "HIGH",
			Action:         "Add more revenue-generating flows",
			Reason:         fmt.Sprintf("Only %d flows generating revenue", len(flowEntries)),
			ExpectedImpact: "Each new flow adds 5-15% incremental revenue",
		})
	}
	return recommendations
}

// FullAudit combines every analysis into one report.
type FullAudit struct {
	FlowAudit           *FlowAudit            `json:"flow_audit"`
	SegmentHealth       *SegmentHealth        `json:"segment_health"`
	CampaignPerformance *CampaignComparison   `json:"campaign_performance"`
	Deliverability      *DeliverabilityReport `json:"deliverability"`
	RevenueAttribution  *RevenueAttribution   `json:"revenue_attribution"`
}

// FullAudit runs every analysis and combines the results.
func (a *Auditor) FullAudit(ctx context.Context) (*FullAudit, error) {
	flowAudit, err := a.AuditFlows(ctx)
	if err != nil {
		return nil, err
	}
	segmentHealth, err := a.AnalyzeSegments(ctx)
	if err != nil {
		return nil, err
	}
	campaignPerformance, err := a.CompareCampaigns(ctx, 30)
	if err != nil {
		return nil, err
	}
	deliverability, err := a.CheckDeliverability(ctx)
	if err != nil {
		return nil, err
	}
	revenueAttribution, err := a.AnalyzeRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &FullAudit{
		FlowAudit:           flowAudit,
		SegmentHealth:       segmentHealth,
		CampaignPerformance: campaignPerformance,
		Deliverability:      deliverability,
		RevenueAttribution:  revenueAttribution,
	}, nil
}

// assessMetric compares a fractional metric value (e.g. 0.25 for 25%)
// against its benchmark.
func assessMetric(name string, value float64) MetricAssessment {
	bench, ok := benchmarks[name]
	if !ok {
		return MetricAssessment{Rating: "unknown", Value: value}
	}

	var rating string
	if lowerIsBetter[name] {
		switch {
		case value <= bench.great:
			rating = "great"
		case value <= bench.good:
			rating = "good"
		case value <= bench.warning:
			rating = "warning"
		default:
			rating = "critical"
		}
	} else {
		switch {
		case value >= bench.great:
			rating = "great"
		case value >= bench.good:
			rating = "good"
		case value >= bench.warning:
			rating = "warning"
		default:
			rating = "critical"
		}
	}

	return MetricAssessment{
		Rating:         rating,
		Value:          round2(value * 100),
		BenchmarkGood:  round2(bench.good * 100),
		BenchmarkGreat: round2(bench.great * 100),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
