package analysis

import (
	"testing"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time {
	return &t
}

func daysBefore(n int) *time.Time {
	d := testNow.AddDate(0, 0, -n)
	return &d
}

func conn(first, last, company, position string, connectedOn *time.Time) linkedin.Connection {
	return linkedin.Connection{
		FirstName:   first,
		LastName:    last,
		Company:     company,
		Position:    position,
		ConnectedOn: connectedOn,
	}
}

func TestClusterNetwork_FirstMatchWins(t *testing.T) {
	connections := []linkedin.Connection{
		conn("Ada", "Lovelace", "Engines", "Founder & CTO", nil),
		conn("Grace", "Hopper", "Navy", "Software Engineer", nil),
		conn("Mary", "Shelley", "Writers", "Novelist", nil),
	}

	clusters := ClusterNetwork(connections)

	byName := make(map[string]Cluster)
	for _, c := range clusters {
		byName[c.Name] = c
	}

	// "Founder & CTO" matches both founder and tech keywords; founder is
	// defined first so it wins.
	if c, ok := byName["Founders & CEOs"]; !ok || c.Count != 1 {
		t.Errorf("expected 1 in Founders & CEOs, got %+v", byName["Founders & CEOs"])
	}
	if c, ok := byName["Tech & Engineering"]; !ok || c.Count != 1 {
		t.Errorf("expected 1 in Tech & Engineering, got %+v", byName["Tech & Engineering"])
	}
	if c, ok := byName["Other / Unclassified"]; !ok || c.Count != 1 {
		t.Errorf("expected 1 unclassified, got %+v", byName["Other / Unclassified"])
	}
}

func TestClusterNetwork_SortedBySizeDescending(t *testing.T) {
	connections := []linkedin.Connection{
		conn("A", "A", "X", "Software Engineer", nil),
		conn("B", "B", "X", "Backend Developer", nil),
		conn("C", "C", "Y", "Founder", nil),
	}

	clusters := ClusterNetwork(connections)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Name != "Tech & Engineering" || clusters[0].Count != 2 {
		t.Errorf("expected Tech & Engineering first with 2, got %s/%d", clusters[0].Name, clusters[0].Count)
	}
}

func TestClusterNetwork_TopCompanies(t *testing.T) {
	connections := []linkedin.Connection{
		conn("A", "A", "Acme", "engineer", nil),
		conn("B", "B", "Acme", "engineer", nil),
		conn("C", "C", "Globex", "engineer", nil),
		conn("D", "D", "", "engineer", nil),
	}

	clusters := ClusterNetwork(connections)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	top := clusters[0].TopCompanies
	if len(top) != 2 || top[0] != "Acme" {
		t.Errorf("expected Acme first among top companies, got %v", top)
	}
}

func TestCategorizeCompanies(t *testing.T) {
	follows := []linkedin.CompanyFollow{
		{Company: "Klaviyo"},
		{Company: "Luxe Beauty Brand"},
		{Company: "Quiet Holdings"},
	}

	categories := CategorizeCompanies(follows)
	byName := make(map[string]CompanyCategory)
	for _, c := range categories {
		byName[c.Name] = c
	}

	if c := byName["Martech / SaaS"]; c.Count != 1 || c.Companies[0] != "Klaviyo" {
		t.Errorf("expected Klaviyo under Martech / SaaS, got %+v", c)
	}
	if c := byName["DTC / E-commerce"]; c.Count != 1 {
		t.Errorf("expected beauty brand under DTC / E-commerce, got %+v", c)
	}
	if c := byName["Other"]; c.Count != 1 {
		t.Errorf("expected 1 uncategorised, got %+v", c)
	}
}

func TestScoreMessages_Tiers(t *testing.T) {
	connections := []linkedin.Connection{
		conn("Ada", "Lovelace", "", "", nil),
		conn("Grace", "Hopper", "", "", nil),
		conn("Mary", "Shelley", "", "", nil),
		conn("Jane", "Austen", "", "", nil),
		conn("Emily", "Bronte", "", "", nil),
		conn("Never", "Messaged", "", "", nil),
	}
	messages := []linkedin.Message{
		{Sender: "Ada Lovelace", Date: daysBefore(10)},
		{Sender: "Grace Hopper", Date: daysBefore(60)},
		{Sender: "Mary Shelley", Date: daysBefore(150)},
		{Sender: "Jane Austen", Date: daysBefore(300)},
		{Sender: "Emily Bronte", Date: daysBefore(400)},
	}

	enriched := ScoreMessages(connections, messages, testNow)

	wantTiers := map[string]string{
		"Ada Lovelace":   TierActive,
		"Grace Hopper":   TierSomeContact,
		"Mary Shelley":   TierGoingStale,
		"Jane Austen":    TierDormant,
		"Emily Bronte":   TierDeepSleep,
		"Never Messaged": TierNeverMessaged,
	}
	for _, e := range enriched {
		want := wantTiers[e.FullName()]
		if e.Tier != want {
			t.Errorf("%s: expected tier %q, got %q", e.FullName(), want, e.Tier)
		}
	}
}

func TestScoreMessages_UsesMostRecentMessage(t *testing.T) {
	connections := []linkedin.Connection{conn("Ada", "Lovelace", "", "", nil)}
	messages := []linkedin.Message{
		{Sender: "ada lovelace", Date: daysBefore(500)},
		{Sender: "Ada Lovelace", Date: daysBefore(20)},
	}

	enriched := ScoreMessages(connections, messages, testNow)
	if enriched[0].Tier != TierActive {
		t.Errorf("expected Active from the newer message, got %q", enriched[0].Tier)
	}
}

func TestSummariseTiers(t *testing.T) {
	enriched := []TieredConnection{
		{Tier: TierActive},
		{Tier: TierActive},
		{Tier: TierNeverMessaged},
	}
	summary := SummariseTiers(enriched)
	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
	if summary.Distribution[TierActive] != 2 {
		t.Errorf("expected 2 Active, got %d", summary.Distribution[TierActive])
	}
	order := summary.TierOrder()
	if order[0] != TierActive {
		t.Errorf("expected Active first in tier order, got %v", order)
	}
}

func TestAnalyzeInvitations_MonthlyBuckets(t *testing.T) {
	invitations := []linkedin.Invitation{
		{Direction: linkedin.DirectionInbound, Date: datePtr(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))},
		{Direction: linkedin.DirectionInbound, Date: datePtr(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))},
		{Direction: linkedin.DirectionOutbound, Date: datePtr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))},
		{Direction: linkedin.DirectionInbound, Date: nil},
	}

	trends := AnalyzeInvitations(invitations)
	if len(trends) != 2 {
		t.Fatalf("expected 2 months, got %d", len(trends))
	}
	if trends[0].Month != "2024-01" || trends[0].Inbound != 2 || trends[0].Outbound != 0 {
		t.Errorf("unexpected first month: %+v", trends[0])
	}
	if trends[1].Month != "2024-02" || trends[1].Outbound != 1 {
		t.Errorf("unexpected second month: %+v", trends[1])
	}
}

func TestIsSpam(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"I noticed your profile and we're hiring for a role.", true},
		{"Quick question", true}, // one indicator, short message
		{"Quick question about the architecture document you shared last week: does the retry path also cover the batch import flow, or is that handled separately by the queue worker?", false},
		{"Thanks for the great conversation yesterday.", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsSpam(tc.content); got != tc.want {
			t.Errorf("IsSpam(%q) = %v, want %v", tc.content, got, tc.want)
		}
	}
}

func TestClassifyInbox_HalfYearPeriods(t *testing.T) {
	messages := []linkedin.Message{
		{Date: datePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), Content: "Thanks for the thoughtful note, the project update sounds great and I would enjoy hearing more about it."},
		{Date: datePtr(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)), Content: "I noticed your profile and we're hiring."},
		{Date: datePtr(time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)), Subject: "Quick question"},
	}

	periods := ClassifyInbox(messages)
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Period != "2024-H1" || periods[0].Genuine != 1 || periods[0].Noise != 0 {
		t.Errorf("unexpected H1: %+v", periods[0])
	}
	if periods[1].Period != "2024-H2" || periods[1].Noise != 2 || periods[1].Total != 2 {
		t.Errorf("unexpected H2: %+v", periods[1])
	}
}

func TestBuildCareerStrata_DefaultPhases(t *testing.T) {
	connections := []linkedin.Connection{
		conn("A", "A", "Early Corp", "Intern", datePtr(time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC))),
		conn("B", "B", "Growth Inc", "Manager", datePtr(time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC))),
		conn("C", "C", "Senior LLC", "Director", datePtr(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC))),
		conn("D", "D", "Now Co", "VP", datePtr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))),
		conn("E", "E", "Nowhere", "Unknown", nil),
	}

	strata := BuildCareerStrata(connections, nil)
	if len(strata) != 4 {
		t.Fatalf("expected 4 strata, got %d", len(strata))
	}
	for i, want := range []int{1, 1, 1, 1} {
		if strata[i].Count != want {
			t.Errorf("stratum %d (%s): expected %d, got %d", i, strata[i].Label, want, strata[i].Count)
		}
	}
	if strata[0].Label != "Early Career" || strata[0].TopCompanies[0] != "Early Corp" {
		t.Errorf("unexpected first stratum: %+v", strata[0])
	}
}

func TestBuildCareerStrata_DerivedPhases(t *testing.T) {
	positions := []Position{
		{Title: "Analyst", StartDate: datePtr(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC))},
		{Title: "Manager", StartDate: datePtr(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))},
	}
	connections := []linkedin.Connection{
		conn("A", "A", "X", "", datePtr(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))),
		conn("B", "B", "Y", "", datePtr(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))),
	}

	strata := BuildCareerStrata(connections, positions)
	if len(strata) != 2 {
		t.Fatalf("expected 2 strata, got %d", len(strata))
	}
	if strata[0].Label != "Analyst" || strata[0].StartYear != 2015 || strata[0].EndYear != 2018 {
		t.Errorf("unexpected first phase: %+v", strata[0])
	}
	if strata[1].EndYear != 2030 {
		t.Errorf("expected open-ended final phase, got %d", strata[1].EndYear)
	}
	if strata[0].Count != 1 || strata[1].Count != 1 {
		t.Errorf("unexpected counts: %d, %d", strata[0].Count, strata[1].Count)
	}
}

func TestIdentifyHighValueMessages_Scoring(t *testing.T) {
	connections := []linkedin.Connection{
		conn("Ada", "Lovelace", "Engines", "VP Engineering", nil),
	}
	messages := []linkedin.Message{
		// Known senior connection, actionable, recent, not spam:
		// 2 + 3 + 2 + 2 + 1 = 10.
		{ConversationID: "c1", Sender: "Ada Lovelace", Date: daysBefore(5),
			Content: "Would you like to meet for coffee next week? I have a project proposal that could be a good fit for your team at the studio."},
		// Unknown sender, spam, old: -3.
		{ConversationID: "c2", Sender: "Randy Recruiter", Date: daysBefore(200),
			Content: "I noticed your profile and we're hiring top talent."},
	}

	scored := IdentifyHighValueMessages(messages, connections, testNow)
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored messages, got %d", len(scored))
	}
	if scored[0].Score != 10 {
		t.Errorf("expected top score 10, got %d", scored[0].Score)
	}
	if !scored[0].IsConnection || scored[0].SenderPosition != "VP Engineering" {
		t.Errorf("expected enriched connection fields, got %+v", scored[0])
	}
	if scored[1].Score != -3 {
		t.Errorf("expected spam score -3, got %d", scored[1].Score)
	}
}

func TestIdentifyHighValueMessages_LastMessagePerConversation(t *testing.T) {
	messages := []linkedin.Message{
		{ConversationID: "c1", Sender: "A", Date: daysBefore(30), Content: "older message in the thread"},
		{ConversationID: "c1", Sender: "B", Date: daysBefore(5), Content: "the latest message in the thread which is the one that should be scored"},
	}

	scored := IdentifyHighValueMessages(messages, nil, testNow)
	if len(scored) != 1 {
		t.Fatalf("expected 1 scored message, got %d", len(scored))
	}
	if scored[0].Sender != "B" {
		t.Errorf("expected the newest message to be scored, got sender %q", scored[0].Sender)
	}
}

func TestGenerateSummaryStats(t *testing.T) {
	export := &linkedin.Export{
		Connections: []linkedin.Connection{
			conn("A", "A", "Acme", "", datePtr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))),
			conn("B", "B", "Acme", "", datePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))),
			conn("C", "C", "Globex", "", nil),
		},
		Messages: []linkedin.Message{
			{ConversationID: "c1"},
			{ConversationID: "c1"},
			{ConversationID: ""},
		},
		Invitations: []linkedin.Invitation{
			{Direction: linkedin.DirectionInbound},
			{Direction: linkedin.DirectionOutbound},
			{Direction: linkedin.DirectionOutbound},
		},
		AdTargeting: linkedin.AdTargeting{
			"interests": {"a", "b"},
			"skills":    {"c"},
		},
	}

	stats := GenerateSummaryStats(export)

	if stats.TotalConnections != 3 || stats.UniqueCompanies != 2 {
		t.Errorf("unexpected connection stats: %+v", stats)
	}
	if stats.TotalConversations != 1 || stats.OrphanMessages != 1 {
		t.Errorf("unexpected message stats: %+v", stats)
	}
	if stats.InboundInvitations != 1 || stats.OutboundInvitations != 2 {
		t.Errorf("unexpected invitation stats: %+v", stats)
	}
	if stats.AdInterests != 2 || stats.AdSkills != 1 {
		t.Errorf("unexpected ad stats: %+v", stats)
	}
	if stats.NetworkSpanYears == nil || *stats.NetworkSpanYears != 4.0 {
		t.Errorf("expected span 4.0 years, got %v", stats.NetworkSpanYears)
	}
}

func TestCorrelatePostingActivity_PerfectPositive(t *testing.T) {
	var shares []linkedin.Share
	var connections []linkedin.Connection
	for month := 1; month <= 4; month++ {
		for i := 0; i < month; i++ {
			shares = append(shares, linkedin.Share{Date: datePtr(time.Date(2024, time.Month(month), 1+i, 0, 0, 0, 0, time.UTC))})
			connections = append(connections, conn("A", "A", "", "", datePtr(time.Date(2024, time.Month(month), 1+i, 0, 0, 0, 0, time.UTC))))
		}
	}

	result := CorrelatePostingActivity(shares, connections)
	if result.PearsonR == nil {
		t.Fatalf("expected a coefficient, got none (%s)", result.Interpretation)
	}
	if *result.PearsonR != 1.0 {
		t.Errorf("expected r = 1.0, got %v", *result.PearsonR)
	}
	if result.Interpretation != "strong positive" {
		t.Errorf("unexpected interpretation: %s", result.Interpretation)
	}
	if len(result.Months) != 4 {
		t.Errorf("expected 4 months, got %v", result.Months)
	}
}

func TestCorrelatePostingActivity_TooFewMonths(t *testing.T) {
	shares := []linkedin.Share{{Date: datePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}}
	connections := []linkedin.Connection{conn("A", "A", "", "", datePtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))}

	result := CorrelatePostingActivity(shares, connections)
	if result.PearsonR != nil {
		t.Errorf("expected no coefficient for a single month, got %v", *result.PearsonR)
	}
	if result.Interpretation != "not computable" {
		t.Errorf("unexpected interpretation: %s", result.Interpretation)
	}
}

func TestCorrelatePostingActivity_ZeroVariance(t *testing.T) {
	var shares []linkedin.Share
	var connections []linkedin.Connection
	for month := 1; month <= 3; month++ {
		shares = append(shares, linkedin.Share{Date: datePtr(time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC))})
		for i := 0; i < month; i++ {
			connections = append(connections, conn("A", "A", "", "", datePtr(time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC))))
		}
	}

	result := CorrelatePostingActivity(shares, connections)
	if result.PearsonR != nil {
		t.Errorf("expected no coefficient for a flat posting series, got %v", *result.PearsonR)
	}
}

func TestAnalyzeAll_AssemblesEverySection(t *testing.T) {
	export := &linkedin.Export{
		Connections: []linkedin.Connection{
			conn("Ada", "Lovelace", "Engines", "Founder", daysBefore(100)),
		},
		Messages: []linkedin.Message{
			{ConversationID: "c1", Sender: "Ada Lovelace", Date: daysBefore(10), Content: "Shall we discuss the proposal over a call sometime next week? Plenty to cover."},
		},
		Invitations: []linkedin.Invitation{
			{Direction: linkedin.DirectionInbound, Date: daysBefore(40)},
		},
		CompanyFollows: []linkedin.CompanyFollow{{Company: "Klaviyo"}},
		AdTargeting:    linkedin.AdTargeting{},
	}

	result := AnalyzeAll(export, testNow)

	if result.SummaryStats.TotalConnections != 1 {
		t.Errorf("unexpected summary stats: %+v", result.SummaryStats)
	}
	if len(result.NetworkClusters) == 0 || len(result.CompanyCategories) == 0 {
		t.Error("expected clusters and categories to be populated")
	}
	if result.RelationshipTiers.Total != 1 {
		t.Errorf("unexpected tier total: %d", result.RelationshipTiers.Total)
	}
	if len(result.InvitationTrends) != 1 || len(result.InboxClassification) != 1 {
		t.Error("expected invitation and inbox sections to be populated")
	}
	if len(result.CareerStrata) != 4 {
		t.Errorf("expected 4 default strata, got %d", len(result.CareerStrata))
	}
	if len(result.HighValueMessages) != 1 {
		t.Errorf("expected 1 high-value message, got %d", len(result.HighValueMessages))
	}
}
