package sanitize

import (
	"strings"
	"testing"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

func poolContains(pool []string, name string) bool {
	for _, n := range pool {
		if n == name {
			return true
		}
	}
	return false
}

func TestBuildNameMap_UniqueAndDeterministic(t *testing.T) {
	connections := []linkedin.Connection{
		{FirstName: "Maria", LastName: "Garcia"},
		{FirstName: "John", LastName: "Smith"},
		{FirstName: "Maria", LastName: "Garcia"}, // duplicate
		{FirstName: "", LastName: ""},            // skipped
		{FirstName: "Priya", LastName: "Patel"},
	}

	first := New(DefaultSeed).BuildNameMap(connections)
	second := New(DefaultSeed).BuildNameMap(connections)

	if len(first) != 3 {
		t.Fatalf("expected 3 mapped names, got %d", len(first))
	}
	seen := make(map[string]struct{})
	for real, fake := range first {
		if fake.Full != fake.FirstName+" "+fake.LastName {
			t.Errorf("%s: inconsistent fake name %+v", real, fake)
		}
		if _, dup := seen[fake.Full]; dup {
			t.Errorf("fake name %q assigned twice", fake.Full)
		}
		seen[fake.Full] = struct{}{}

		other, ok := second[real]
		if !ok || other != fake {
			t.Errorf("%s: mapping not deterministic (%+v vs %+v)", real, fake, other)
		}
	}
}

func TestBuildNameMap_GenderPools(t *testing.T) {
	connections := []linkedin.Connection{
		{FirstName: "Maria", LastName: "Garcia"},
		{FirstName: "John", LastName: "Smith"},
	}
	names := New(DefaultSeed).BuildNameMap(connections)

	if fake := names["Maria Garcia"]; !poolContains(fakeFirstNamesFeminine, fake.FirstName) {
		t.Errorf("expected a feminine replacement for Maria, got %q", fake.FirstName)
	}
	if fake := names["John Smith"]; !poolContains(fakeFirstNamesMasculine, fake.FirstName) {
		t.Errorf("expected a masculine replacement for John, got %q", fake.FirstName)
	}
}

func TestSanitizeCompanies_TierMatched(t *testing.T) {
	export := &linkedin.Export{
		Connections: []linkedin.Connection{
			{FirstName: "A", LastName: "A", Company: "Acme Software"},
			{FirstName: "B", LastName: "B", Company: "Acme Software"},
		},
		CompanyFollows: []linkedin.CompanyFollow{
			{Company: "Acme Software"},
			{Company: "Peak Recruiting Partners"},
		},
	}

	out, companyMap := New(DefaultSeed).SanitizeCompanies(export)

	fakeTech := companyMap["Acme Software"]
	if !poolContains(fakeCompanies["tech"], fakeTech) {
		t.Errorf("expected a tech-pool replacement for Acme Software, got %q", fakeTech)
	}
	if !poolContains(fakeCompanies["recruiting"], companyMap["Peak Recruiting Partners"]) {
		t.Errorf("expected a recruiting-pool replacement, got %q", companyMap["Peak Recruiting Partners"])
	}

	if out.Connections[0].Company != fakeTech || out.Connections[1].Company != fakeTech {
		t.Errorf("expected both connections to share %q, got %q and %q",
			fakeTech, out.Connections[0].Company, out.Connections[1].Company)
	}
	if out.CompanyFollows[0].Company != fakeTech {
		t.Errorf("expected the follow to share %q, got %q", fakeTech, out.CompanyFollows[0].Company)
	}

	if export.Connections[0].Company != "Acme Software" {
		t.Error("input export was mutated")
	}
}

func TestSanitizeCompanies_PoolExhaustion(t *testing.T) {
	// The luxury pool has six names; a seventh luxury company forces a
	// numbered variant.
	export := &linkedin.Export{}
	for _, suffix := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		export.CompanyFollows = append(export.CompanyFollows,
			linkedin.CompanyFollow{Company: "Luxury House " + suffix})
	}

	_, companyMap := New(DefaultSeed).SanitizeCompanies(export)

	if len(companyMap) != 7 {
		t.Fatalf("expected 7 mappings, got %d", len(companyMap))
	}
	seen := make(map[string]struct{})
	variants := 0
	for _, fake := range companyMap {
		if _, dup := seen[fake]; dup {
			t.Errorf("fake company %q assigned twice", fake)
		}
		seen[fake] = struct{}{}
		if strings.Contains(fake, "(") {
			variants++
		}
	}
	if variants != 1 {
		t.Errorf("expected exactly 1 numbered variant, got %d", variants)
	}
}

func TestSanitizeMessages(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	names := NameMap{
		"Maria Garcia": {FirstName: "Aria", LastName: "Voss", Full: "Aria Voss"},
	}
	messages := []linkedin.Message{
		{ConversationID: "c1", Sender: "Maria Garcia", Date: &date, Subject: "Catching up",
			Content: "Thanks for the deep dive yesterday. The walkthrough clarified a lot and the follow-up notes were appreciated."},
		{ConversationID: "c2", Sender: "Unknown Stranger", Date: &date,
			Content: "I noticed your profile and we're hiring."},
	}

	out := New(DefaultSeed).SanitizeMessages(messages, names)

	if out[0].Sender != "Aria Voss" {
		t.Errorf("expected mapped sender, got %q", out[0].Sender)
	}
	if !poolContains(genuineTemplates, out[0].Content) {
		t.Errorf("expected a genuine template, got %q", out[0].Content)
	}
	if out[0].Subject != "Re: Connection" {
		t.Errorf("expected subject replaced, got %q", out[0].Subject)
	}
	if out[0].ConversationID != "c1" || !out[0].Date.Equal(date) {
		t.Error("conversation ID or date was not preserved")
	}

	if !poolContains(noiseTemplates, out[1].Content) {
		t.Errorf("expected a noise template for spam, got %q", out[1].Content)
	}
	if out[1].Sender == "Unknown Stranger" || out[1].Sender == "" {
		t.Errorf("expected a hash-derived replacement, got %q", out[1].Sender)
	}

	again := New(DefaultSeed).SanitizeMessages(messages, names)
	if again[1].Sender != out[1].Sender {
		t.Errorf("hash-derived replacement not stable: %q vs %q", out[1].Sender, again[1].Sender)
	}

	if messages[0].Content == out[0].Content {
		t.Error("input messages were mutated")
	}
}

func TestHashToName_Deterministic(t *testing.T) {
	a := hashToName("Jane Doe")
	b := hashToName("Jane Doe")
	if a != b {
		t.Errorf("hashToName not deterministic: %q vs %q", a, b)
	}
	if a == "" || len(strings.Fields(a)) != 2 {
		t.Errorf("expected a two-part fake name, got %q", a)
	}
}

func TestSanitizeAll(t *testing.T) {
	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	export := &linkedin.Export{
		Connections: []linkedin.Connection{
			{FirstName: "Maria", LastName: "Garcia", Company: "Acme Software",
				Position: "VP Marketing", ConnectedOn: &date, EmailAddress: "maria@real.example"},
		},
		Messages: []linkedin.Message{
			{ConversationID: "c1", Sender: "Maria Garcia", Date: &date,
				Content: "Lovely catching up last week, the analytics rollout plan you sketched sounds like it will land well."},
		},
		Invitations: []linkedin.Invitation{
			{FromName: "Maria Garcia", ToName: "Someone Never Connected", Date: &date,
				Direction: linkedin.DirectionInbound, Message: "Let us connect"},
		},
		CompanyFollows: []linkedin.CompanyFollow{{Company: "Acme Software"}},
		Inferences:     []linkedin.Inference{{Category: "demography", Inference: "x"}},
		AdTargeting:    linkedin.AdTargeting{"interests": {"marketing"}},
	}

	out, report := New(DefaultSeed).SanitizeAll(export)

	if report.NamesMapped != 1 || report.CompaniesMapped != 1 {
		t.Errorf("unexpected report: %+v", report)
	}

	conn := out.Connections[0]
	if conn.FirstName == "Maria" || conn.LastName == "Garcia" {
		t.Errorf("connection name not replaced: %+v", conn)
	}
	wantEmailPrefix := strings.ToLower(conn.FirstName) + "." + strings.ToLower(conn.LastName) + "@"
	if !strings.HasPrefix(conn.EmailAddress, wantEmailPrefix) {
		t.Errorf("expected email %q..., got %q", wantEmailPrefix, conn.EmailAddress)
	}
	domain := strings.TrimPrefix(conn.EmailAddress, wantEmailPrefix)
	if !poolContains(fakeEmailDomains, domain) {
		t.Errorf("unexpected email domain %q", domain)
	}
	if conn.Position != "VP Marketing" || !conn.ConnectedOn.Equal(date) {
		t.Error("position or connected-on date was not preserved")
	}

	fakeFull := conn.FirstName + " " + conn.LastName
	if out.Messages[0].Sender != fakeFull {
		t.Errorf("message sender %q does not match renamed connection %q", out.Messages[0].Sender, fakeFull)
	}
	if out.Invitations[0].FromName != fakeFull {
		t.Errorf("invitation sender %q does not match renamed connection %q", out.Invitations[0].FromName, fakeFull)
	}
	if out.Invitations[0].ToName == "Someone Never Connected" {
		t.Error("unmapped invitation recipient was not replaced")
	}
	if !poolContains(genuineTemplates, out.Invitations[0].Message) {
		t.Errorf("expected a template invitation note, got %q", out.Invitations[0].Message)
	}

	if out.Connections[0].Company == "Acme Software" || out.CompanyFollows[0].Company == "Acme Software" {
		t.Error("company names were not replaced")
	}
	if out.Connections[0].Company != out.CompanyFollows[0].Company {
		t.Error("company replacement is inconsistent across record types")
	}

	if len(out.Inferences) != 1 || out.AdTargeting["interests"][0] != "marketing" {
		t.Error("inferences and ad targeting should pass through untouched")
	}

	if export.Connections[0].FirstName != "Maria" || export.Messages[0].Sender != "Maria Garcia" {
		t.Error("input export was mutated")
	}
}
