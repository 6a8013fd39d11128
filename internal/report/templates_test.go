package report

import (
	"strings"
	"testing"
)

func TestTemplates(t *testing.T) {
	want := []string{"crm-dashboard", "lifecycle", "campaign-performance", "revenue-attribution"}
	got := TemplateNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d templates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("template %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	for _, template := range Templates() {
		if template.Description == "" {
			t.Errorf("template %s has no description", template.Name)
		}
		if len(template.Tabs) == 0 {
			t.Errorf("template %s has no tabs", template.Name)
		}
		for _, tab := range template.Tabs {
			if len(tab.Headers) == 0 {
				t.Errorf("tab %s of %s has no headers", tab.Name, template.Name)
			}
			if tab.Headers[0] != "Date" {
				t.Errorf("tab %s of %s: expected a leading Date column, got %s", tab.Name, template.Name, tab.Headers[0])
			}
		}
	}
}

func TestTemplateByName(t *testing.T) {
	template, err := TemplateByName("crm-dashboard")
	if err != nil {
		t.Fatalf("TemplateByName failed: %v", err)
	}
	if len(template.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(template.Tabs))
	}
	if template.Tabs[0].Name != "Campaign Metrics" || len(template.Tabs[0].Headers) != 11 {
		t.Errorf("unexpected first tab: %+v", template.Tabs[0])
	}

	_, err = TemplateByName("quarterly-board-pack")
	if err == nil {
		t.Fatal("expected an error for an unknown template")
	}
	if !strings.Contains(err.Error(), "revenue-attribution") {
		t.Errorf("expected the available templates listed, got: %v", err)
	}
}

func TestTabFilename(t *testing.T) {
	cases := []struct {
		tab  string
		want string
	}{
		{"Campaign Metrics", "campaign-metrics.csv"},
		{"A/B Tests", "a-b-tests.csv"},
		{"GA4 Summary", "ga4-summary.csv"},
		{"Flows", "flows.csv"},
		{"Revenue Per Recipient ", "revenue-per-recipient.csv"},
	}
	for _, tc := range cases {
		if got := tabFilename(tc.tab); got != tc.want {
			t.Errorf("tabFilename(%q): expected %q, got %q", tc.tab, tc.want, got)
		}
	}
}
