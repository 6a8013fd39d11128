package analysis

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// PeriodClassification is the genuine/noise split for one half-year.
type PeriodClassification struct {
	Period  string `json:"period"`
	Genuine int    `json:"genuine"`
	Noise   int    `json:"noise"`
	Total   int    `json:"total"`
}

// shortMessageRunes is the length below which a single spam indicator is
// enough to classify a message as noise.
const shortMessageRunes = 100

// IsSpam reports whether content looks like templated outreach: two or
// more spam indicators, or one indicator on a short message.
func IsSpam(content string) bool {
	lower := strings.ToLower(content)
	matches := 0
	for _, indicator := range spamIndicators {
		if strings.Contains(lower, indicator) {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return matches >= 1 && utf8.RuneCountInString(content) < shortMessageRunes
}

// ClassifyInbox splits messages into genuine vs noise per half-year period
// ("2024-H1", "2024-H2"), chronologically. A message's subject stands in
// for missing content. Undated messages are skipped.
func ClassifyInbox(messages []linkedin.Message) []PeriodClassification {
	type counts struct{ genuine, noise int }
	periods := make(map[string]*counts)

	for _, msg := range messages {
		if msg.Date == nil {
			continue
		}
		half := "H1"
		if msg.Date.Month() > 6 {
			half = "H2"
		}
		period := fmt.Sprintf("%d-%s", msg.Date.Year(), half)

		c, ok := periods[period]
		if !ok {
			c = &counts{}
			periods[period] = c
		}

		content := msg.Content
		if content == "" {
			content = msg.Subject
		}
		if IsSpam(content) {
			c.noise++
		} else {
			c.genuine++
		}
	}

	keys := make([]string, 0, len(periods))
	for period := range periods {
		keys = append(keys, period)
	}
	sort.Strings(keys)

	results := make([]PeriodClassification, 0, len(keys))
	for _, period := range keys {
		c := periods[period]
		results = append(results, PeriodClassification{
			Period:  period,
			Genuine: c.genuine,
			Noise:   c.noise,
			Total:   c.genuine + c.noise,
		})
	}
	return results
}
