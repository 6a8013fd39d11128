package linkedin

import (
	"regexp"
	"strings"
	"time"
)

// LinkedIn mixes two date styles across export files: "12 Jan 2024" in
// Connections.csv and friends, and "2024-01-12 08:30:45 UTC" in messages.
var (
	dayMonthYearPattern = regexp.MustCompile(`^\d{1,2}\s+\w{3}\s+\d{4}$`)
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// ParseDate detects and parses either LinkedIn date format. It returns nil
// for empty input and for anything it does not recognise; callers treat a
// nil date as "unknown" rather than failing the row.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if dayMonthYearPattern.MatchString(raw) {
		if t, err := time.Parse("2 Jan 2006", raw); err == nil {
			return &t
		}
		return nil
	}

	if isoDatePattern.MatchString(raw) {
		cleaned := strings.TrimSpace(strings.ReplaceAll(raw, " UTC", ""))
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return &t
			}
		}
	}

	return nil
}
