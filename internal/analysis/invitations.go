package analysis

import (
	"sort"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// MonthlyInvitations is the inbound/outbound invitation count for one
// YYYY-MM month.
type MonthlyInvitations struct {
	Month    string `json:"month"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// AnalyzeInvitations buckets invitations into calendar months and counts
// inbound vs outbound, chronologically. Undated invitations are skipped.
func AnalyzeInvitations(invitations []linkedin.Invitation) []MonthlyInvitations {
	type counts struct{ inbound, outbound int }
	monthly := make(map[string]*counts)

	for _, inv := range invitations {
		if inv.Date == nil {
			continue
		}
		month := inv.Date.Format("2006-01")
		c, ok := monthly[month]
		if !ok {
			c = &counts{}
			monthly[month] = c
		}
		switch inv.Direction {
		case linkedin.DirectionInbound:
			c.inbound++
		case linkedin.DirectionOutbound:
			c.outbound++
		}
	}

	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Strings(months)

	results := make([]MonthlyInvitations, 0, len(months))
	for _, month := range months {
		results = append(results, MonthlyInvitations{
			Month:    month,
			Inbound:  monthly[month].inbound,
			Outbound: monthly[month].outbound,
		})
	}
	return results
}
