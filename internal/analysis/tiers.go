package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// Relationship tier labels.
const (
	TierActive        = "Active"
	TierSomeContact   = "Some Contact"
	TierGoingStale    = "Going Stale"
	TierDormant       = "Dormant"
	TierDeepSleep     = "Deep Sleep"
	TierNeverMessaged = "Never Messaged"
)

// tierThresholds maps day cutoffs to tiers; anything past the last cutoff
// is Deep Sleep.
var tierThresholds = []struct {
	name string
	days int
}{
	{TierActive, 30},
	{TierSomeContact, 90},
	{TierGoingStale, 180},
	{TierDormant, 365},
}

// TieredConnection is a connection enriched with its relationship tier and
// the most recent message date from that person.
type TieredConnection struct {
	linkedin.Connection
	Tier            string     `json:"tier"`
	LastMessageDate *time.Time `json:"last_message_date"`
}

// TierSummary is the tier distribution plus the enriched connections.
type TierSummary struct {
	Distribution map[string]int     `json:"distribution"`
	Total        int                `json:"total"`
	Connections  []TieredConnection `json:"connections"`
}

// TierOrder returns the distribution's tier names sorted by count
// descending, for stable display.
func (s TierSummary) TierOrder() []string {
	names := make([]string, 0, len(s.Distribution))
	for name := range s.Distribution {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Distribution[names[i]] != s.Distribution[names[j]] {
			return s.Distribution[names[i]] > s.Distribution[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// ScoreMessages cross-references connections with messages and assigns each
// connection a relationship tier based on how recently they messaged:
// Active within 30 days, Some Contact within 90, Going Stale within 180,
// Dormant within 365, Deep Sleep beyond that, Never Messaged when no
// message matches. Matching is by lowercased full name.
func ScoreMessages(connections []linkedin.Connection, messages []linkedin.Message, now time.Time) []TieredConnection {
	lastMessageBySender := make(map[string]time.Time)
	for _, msg := range messages {
		sender := strings.ToLower(strings.TrimSpace(msg.Sender))
		if sender == "" || msg.Date == nil {
			continue
		}
		if existing, ok := lastMessageBySender[sender]; !ok || msg.Date.After(existing) {
			lastMessageBySender[sender] = *msg.Date
		}
	}

	enriched := make([]TieredConnection, 0, len(connections))
	for _, conn := range connections {
		fullName := strings.ToLower(conn.FullName())

		tier := TierNeverMessaged
		var lastMessage *time.Time
		if last, ok := lastMessageBySender[fullName]; ok {
			lastCopy := last
			lastMessage = &lastCopy

			daysAgo := int(now.Sub(last).Hours() / 24)
			tier = TierDeepSleep
			for _, threshold := range tierThresholds {
				if daysAgo <= threshold.days {
					tier = threshold.name
					break
				}
			}
		}

		enriched = append(enriched, TieredConnection{
			Connection:      conn,
			Tier:            tier,
			LastMessageDate: lastMessage,
		})
	}
	return enriched
}

// SummariseTiers builds the tier distribution from enriched connections.
func SummariseTiers(enriched []TieredConnection) TierSummary {
	distribution := make(map[string]int)
	for _, conn := range enriched {
		distribution[conn.Tier]++
	}
	return TierSummary{
		Distribution: distribution,
		Total:        len(enriched),
		Connections:  enriched,
	}
}
