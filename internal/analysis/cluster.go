package analysis

import (
	"sort"
	"strings"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// Cluster is a group of connections sharing a role family.
type Cluster struct {
	Name         string                `json:"name"`
	Count        int                   `json:"count"`
	TopCompanies []string              `json:"top_companies"`
	Connections  []linkedin.Connection `json:"connections"`
}

// CompanyCategory is a group of company follows sharing an industry.
type CompanyCategory struct {
	Name      string   `json:"name"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}

// topListSize bounds the top-companies and top-roles lists.
const topListSize = 10

// ClusterNetwork groups connections into role clusters by position
// keywords. The first matching cluster definition wins; connections no
// keyword matches land in "Other / Unclassified". Clusters come back
// largest first.
func ClusterNetwork(connections []linkedin.Connection) []Cluster {
	buckets := make(map[string][]linkedin.Connection)
	var unmatched []linkedin.Connection

	for _, conn := range connections {
		position := strings.ToLower(conn.Position)
		matched := false
		for _, def := range clusterDefinitions {
			if containsAny(position, def.keywords) {
				buckets[def.name] = append(buckets[def.name], conn)
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, conn)
		}
	}

	var clusters []Cluster
	for _, def := range clusterDefinitions {
		members, ok := buckets[def.name]
		if !ok {
			continue
		}
		clusters = append(clusters, Cluster{
			Name:         def.name,
			Count:        len(members),
			TopCompanies: topCompanies(members),
			Connections:  members,
		})
	}
	if len(unmatched) > 0 {
		clusters = append(clusters, Cluster{
			Name:         unclassifiedCluster,
			Count:        len(unmatched),
			TopCompanies: topCompanies(unmatched),
			Connections:  unmatched,
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}

// CategorizeCompanies classifies company follows into industry buckets by
// name keywords, largest bucket first.
func CategorizeCompanies(follows []linkedin.CompanyFollow) []CompanyCategory {
	buckets := make(map[string][]linkedin.CompanyFollow)
	var unmatched []linkedin.CompanyFollow

	for _, follow := range follows {
		company := strings.ToLower(follow.Company)
		matched := false
		for _, def := range industryDefinitions {
			if containsAny(company, def.keywords) {
				buckets[def.name] = append(buckets[def.name], follow)
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, follow)
		}
	}

	var categories []CompanyCategory
	appendCategory := func(name string, members []linkedin.CompanyFollow) {
		names := make([]string, len(members))
		for i, m := range members {
			names[i] = m.Company
		}
		categories = append(categories, CompanyCategory{
			Name:      name,
			Count:     len(members),
			Companies: names,
		})
	}

	for _, def := range industryDefinitions {
		if members, ok := buckets[def.name]; ok {
			appendCategory(def.name, members)
		}
	}
	if len(unmatched) > 0 {
		appendCategory(uncategorisedIndustry, unmatched)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Count > categories[j].Count
	})
	return categories
}

// containsAny reports whether s contains any of the keywords as a
// substring. s must already be lowercased.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// topCompanies returns the most common non-empty company names among the
// given connections, capped at topListSize.
func topCompanies(connections []linkedin.Connection) []string {
	counts := make(map[string]int)
	for _, conn := range connections {
		if conn.Company != "" {
			counts[conn.Company]++
		}
	}
	return topKeys(counts, topListSize)
}

// topKeys returns the keys of counts sorted by count descending (name
// ascending on ties), capped at limit.
func topKeys(counts map[string]int, limit int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
