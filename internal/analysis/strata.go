package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// CareerPhase is one era of a career used to stratify the connection list.
type CareerPhase struct {
	Label     string
	StartYear int
	EndYear   int
}

// Position is a role in the member's own work history, used to derive
// phase boundaries when provided.
type Position struct {
	Title     string
	StartDate *time.Time
}

// defaultPhases is the fallback stratification when no position history is
// available.
var defaultPhases = []CareerPhase{
	{Label: "Early Career", StartYear: 2010, EndYear: 2014},
	{Label: "Growth Phase", StartYear: 2015, EndYear: 2018},
	{Label: "Senior Phase", StartYear: 2019, EndYear: 2022},
	{Label: "Current Phase", StartYear: 2023, EndYear: 2030},
}

// openEndedPhaseEndYear closes the final derived phase.
const openEndedPhaseEndYear = 2030

// Stratum is one career phase with the connections made during it.
type Stratum struct {
	Label        string   `json:"label"`
	StartYear    int      `json:"start_year"`
	EndYear      int      `json:"end_year"`
	Count        int      `json:"count"`
	TopCompanies []string `json:"top_companies"`
	TopRoles     []string `json:"top_roles"`
}

// BuildCareerStrata groups connections by connected-on year into career
// phases. When positions are provided, each position opens a phase that
// runs until the year before the next one starts; otherwise the default
// four-phase bucketing applies.
func BuildCareerStrata(connections []linkedin.Connection, positions []Position) []Stratum {
	phases := defaultPhases
	if derived := derivePhases(positions); len(derived) > 0 {
		phases = derived
	}

	strata := make([]Stratum, 0, len(phases))
	for _, phase := range phases {
		var bucket []linkedin.Connection
		for _, conn := range connections {
			if conn.ConnectedOn == nil {
				continue
			}
			year := conn.ConnectedOn.Year()
			if phase.StartYear <= year && year <= phase.EndYear {
				bucket = append(bucket, conn)
			}
		}

		companies := make(map[string]int)
		roles := make(map[string]int)
		for _, conn := range bucket {
			if conn.Company != "" {
				companies[conn.Company]++
			}
			if conn.Position != "" {
				roles[conn.Position]++
			}
		}

		strata = append(strata, Stratum{
			Label:        phase.Label,
			StartYear:    phase.StartYear,
			EndYear:      phase.EndYear,
			Count:        len(bucket),
			TopCompanies: topKeys(companies, topListSize),
			TopRoles:     topKeys(roles, topListSize),
		})
	}
	return strata
}

// derivePhases builds phase boundaries from a position history. Positions
// without a start date are ignored; the last phase stays open-ended.
func derivePhases(positions []Position) []CareerPhase {
	var dated []Position
	for _, pos := range positions {
		if pos.StartDate != nil {
			dated = append(dated, pos)
		}
	}
	if len(dated) == 0 {
		return nil
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].StartDate.Before(*dated[j].StartDate)
	})

	phases := make([]CareerPhase, 0, len(dated))
	for i, pos := range dated {
		endYear := openEndedPhaseEndYear
		if i+1 < len(dated) {
			endYear = dated[i+1].StartDate.Year() - 1
		}
		label := pos.Title
		if label == "" {
			label = fmt.Sprintf("Phase %d", i+1)
		}
		phases = append(phases, CareerPhase{
			Label:     label,
			StartYear: pos.StartDate.Year(),
			EndYear:   endYear,
		})
	}
	return phases
}
