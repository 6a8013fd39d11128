package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// PostingCorrelation relates the member's posting activity to connection
// growth: monthly share counts vs monthly new-connection counts over the
// months where both series overlap, with the Pearson coefficient between
// them. PearsonR is nil when the overlap is too short or either series has
// no variance.
type PostingCorrelation struct {
	Months              []string `json:"months"`
	PostsPerMonth       []int    `json:"posts_per_month"`
	ConnectionsPerMonth []int    `json:"connections_per_month"`
	PearsonR            *float64 `json:"pearson_r"`
	Interpretation      string   `json:"interpretation"`
}

// minCorrelationMonths is the shortest overlap worth correlating.
const minCorrelationMonths = 3

// CorrelatePostingActivity computes the posting-frequency vs
// connection-growth correlation. Both series are bucketed by calendar
// month; months outside the overlapping range of the two series are
// dropped, and months with no activity count as zero.
func CorrelatePostingActivity(shares []linkedin.Share, connections []linkedin.Connection) PostingCorrelation {
	posts := make(map[string]int)
	for _, share := range shares {
		if share.Date != nil {
			posts[share.Date.Format("2006-01")]++
		}
	}
	growth := make(map[string]int)
	for _, conn := range connections {
		if conn.ConnectedOn != nil {
			growth[conn.ConnectedOn.Format("2006-01")]++
		}
	}

	months := overlappingMonths(posts, growth)
	result := PostingCorrelation{
		Months:              months,
		PostsPerMonth:       make([]int, len(months)),
		ConnectionsPerMonth: make([]int, len(months)),
		Interpretation:      "not computable",
	}
	for i, month := range months {
		result.PostsPerMonth[i] = posts[month]
		result.ConnectionsPerMonth[i] = growth[month]
	}

	if len(months) < minCorrelationMonths {
		return result
	}
	r, ok := pearson(result.PostsPerMonth, result.ConnectionsPerMonth)
	if !ok {
		return result
	}
	rounded := math.Round(r*1000) / 1000
	result.PearsonR = &rounded
	result.Interpretation = interpretCorrelation(rounded)
	return result
}

// overlappingMonths returns every calendar month between the later of the
// two series' first months and the earlier of their last months,
// inclusive. Empty when either series is empty.
func overlappingMonths(a, b map[string]int) []string {
	aMonths := sortedKeys(a)
	bMonths := sortedKeys(b)
	if len(aMonths) == 0 || len(bMonths) == 0 {
		return nil
	}

	start := maxString(aMonths[0], bMonths[0])
	end := minString(aMonths[len(aMonths)-1], bMonths[len(bMonths)-1])
	if start > end {
		return nil
	}

	startTime, err := time.Parse("2006-01", start)
	if err != nil {
		return nil
	}
	var months []string
	for t := startTime; t.Format("2006-01") <= end; t = t.AddDate(0, 1, 0) {
		months = append(months, t.Format("2006-01"))
	}
	return months
}

// pearson computes the Pearson correlation coefficient of two equal-length
// integer series. ok is false when either series has zero variance.
func pearson(xs, ys []int) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += float64(xs[i])
		sumY += float64(ys[i])
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx := float64(xs[i]) - meanX
		dy := float64(ys[i]) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// interpretCorrelation maps a coefficient to a coarse label.
func interpretCorrelation(r float64) string {
	abs := math.Abs(r)
	var strength string
	switch {
	case abs >= 0.7:
		strength = "strong"
	case abs >= 0.4:
		strength = "moderate"
	case abs >= 0.2:
		strength = "weak"
	default:
		return "no meaningful correlation"
	}
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return strength + " " + direction
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maxString(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minString(a, b string) string {
	if a < b {
		return a
	}
	return b
}
