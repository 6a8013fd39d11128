// Package sanitize replaces identifying information in a parsed LinkedIn
// export with plausible fakes while preserving everything the analyses
// depend on: dates, conversation structure, cluster sizes, the spam/genuine
// character of messages, and invitation directions all survive unchanged,
// so visualizations built from sanitized data look like the real thing.
package sanitize

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/thatrebeccarae/claude-code-skills/internal/analysis"
	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// DefaultSeed seeds a Sanitizer when the caller has no preference.
const DefaultSeed = 42

// The name map and message replacement run on their own fixed seeds so
// those mappings stay stable across runs regardless of the configured seed.
const (
	nameMapSeed = 42
	messageSeed = 99

	maxNameAttempts = 50
)

// sanitizedSubject replaces every non-empty message subject.
const sanitizedSubject = "Re: Connection"

// FakeName is the replacement identity for one real person.
type FakeName struct {
	FirstName string
	LastName  string
	Full      string
}

// NameMap maps real full names to their replacements.
type NameMap map[string]FakeName

// Report summarises what a sanitization run replaced.
type Report struct {
	NamesMapped     int
	CompaniesMapped int
}

// Sanitizer anonymises a parsed export. The seed given to New drives the
// residual random choices (email domains, invitation notes, the gender
// fallback for unparseable first names).
type Sanitizer struct {
	rng *rand.Rand
}

func New(seed int64) *Sanitizer {
	return &Sanitizer{rng: rand.New(rand.NewSource(seed))}
}

// SanitizeAll runs the full pipeline: connection names and emails,
// companies, message senders and bodies, and invitation parties.
// Ad-targeting attributes and inferences are LinkedIn's own generic
// category labels, not PII, and pass through untouched.
func (s *Sanitizer) SanitizeAll(export *linkedin.Export) (*linkedin.Export, Report) {
	out := cloneExport(export)

	names := s.BuildNameMap(out.Connections)

	for i := range out.Connections {
		conn := &out.Connections[i]
		if fake, ok := names[realFullName(*conn)]; ok {
			conn.FirstName = fake.FirstName
			conn.LastName = fake.LastName
		}
		if conn.EmailAddress != "" {
			domain := fakeEmailDomains[s.rng.Intn(len(fakeEmailDomains))]
			conn.EmailAddress = fmt.Sprintf("%s.%s@%s",
				strings.ToLower(conn.FirstName), strings.ToLower(conn.LastName), domain)
		}
	}

	out, companyMap := s.SanitizeCompanies(out)
	out.Messages = s.SanitizeMessages(out.Messages, names)

	for i := range out.Invitations {
		inv := &out.Invitations[i]
		inv.FromName = replaceName(inv.FromName, names)
		inv.ToName = replaceName(inv.ToName, names)
		if inv.Message != "" {
			inv.Message = genuineTemplates[s.rng.Intn(len(genuineTemplates))]
		}
	}

	return out, Report{NamesMapped: len(names), CompaniesMapped: len(companyMap)}
}

// BuildNameMap creates a one-to-one real-to-fake name mapping over the
// connection list, preserving the rough gender distribution. The mapping
// is deterministic: pools are shuffled with a fixed seed and assigned in
// rotation, so re-running sanitization maps everyone the same way.
func (s *Sanitizer) BuildNameMap(connections []linkedin.Connection) NameMap {
	rng := rand.New(rand.NewSource(nameMapSeed))

	femininePool := shuffled(rng, fakeFirstNamesFeminine)
	masculinePool := shuffled(rng, fakeFirstNamesMasculine)
	lastPool := shuffled(rng, fakeLastNames)

	nameMap := make(NameMap)
	used := make(map[string]struct{})
	var feminineIdx, masculineIdx, lastIdx int

	for _, conn := range connections {
		realFull := realFullName(conn)
		if realFull == "" {
			continue
		}
		if _, mapped := nameMap[realFull]; mapped {
			continue
		}

		gender := s.guessGender(conn.FirstName)
		for attempt := 0; attempt < maxNameAttempts; attempt++ {
			var fakeFirst string
			if gender == "F" {
				fakeFirst = femininePool[feminineIdx%len(femininePool)]
				feminineIdx++
			} else {
				fakeFirst = masculinePool[masculineIdx%len(masculinePool)]
				masculineIdx++
			}
			fakeLast := lastPool[lastIdx%len(lastPool)]
			lastIdx++

			fakeFull := fakeFirst + " " + fakeLast
			if _, taken := used[fakeFull]; taken {
				continue
			}
			used[fakeFull] = struct{}{}
			nameMap[realFull] = FakeName{
				FirstName: fakeFirst,
				LastName:  fakeLast,
				Full:      fakeFull,
			}
			break
		}
	}
	return nameMap
}

// SanitizeCompanies replaces company names across connections and company
// follows with tier-matched fakes: a skincare brand maps to a fake DTC
// name, a recruiting firm to a fake recruiting firm. The same real name
// always maps to the same fake. Real names are processed in sorted order
// so the mapping is deterministic. Returns the sanitized copy and the map.
func (s *Sanitizer) SanitizeCompanies(export *linkedin.Export) (*linkedin.Export, map[string]string) {
	out := cloneExport(export)

	companies := make(map[string]struct{})
	for _, conn := range out.Connections {
		if c := strings.TrimSpace(conn.Company); c != "" {
			companies[c] = struct{}{}
		}
	}
	for _, follow := range out.CompanyFollows {
		if c := strings.TrimSpace(follow.Company); c != "" {
			companies[c] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(companies))
	for c := range companies {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	companyMap := make(map[string]string, len(sorted))
	used := make(map[string]struct{})
	indices := make(map[string]int)

	for _, realName := range sorted {
		industry := classifyCompany(realName)
		pool := fakeCompanies[industry]
		idx := indices[industry]

		fakeName := ""
		for offset := 0; offset < len(pool); offset++ {
			candidate := pool[(idx+offset)%len(pool)]
			if _, taken := used[candidate]; !taken {
				fakeName = candidate
				indices[industry] = (idx + offset + 1) % len(pool)
				break
			}
		}
		if fakeName == "" {
			// Pool exhausted; fall back to a numbered variant.
			fakeName = fmt.Sprintf("%s (%d)", pool[idx%len(pool)], len(used))
			indices[industry] = idx + 1
		}

		used[fakeName] = struct{}{}
		companyMap[realName] = fakeName
	}

	for i := range out.Connections {
		if fake, ok := companyMap[strings.TrimSpace(out.Connections[i].Company)]; ok {
			out.Connections[i].Company = fake
		}
	}
	for i := range out.CompanyFollows {
		if fake, ok := companyMap[strings.TrimSpace(out.CompanyFollows[i].Company)]; ok {
			out.CompanyFollows[i].Company = fake
		}
	}
	return out, companyMap
}

// SanitizeMessages replaces sender names and message bodies while keeping
// dates and conversation IDs. Noisy messages get a noise template and
// genuine ones a genuine template, so inbox classification over the
// sanitized data produces the same splits as over the original.
func (s *Sanitizer) SanitizeMessages(messages []linkedin.Message, names NameMap) []linkedin.Message {
	rng := rand.New(rand.NewSource(messageSeed))

	out := append([]linkedin.Message(nil), messages...)
	for i := range out {
		out[i].Sender = replaceName(out[i].Sender, names)
		if analysis.IsSpam(out[i].Content) {
			out[i].Content = noiseTemplates[rng.Intn(len(noiseTemplates))]
		} else {
			out[i].Content = genuineTemplates[rng.Intn(len(genuineTemplates))]
		}
		if out[i].Subject != "" {
			out[i].Subject = sanitizedSubject
		}
	}
	return out
}

// guessGender makes a rough F/M guess from common feminine name endings.
// It only steers which replacement pool a name draws from.
func (s *Sanitizer) guessGender(firstName string) string {
	name := strings.ToLower(strings.TrimSpace(firstName))
	if name == "" {
		if s.rng.Intn(2) == 0 {
			return "M"
		}
		return "F"
	}
	for _, ending := range feminineEndings {
		if strings.HasSuffix(name, ending) {
			return "F"
		}
	}
	return "M"
}

// replaceName swaps a real name for its mapped fake, or a hash-derived
// fake when the name never appeared in the connection list. Empty names
// stay empty.
func replaceName(realName string, names NameMap) string {
	trimmed := strings.TrimSpace(realName)
	if trimmed == "" {
		return realName
	}
	if fake, ok := names[trimmed]; ok {
		return fake.Full
	}
	return hashToName(trimmed)
}

// hashToName deterministically maps an unmapped name to a fake one, so
// the same sender gets the same replacement in every conversation.
func hashToName(realName string) string {
	sum := md5.Sum([]byte(realName))
	h := binary.BigEndian.Uint64(sum[:8])

	firstPool := append(append([]string(nil), fakeFirstNamesFeminine...), fakeFirstNamesMasculine...)
	first := firstPool[h%uint64(len(firstPool))]
	last := fakeLastNames[(h>>8)%uint64(len(fakeLastNames))]
	return first + " " + last
}

// classifyCompany picks the replacement pool for a real company name.
func classifyCompany(name string) string {
	lower := strings.ToLower(name)
	for _, def := range industryKeywords {
		for _, kw := range def.keywords {
			if strings.Contains(lower, kw) {
				return def.industry
			}
		}
	}
	return otherIndustry
}

// realFullName normalises a connection's name into the name-map key.
func realFullName(conn linkedin.Connection) string {
	first := strings.TrimSpace(conn.FirstName)
	last := strings.TrimSpace(conn.LastName)
	return strings.TrimSpace(first + " " + last)
}

// shuffled returns a shuffled copy, leaving the source pool intact.
func shuffled(rng *rand.Rand, pool []string) []string {
	out := append([]string(nil), pool...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// cloneExport copies the export so sanitization never mutates the input.
func cloneExport(export *linkedin.Export) *linkedin.Export {
	out := &linkedin.Export{
		Connections:    append([]linkedin.Connection(nil), export.Connections...),
		Messages:       append([]linkedin.Message(nil), export.Messages...),
		Invitations:    append([]linkedin.Invitation(nil), export.Invitations...),
		CompanyFollows: append([]linkedin.CompanyFollow(nil), export.CompanyFollows...),
		Inferences:     append([]linkedin.Inference(nil), export.Inferences...),
		Shares:         append([]linkedin.Share(nil), export.Shares...),
	}
	if export.AdTargeting != nil {
		out.AdTargeting = make(linkedin.AdTargeting, len(export.AdTargeting))
		for key, values := range export.AdTargeting {
			out.AdTargeting[key] = append([]string(nil), values...)
		}
	}
	return out
}
