package linkedin

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kurtosis-tech/stacktrace"
)

// fileCandidates maps each record type to the filenames LinkedIn has been
// observed to use for it, in preference order.
var fileCandidates = map[string][]string{
	"connections": {"Connections.csv", "connections.csv"},
	"messages":    {"messages.csv", "Messages.csv"},
	"invitations": {"Invitations.csv", "invitations.csv", "Sent Invitations.csv"},
	"company_follows": {
		"Company Follows.csv",
		"Company_Follows.csv",
		"company_follows.csv",
	},
	"inferences": {
		"Inferences_about_you.csv",
		"Inferences.csv",
		"inferences.csv",
	},
	"ad_targeting": {"Ad_Targeting.csv", "Ad Targeting.csv", "ad_targeting.csv"},
	"shares":      {"Shares.csv", "shares.csv"},
}

// connectionsJunkLines is the number of note/blank lines LinkedIn prepends
// to Connections.csv before the real header row.
const connectionsJunkLines = 3

// ParseConnections parses Connections.csv. The first three lines of the
// file are export notes, not CSV; the real header starts on line four.
func ParseConnections(path string) ([]Connection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read connections file '%s'", path)
	}

	text := stripBOM(string(raw))
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > connectionsJunkLines {
		text = strings.Join(lines[connectionsJunkLines:], "")
	}

	rows, err := readRows(strings.NewReader(text))
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse connections CSV '%s'", path)
	}

	connections := make([]Connection, 0, len(rows))
	for _, row := range rows {
		connections = append(connections, Connection{
			FirstName:    row.get("First Name"),
			LastName:     row.get("Last Name"),
			Company:      row.get("Company"),
			Position:     row.get("Position"),
			ConnectedOn:  ParseDate(row.get("Connected On")),
			EmailAddress: row.get("Email Address"),
		})
	}
	return connections, nil
}

// ParseMessages parses messages.csv. CONVERSATION ID may be null; the empty
// value is preserved so downstream code can group by non-empty IDs and
// count orphans.
func ParseMessages(path string) ([]Message, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse messages file '%s'", path)
	}

	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, Message{
			ConversationID: row.get("CONVERSATION ID"),
			Sender:         row.get("FROM", "SENDER PROFILE URL", "Sender"),
			Date:           ParseDate(row.get("DATE", "Date")),
			Subject:        row.get("SUBJECT", "Subject"),
			Content:        row.get("CONTENT", "Content"),
		})
	}
	return messages, nil
}

// ParseInvitations parses Invitations.csv. Direction comes from the
// Direction column when present; otherwise a populated From field marks the
// invitation as inbound.
func ParseInvitations(path string) ([]Invitation, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse invitations file '%s'", path)
	}

	invitations := make([]Invitation, 0, len(rows))
	for _, row := range rows {
		direction := normaliseDirection(row.get("Direction"), row.get("From"))
		invitations = append(invitations, Invitation{
			FromName:  row.get("From", "From Name"),
			ToName:    row.get("To", "To Name"),
			Date:      ParseDate(row.get("Sent At", "Date")),
			Direction: direction,
			Message:   row.get("Message", "message"),
		})
	}
	return invitations, nil
}

func normaliseDirection(raw, fromName string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lower, "incoming"), strings.Contains(lower, "inbound"):
		return DirectionInbound
	case strings.Contains(lower, "outgoing"), strings.Contains(lower, "outbound"):
		return DirectionOutbound
	case strings.TrimSpace(fromName) != "":
		return DirectionInbound
	default:
		return DirectionOutbound
	}
}

// ParseCompanyFollows parses Company Follows.csv.
func ParseCompanyFollows(path string) ([]CompanyFollow, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse company follows file '%s'", path)
	}

	follows := make([]CompanyFollow, 0, len(rows))
	for _, row := range rows {
		follows = append(follows, CompanyFollow{
			Company:    row.get("Organization", "Company", "Organization Name"),
			FollowedOn: ParseDate(row.get("Followed On", "Date")),
		})
	}
	return follows, nil
}

// ParseInferences parses Inferences_about_you.csv.
func ParseInferences(path string) ([]Inference, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse inferences file '%s'", path)
	}

	inferences := make([]Inference, 0, len(rows))
	for _, row := range rows {
		inferences = append(inferences, Inference{
			Category:    row.get("Category", "Type"),
			Inference:   row.get("Inference", "Description", "Type Description"),
			Description: row.get("Description"),
		})
	}
	return inferences, nil
}

// ParseShares parses Shares.csv (the member's own posts).
func ParseShares(path string) ([]Share, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse shares file '%s'", path)
	}

	shares := make([]Share, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, Share{
			Date:       ParseDate(row.get("Date")),
			Commentary: row.get("ShareCommentary", "Share Commentary"),
			Visibility: row.get("Visibility"),
		})
	}
	return shares, nil
}

var adKeyCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// normaliseAdKey converts ad-targeting column names to snake_case keys:
// "Member Interests" becomes "interests", "Job Titles" becomes "job_titles".
func normaliseAdKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "member ", "")
	key = adKeyCleaner.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// ParseAdTargeting parses Ad_Targeting.csv. The file has a single data row
// whose cells pack multiple values separated by semicolons; each cell is
// split into a value list keyed by the normalised column name.
func ParseAdTargeting(path string) (AdTargeting, error) {
	rows, err := readRowsFromFile(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to parse ad targeting file '%s'", path)
	}

	targeting := AdTargeting{}
	if len(rows) == 0 {
		return targeting, nil
	}

	// Only the first row matters; repeats carry no extra information.
	row := rows[0]
	for i, key := range row.header {
		if strings.TrimSpace(key) == "" {
			continue
		}
		cleanKey := normaliseAdKey(key)
		value := ""
		if i < len(row.values) {
			value = row.values[i]
		}

		items := []string{}
		for _, item := range strings.Split(value, ";") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		targeting[cleanKey] = items
	}
	return targeting, nil
}

// ParseAll parses every known export file found in dir. Missing files yield
// empty record sets rather than errors; only an unreadable directory or a
// malformed file that does exist is an error.
func ParseAll(dir string) (*Export, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to stat export folder '%s'", dir)
	}
	if !info.IsDir() {
		return nil, stacktrace.NewError("export path '%s' is not a directory", dir)
	}

	export := &Export{AdTargeting: AdTargeting{}}

	if path := findFile(dir, fileCandidates["connections"]); path != "" {
		if export.Connections, err = ParseConnections(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["messages"]); path != "" {
		if export.Messages, err = ParseMessages(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["invitations"]); path != "" {
		if export.Invitations, err = ParseInvitations(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["company_follows"]); path != "" {
		if export.CompanyFollows, err = ParseCompanyFollows(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["inferences"]); path != "" {
		if export.Inferences, err = ParseInferences(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["ad_targeting"]); path != "" {
		if export.AdTargeting, err = ParseAdTargeting(path); err != nil {
			return nil, err
		}
	}
	if path := findFile(dir, fileCandidates["shares"]); path != "" {
		if export.Shares, err = ParseShares(path); err != nil {
			return nil, err
		}
	}

	return export, nil
}

// findFile returns the first existing candidate filename inside dir, or ""
// when none exist.
func findFile(dir string, candidates []string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// row is a header-keyed CSV record.
type row struct {
	header []string
	values []string
	index  map[string]int
}

// get returns the trimmed value of the first listed column that exists and
// is non-empty on this row.
func (r row) get(columns ...string) string {
	for _, column := range columns {
		i, ok := r.index[column]
		if !ok || i >= len(r.values) {
			continue
		}
		if value := strings.TrimSpace(r.values[i]); value != "" {
			return value
		}
	}
	return ""
}

func readRowsFromFile(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open '%s'", path)
	}
	defer f.Close()
	return readRows(f)
}

// readRows reads header-keyed CSV rows. A UTF-8 BOM on the first header
// cell is stripped, quoting is lenient, and ragged rows are tolerated.
func readRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to read CSV header")
	}
	if len(header) > 0 {
		header[0] = stripBOM(header[0])
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip malformed rows; the export format is only mostly CSV.
			continue
		}
		rows = append(rows, row{header: header, values: record, index: index})
	}
	return rows, nil
}

func stripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
