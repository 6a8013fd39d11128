// Package linkedin parses LinkedIn's CSV data-export archive into structured
// records. It handles the export's known quirks: junk header lines in
// Connections.csv, a UTF-8 BOM on every file, semicolon-packed cells in
// Ad_Targeting.csv, null conversation IDs in messages, and two different
// date formats used across files.
package linkedin

import "time"

// Invitation directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Connection is one row of Connections.csv.
type Connection struct {
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Company      string     `json:"company"`
	Position     string     `json:"position"`
	ConnectedOn  *time.Time `json:"connected_on"`
	EmailAddress string     `json:"email_address"`
}

// FullName returns "First Last" with surrounding whitespace trimmed.
func (c Connection) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

// Message is one row of messages.csv. ConversationID is empty for orphan
// messages (LinkedIn exports some rows with a null CONVERSATION ID).
type Message struct {
	ConversationID string     `json:"conversation_id,omitempty"`
	Sender         string     `json:"sender"`
	Date           *time.Time `json:"date"`
	Subject        string     `json:"subject"`
	Content        string     `json:"content"`
}

// Invitation is one row of Invitations.csv. Direction is normalised to
// DirectionInbound or DirectionOutbound.
type Invitation struct {
	FromName  string     `json:"from_name"`
	ToName    string     `json:"to_name"`
	Date      *time.Time `json:"date"`
	Direction string     `json:"direction"`
	Message   string     `json:"message"`
}

// CompanyFollow is one row of Company Follows.csv.
type CompanyFollow struct {
	Company    string     `json:"company"`
	FollowedOn *time.Time `json:"followed_on"`
}

// Inference is one row of Inferences_about_you.csv, LinkedIn's ad-targeting
// inferences about the member.
type Inference struct {
	Category    string `json:"category"`
	Inference   string `json:"inference"`
	Description string `json:"description"`
}

// Share is one row of Shares.csv (the member's own posts).
type Share struct {
	Date       *time.Time `json:"date"`
	Commentary string     `json:"commentary"`
	Visibility string     `json:"visibility"`
}

// AdTargeting maps normalised ad-targeting attribute names (job_titles,
// interests, skills, ...) to their value lists. The source file packs
// multiple values into single cells separated by semicolons.
type AdTargeting map[string][]string

// Export is the full parsed archive.
type Export struct {
	Connections    []Connection    `json:"connections"`
	Messages       []Message       `json:"messages"`
	Invitations    []Invitation    `json:"invitations"`
	CompanyFollows []CompanyFollow `json:"company_follows"`
	Inferences     []Inference     `json:"inferences"`
	AdTargeting    AdTargeting     `json:"ad_targeting"`
	Shares         []Share         `json:"shares"`
}

// Counts returns per-record-type row counts, keyed the same way the Export
// JSON is.
func (e *Export) Counts() map[string]int {
	return map[string]int{
		"connections":     len(e.Connections),
		"messages":        len(e.Messages),
		"invitations":     len(e.Invitations),
		"company_follows": len(e.CompanyFollows),
		"inferences":      len(e.Inferences),
		"ad_targeting":    len(e.AdTargeting),
		"shares":          len(e.Shares),
	}
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
