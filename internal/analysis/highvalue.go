package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/thatrebeccarae/claude-code-skills/internal/linkedin"
)

// Score weights for high-value message ranking.
const (
	scoreKnownConnection = 2
	scoreSeniorSender    = 3
	scoreNotSpam         = 2
	scoreSpamPenalty     = -3
	scoreActionable      = 2
	scoreRecent          = 1

	recentMessageDays = 90
)

// ScoredMessage is the last message of a conversation with its value score.
type ScoredMessage struct {
	linkedin.Message
	Score          int    `json:"score"`
	IsConnection   bool   `json:"is_connection"`
	SenderPosition string `json:"sender_position"`
}

// IdentifyHighValueMessages finds the most recent message in each
// conversation and ranks it by potential value: known connections score
// higher, senior senders higher still, spam is penalised, actionable
// language and recency add bonuses. The result is sorted best first.
func IdentifyHighValueMessages(messages []linkedin.Message, connections []linkedin.Connection, now time.Time) []ScoredMessage {
	connectionsByName := make(map[string]linkedin.Connection)
	for _, conn := range connections {
		name := strings.ToLower(conn.FullName())
		if name != "" {
			connectionsByName[name] = conn
		}
	}

	// Orphan messages (empty conversation ID) share one bucket, matching
	// how the export groups them.
	conversations := make(map[string][]linkedin.Message)
	var order []string
	for _, msg := range messages {
		if _, seen := conversations[msg.ConversationID]; !seen {
			order = append(order, msg.ConversationID)
		}
		conversations[msg.ConversationID] = append(conversations[msg.ConversationID], msg)
	}

	var scored []ScoredMessage
	for _, convID := range order {
		var dated []linkedin.Message
		for _, msg := range conversations[convID] {
			if msg.Date != nil {
				dated = append(dated, msg)
			}
		}
		if len(dated) == 0 {
			continue
		}
		sort.SliceStable(dated, func(i, j int) bool {
			return dated[i].Date.Before(*dated[j].Date)
		})
		last := dated[len(dated)-1]

		content := strings.ToLower(last.Content)
		sender := strings.ToLower(last.Sender)

		score := 0
		conn, isConnection := connectionsByName[sender]
		if isConnection {
			score += scoreKnownConnection
			if containsAny(strings.ToLower(conn.Position), seniorKeywords) {
				score += scoreSeniorSender
			}
		}

		if IsSpam(content) {
			score += scoreSpamPenalty
		} else {
			score += scoreNotSpam
		}

		if containsAny(content, actionableKeywords) {
			score += scoreActionable
		}

		if daysAgo := int(now.Sub(*last.Date).Hours() / 24); daysAgo <= recentMessageDays {
			score += scoreRecent
		}

		senderPosition := ""
		if isConnection {
			senderPosition = conn.Position
		}
		scored = append(scored, ScoredMessage{
			Message:        last,
			Score:          score,
			IsConnection:   isConnection,
			SenderPosition: senderPosition,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
