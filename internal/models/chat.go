package models

import "time"

// Chat message senders.
const (
	SenderUser    = "user"
	SenderOfficer = "officer"
)

// ValidSender reports whether s is a known message sender.
func ValidSender(s string) bool {
	return s == SenderUser || s == SenderOfficer
}

// ChatSessionPrefix prefixes every chat session id. Session ids are derived
// from the report id so that re-deriving them is idempotent.
const ChatSessionPrefix = "chat_"

// ChatSessionIDFor returns the chat session id for a report.
func ChatSessionIDFor(reportID string) string {
	return ChatSessionPrefix + reportID
}

// ReportIDFromChatSession recovers the owning report id from a chat session
// id. The second return value is false when the id has no session prefix.
func ReportIDFromChatSession(chatID string) (string, bool) {
	if len(chatID) <= len(ChatSessionPrefix) || chatID[:len(ChatSessionPrefix)] != ChatSessionPrefix {
		return "", false
	}
	return chatID[len(ChatSessionPrefix):], true
}

// ChatMessage is one message in a report's chat session. Messages are
// append-only and ordered by timestamp within a session.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	ChatID    string    `db:"chat_id" json:"chat_id"`
	Sender    string    `db:"sender" json:"sender"`
	Text      string    `db:"text" json:"text"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
