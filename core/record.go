package core

import "time"

// Status is the lifecycle state of a conversation. A conversation is active
// until it reaches a terminal protocol state, after which it is completed.
// Status never moves backwards.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// String returns the status label.
func (s Status) String() string { return string(s) }

// MessageRecord is an immutable history entry. Conversations store records
// rather than full messages: enough to reconstruct who said what kind of
// thing when, and in which protocol state, without retaining payloads.
type MessageRecord struct {
	MessageID      string    `json:"message_id"`
	Sender         string    `json:"sender"`
	Timestamp      time.Time `json:"timestamp"`
	StateAtTime    string    `json:"state_at_time"`
	ContentSummary string    `json:"content_summary"`
}

// ContextSummary is a lightweight projection of a conversation for listings
// and agent-facing context windows. It carries counts and identifiers only,
// never history contents.
type ContextSummary struct {
	ConversationID  string        `json:"conversation_id"`
	ProtocolID      string        `json:"protocol_id"`
	ProtocolVersion string        `json:"protocol_version"`
	Participants    []Participant `json:"participants"`
	CurrentState    string        `json:"current_state"`
	HistoryLength   int           `json:"history_length"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Status          Status        `json:"status"`
}
