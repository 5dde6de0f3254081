package core

import (
	"strings"
	"time"
)

// Participant identifies an agent taking part in a conversation. Role is a
// free-form label ("requester", "provider", "coordinator") carried for
// routing and display; the engine never interprets it.
type Participant struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Metadata carries message envelope information supplied by the sender.
// CreatedAt is optional; conversations fall back to their own clock when it
// is zero. On the wire it is RFC 3339, internally always time.Time.
type Metadata struct {
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Content is the open payload of a message. The engine reads only the "type"
// discriminator and whatever fields condition expressions point at; all other
// keys pass through untouched.
type Content map[string]any

// Type returns the message type discriminator, or "" when absent or not a
// string. A message without a type is malformed and will be rejected by every
// state.
func (c Content) Type() string {
	s, _ := c["type"].(string)
	return s
}

// Subject returns the conversational subject, or "" when absent. Display
// fallbacks are the caller's concern.
func (c Content) Subject() string {
	s, _ := c["subject"].(string)
	return s
}

// Message is the unit of communication between agents. Messages are produced
// outside the engine (by LLM-backed or programmatic agents) and treated as
// immutable once submitted. The engine validates them against the current
// protocol state and records a summary, never the full payload.
type Message struct {
	ID       string      `json:"message_id"`
	Sender   Participant `json:"sender"`
	Metadata Metadata    `json:"metadata"`
	Content  Content     `json:"content"`
}

// NewMessage creates a message of the given content type from sender, with a
// fresh id and a UTC creation timestamp. Additional content fields can be set
// directly on the returned Content map.
func NewMessage(sender Participant, contentType string) Message {
	return Message{
		ID:       NewID(),
		Sender:   sender,
		Metadata: Metadata{CreatedAt: time.Now().UTC()},
		Content:  Content{"type": contentType},
	}
}

// Field resolves a dot-separated path against the message, for example
// "content.priority", "sender.role" or "message_id". The second return is
// false when any segment does not resolve. Nested content maps are walked as
// map[string]any; other value kinds terminate the walk.
func (m Message) Field(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	segs := strings.Split(path, ".")

	var cur any
	switch segs[0] {
	case "message_id":
		cur = m.ID
	case "sender":
		cur = map[string]any{"id": m.Sender.ID, "role": m.Sender.Role}
	case "metadata":
		md := map[string]any{}
		if !m.Metadata.CreatedAt.IsZero() {
			md["created_at"] = m.Metadata.CreatedAt.Format(time.RFC3339)
		}
		cur = md
	case "content":
		cur = map[string]any(m.Content)
	default:
		return nil, false
	}

	for _, seg := range segs[1:] {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
