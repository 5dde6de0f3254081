package testutil

import (
	"time"

	"github.com/torontoai/parley/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder("request").From("agent1", "requester").Subject("weather").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id        string
	sender    core.Participant
	createdAt time.Time
	msgType   string
	fields    map[string]any
}

// NewMessageBuilder creates a builder for a message of the given content type
// with default sender "agent1" in role "tester".
func NewMessageBuilder(msgType string) *MessageBuilder {
	return &MessageBuilder{
		sender:  core.Participant{ID: "agent1", Role: "tester"},
		msgType: msgType,
		fields:  map[string]any{},
	}
}

// From sets the sending participant (chainable).
func (b *MessageBuilder) From(id, role string) *MessageBuilder {
	b.sender = core.Participant{ID: id, Role: role}
	return b
}

// ID overrides the auto-generated message ID (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// Subject sets the content subject (chainable).
func (b *MessageBuilder) Subject(s string) *MessageBuilder { b.fields["subject"] = s; return b }

// Field sets an arbitrary content field (chainable).
func (b *MessageBuilder) Field(key string, val any) *MessageBuilder { b.fields[key] = val; return b }

// CreatedAt sets the metadata creation timestamp (chainable).
func (b *MessageBuilder) CreatedAt(t time.Time) *MessageBuilder { b.createdAt = t; return b }

// Build constructs the core.Message value.
func (b *MessageBuilder) Build() core.Message {
	content := core.Content{}
	if b.msgType != "" {
		content["type"] = b.msgType
	}
	for k, v := range b.fields {
		content[k] = v
	}

	id := b.id
	if id == "" {
		id = core.NewID()
	}
	return core.Message{
		ID:       id,
		Sender:   b.sender,
		Metadata: core.Metadata{CreatedAt: b.createdAt},
		Content:  content,
	}
}
