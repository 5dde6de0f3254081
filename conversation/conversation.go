package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/protocol"
)

// Options configures a conversation at creation time.
type Options struct {
	// MaxHistorySize bounds the history to the most recent N records.
	// 0 keeps everything.
	MaxHistorySize int

	// Metadata seeds the conversation's metadata map.
	Metadata map[string]any
}

// Conversation is a single governed exchange: a protocol instance bound to
// participants, tracking the current state and an ordered history of message
// records. It is safe for concurrent access.
//
// Contract:
//   - AddMessage is atomic: a rejected message mutates nothing
//   - History is append-only; records are never rewritten
//   - Status moves active -> completed once a terminal state is reached and
//     never back
//   - Once archived the conversation is immutable and rejects messages
//   - GetHistory and Clone return defensive copies.
type Conversation struct {
	ID              string               `json:"id"`
	ProtocolID      string               `json:"protocol_id"`
	ProtocolVersion string               `json:"protocol_version"`
	Participants    []core.Participant   `json:"participants"`
	CurrentStateID  string               `json:"current_state"`
	History         []core.MessageRecord `json:"history"`
	Metadata        map[string]any       `json:"metadata"`
	Created         time.Time            `json:"created_at"`
	Updated         time.Time            `json:"updated_at"`
	Status          core.Status          `json:"status"`

	proto      *protocol.Protocol
	maxHistory int
	archived   bool
	mu         sync.RWMutex
}

// Delivery describes an accepted message: the record written, the state
// before and after, and whether the conversation now sits in a terminal
// state.
type Delivery struct {
	Record     core.MessageRecord
	FromState  string
	NewState   string
	IsTerminal bool
}

// New creates a conversation anchored at proto's initial state. It fails
// when the protocol declares no initial state; registering through an
// engine.Manager rules that out up front.
func New(id string, proto *protocol.Protocol, participants []core.Participant, optFns ...func(o *Options)) (*Conversation, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	initial, ok := proto.GetInitialState()
	if !ok {
		return nil, fmt.Errorf("protocol %s@%s has no initial state", proto.ID, proto.Version)
	}

	parts := make([]core.Participant, len(participants))
	copy(parts, participants)

	metadata := make(map[string]any, len(opts.Metadata))
	for k, v := range opts.Metadata {
		metadata[k] = v
	}

	now := time.Now().UTC()
	return &Conversation{
		ID:              id,
		ProtocolID:      proto.ID,
		ProtocolVersion: proto.Version,
		Participants:    parts,
		CurrentStateID:  initial.ID,
		History:         []core.MessageRecord{},
		Metadata:        metadata,
		Created:         now,
		Updated:         now,
		Status:          core.StatusActive,
		proto:           proto,
		maxHistory:      opts.MaxHistorySize,
	}, nil
}

// AddMessage validates msg against the current protocol state and, when
// accepted, appends a record, follows the transition for the message type if
// one fires, and updates status. The whole step happens under the
// conversation lock; on error nothing changes.
//
// The record timestamp is the message's created_at when present, otherwise
// the current time.
func (c *Conversation) AddMessage(msg core.Message) (*Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.archived {
		return nil, core.ErrConversationArchived
	}
	if msg.Content.Type() == "" {
		return nil, core.ErrMalformedMessage
	}
	if !c.proto.ValidateMessage(msg, c.CurrentStateID) {
		return nil, core.ErrInvalidMessage
	}

	ts := msg.Metadata.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec := core.MessageRecord{
		MessageID:      msg.ID,
		Sender:         msg.Sender.ID,
		Timestamp:      ts,
		StateAtTime:    c.CurrentStateID,
		ContentSummary: summarize(msg.Content),
	}
	c.History = append(c.History, rec)
	if c.maxHistory > 0 && len(c.History) > c.maxHistory {
		c.History = c.History[len(c.History)-c.maxHistory:]
	}

	from := c.CurrentStateID
	if next, ok := c.proto.GetNextStateID(msg, c.CurrentStateID); ok {
		c.CurrentStateID = next
	}
	c.Updated = time.Now().UTC()

	terminal := c.proto.IsTerminalState(c.CurrentStateID)
	if terminal {
		c.Status = core.StatusCompleted
	}

	return &Delivery{
		Record:     rec,
		FromState:  from,
		NewState:   c.CurrentStateID,
		IsTerminal: terminal,
	}, nil
}

// GetHistory returns a defensive copy of the message records.
func (c *Conversation) GetHistory() []core.MessageRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	history := make([]core.MessageRecord, len(c.History))
	copy(history, c.History)
	return history
}

// ContextSummary returns the lightweight projection used for listings:
// identifiers, participants, current state, history length and timestamps.
func (c *Conversation) ContextSummary() core.ContextSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	parts := make([]core.Participant, len(c.Participants))
	copy(parts, c.Participants)
	return core.ContextSummary{
		ConversationID:  c.ID,
		ProtocolID:      c.ProtocolID,
		ProtocolVersion: c.ProtocolVersion,
		Participants:    parts,
		CurrentState:    c.CurrentStateID,
		HistoryLength:   len(c.History),
		CreatedAt:       c.Created,
		UpdatedAt:       c.Updated,
		Status:          c.Status,
	}
}

// HasParticipant reports whether agentID takes part in this conversation.
func (c *Conversation) HasParticipant(agentID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.Participants {
		if p.ID == agentID {
			return true
		}
	}
	return false
}

// LastUpdated returns the Updated timestamp under the conversation lock.
func (c *Conversation) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Updated
}

// CurrentStatus returns the status under the conversation lock.
func (c *Conversation) CurrentStatus() core.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Status
}

// Protocol returns the protocol this conversation follows. The protocol is
// shared and read-only.
func (c *Conversation) Protocol() *protocol.Protocol {
	return c.proto
}

// Archive marks the conversation immutable. The engine calls this while
// moving the object from the active to the archived registry; from then on
// AddMessage fails with core.ErrConversationArchived.
func (c *Conversation) Archive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.archived = true
}

// IsArchived reports whether the conversation has been archived.
func (c *Conversation) IsArchived() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.archived
}

// Clone returns a deep copy safe for independent reads, sharing only the
// immutable protocol pointer.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{
		ID:              c.ID,
		ProtocolID:      c.ProtocolID,
		ProtocolVersion: c.ProtocolVersion,
		Participants:    make([]core.Participant, len(c.Participants)),
		CurrentStateID:  c.CurrentStateID,
		History:         make([]core.MessageRecord, len(c.History)),
		Metadata:        make(map[string]any, len(c.Metadata)),
		Created:         c.Created,
		Updated:         c.Updated,
		Status:          c.Status,
		proto:           c.proto,
		maxHistory:      c.maxHistory,
		archived:        c.archived,
	}
	copy(clone.Participants, c.Participants)
	copy(clone.History, c.History)
	for k, v := range c.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
