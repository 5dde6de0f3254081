package testutil

import (
	"github.com/torontoai/parley/protocol"
)

// ProtocolBuilder helps construct protocols with fluent chaining for tests.
// Example:
//
//	p := NewProtocolBuilder("ping", "1.0").
//		Initial("idle", "").
//		Terminal("done", "").
//		Transition("idle", "ping", "done").
//		Build()
//
// States referenced by Transition or Accept before being declared are created
// as plain states on first use; a later Initial or Terminal declaration
// upgrades them in place.
type ProtocolBuilder struct {
	id          string
	version     string
	description string
	states      map[string]*protocol.State
	order       []string
}

// NewProtocolBuilder creates a builder for a protocol with the given id and version.
func NewProtocolBuilder(id, version string) *ProtocolBuilder {
	return &ProtocolBuilder{id: id, version: version, states: map[string]*protocol.State{}}
}

// Description sets the protocol description (chainable).
func (b *ProtocolBuilder) Description(d string) *ProtocolBuilder { b.description = d; return b }

// Initial declares an initial state (chainable).
func (b *ProtocolBuilder) Initial(id, description string) *ProtocolBuilder {
	b.put(protocol.NewInitialState(id, description))
	return b
}

// State declares a plain state (chainable).
func (b *ProtocolBuilder) State(id, description string) *ProtocolBuilder {
	b.put(protocol.NewState(id, description))
	return b
}

// Terminal declares a terminal state (chainable).
func (b *ProtocolBuilder) Terminal(id, description string) *ProtocolBuilder {
	b.put(protocol.NewTerminalState(id, description))
	return b
}

// Accept marks message types valid in a state without adding transitions (chainable).
func (b *ProtocolBuilder) Accept(stateID string, types ...string) *ProtocolBuilder {
	s := b.ensure(stateID)
	for _, t := range types {
		s.AddValidMessageType(t)
	}
	return b
}

// Transition wires messages of msgType from one state to another (chainable).
func (b *ProtocolBuilder) Transition(from, msgType, to string) *ProtocolBuilder {
	b.ensure(from).AddTransition(msgType, to, nil)
	return b
}

// ConditionalTransition wires a condition-gated transition (chainable).
func (b *ProtocolBuilder) ConditionalTransition(from, msgType, to string, cond *protocol.Condition) *ProtocolBuilder {
	b.ensure(from).AddTransition(msgType, to, cond)
	return b
}

// Build returns the assembled *protocol.Protocol. It does not validate;
// tests that need an invalid protocol can build one.
func (b *ProtocolBuilder) Build() *protocol.Protocol {
	p := protocol.New(b.id, b.version, b.description)
	for _, id := range b.order {
		p.AddState(b.states[id])
	}
	return p
}

func (b *ProtocolBuilder) put(s *protocol.State) {
	if existing, ok := b.states[s.ID]; ok {
		// Upgrade a state first seen via ensure, keeping its transitions.
		existing.Description = s.Description
		existing.Initial = s.Initial
		existing.Terminal = s.Terminal
		return
	}
	b.order = append(b.order, s.ID)
	b.states[s.ID] = s
}

func (b *ProtocolBuilder) ensure(id string) *protocol.State {
	if s, ok := b.states[id]; ok {
		return s
	}
	s := protocol.NewState(id, "")
	b.put(s)
	return s
}
