package protocol

import (
	"sort"

	"github.com/torontoai/parley/core"
)

// Transition routes a message type to the next state, optionally gated by a
// condition. A nil Condition means the transition always fires.
type Transition struct {
	NextStateID string
	Condition   *Condition
}

// State is a single node of a protocol state machine. It knows which message
// types it accepts and, per type, at most one transition out. States are
// mutable while a protocol is being assembled and must be left alone once the
// protocol is registered; reads are then safe from any goroutine.
type State struct {
	ID          string
	Description string
	Initial     bool
	Terminal    bool

	validTypes  map[string]struct{}
	transitions map[string]Transition
}

// NewState creates a plain (non-initial, non-terminal) state.
func NewState(id, description string) *State {
	return &State{
		ID:          id,
		Description: description,
		validTypes:  map[string]struct{}{},
		transitions: map[string]Transition{},
	}
}

// NewInitialState creates a state flagged as the protocol entry point.
func NewInitialState(id, description string) *State {
	s := NewState(id, description)
	s.Initial = true
	return s
}

// NewTerminalState creates a state that completes conversations reaching it.
func NewTerminalState(id, description string) *State {
	s := NewState(id, description)
	s.Terminal = true
	return s
}

// AddValidMessageType marks messages of type t acceptable in this state.
// Adding the same type twice is a no-op.
func (s *State) AddValidMessageType(t string) {
	s.validTypes[t] = struct{}{}
}

// AddTransition wires messages of type t to nextStateID, implicitly marking t
// valid. cond may be nil for an unconditional transition. Registering a
// second transition for the same type replaces the first.
func (s *State) AddTransition(t, nextStateID string, cond *Condition) {
	s.validTypes[t] = struct{}{}
	s.transitions[t] = Transition{NextStateID: nextStateID, Condition: cond}
}

// IsMessageValid reports whether messages of type t are accepted here.
func (s *State) IsMessageValid(t string) bool {
	_, ok := s.validTypes[t]
	return ok
}

// NextStateID resolves the transition for msg. It returns false when no
// transition is declared for the message type or its condition does not
// hold; a valid message without a firing transition keeps the conversation
// in place. Side-effect free.
func (s *State) NextStateID(msg core.Message) (string, bool) {
	tr, ok := s.transitions[msg.Content.Type()]
	if !ok {
		return "", false
	}
	if tr.Condition != nil && !tr.Condition.Evaluate(msg) {
		return "", false
	}
	return tr.NextStateID, true
}

// ValidMessageTypes returns the accepted message types in sorted order.
func (s *State) ValidMessageTypes() []string {
	types := make([]string, 0, len(s.validTypes))
	for t := range s.validTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Transitions returns a copy of the transition table keyed by message type.
func (s *State) Transitions() map[string]Transition {
	out := make(map[string]Transition, len(s.transitions))
	for t, tr := range s.transitions {
		out[t] = tr
	}
	return out
}
