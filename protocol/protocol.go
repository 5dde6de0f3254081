package protocol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/torontoai/parley/core"
)

// Protocol is a named, versioned conversation state machine. It owns a set of
// states, exactly one of which must be flagged initial and at least one
// terminal. Assembly happens through AddState; Validate gates registration.
//
// Contract:
//   - AddState keeps last-wins semantics when several states claim initial;
//     Hazards surfaces the conflict rather than silently correcting it
//   - Lookups (GetState, GetInitialState, IsTerminalState) never panic
//   - ValidateMessage / GetNextStateID are side-effect free
//   - After registration the protocol is read-only and safe for concurrent use
type Protocol struct {
	ID          string
	Version     string
	Description string

	states map[string]*State
	order  []string
}

// New creates an empty protocol identified by id and version. Version is a
// dot-separated numeric string ("1.0", "2.1.3") used for registry ordering.
func New(id, version, description string) *Protocol {
	return &Protocol{
		ID:          id,
		Version:     version,
		Description: description,
		states:      map[string]*State{},
	}
}

// AddState inserts s into the protocol. Re-adding an id replaces the state in
// place, preserving its position.
func (p *Protocol) AddState(s *State) {
	if _, ok := p.states[s.ID]; !ok {
		p.order = append(p.order, s.ID)
	}
	p.states[s.ID] = s
}

// GetState returns the state with the given id.
func (p *Protocol) GetState(id string) (*State, bool) {
	s, ok := p.states[id]
	return s, ok
}

// GetInitialState returns the protocol's entry state. When several states
// are flagged initial the last one added wins, matching AddState semantics.
func (p *Protocol) GetInitialState() (*State, bool) {
	var initial *State
	for _, id := range p.order {
		if s := p.states[id]; s.Initial {
			initial = s
		}
	}
	return initial, initial != nil
}

// IsTerminalState reports whether id names a terminal state. Unknown ids are
// not terminal.
func (p *Protocol) IsTerminalState(id string) bool {
	s, ok := p.states[id]
	return ok && s.Terminal
}

// StateIDs returns all state ids in registration order.
func (p *Protocol) StateIDs() []string {
	ids := make([]string, len(p.order))
	copy(ids, p.order)
	return ids
}

// TerminalStateIDs returns the ids of terminal states in registration order.
func (p *Protocol) TerminalStateIDs() []string {
	var ids []string
	for _, id := range p.order {
		if p.states[id].Terminal {
			ids = append(ids, id)
		}
	}
	return ids
}

// ValidateMessage reports whether msg is acceptable in the given current
// state: the state must exist, the message must carry a content type, and
// the state must accept that type. False on every miss, never an error.
func (p *Protocol) ValidateMessage(msg core.Message, currentStateID string) bool {
	s, ok := p.states[currentStateID]
	if !ok {
		return false
	}
	t := msg.Content.Type()
	if t == "" {
		return false
	}
	return s.IsMessageValid(t)
}

// GetNextStateID resolves the transition msg causes from currentStateID.
// False when the state is unknown, no transition matches the message type,
// or the transition's condition does not hold.
func (p *Protocol) GetNextStateID(msg core.Message, currentStateID string) (string, bool) {
	s, ok := p.states[currentStateID]
	if !ok {
		return "", false
	}
	return s.NextStateID(msg)
}

// ValidationError reports the structural problems that make a protocol
// unregisterable.
type ValidationError struct {
	ProtocolID string
	Version    string
	Problems   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("protocol %s@%s invalid: %s", e.ProtocolID, e.Version, strings.Join(e.Problems, "; "))
}

// Validate checks the protocol's structure and returns a *ValidationError
// listing every problem found: missing id or version, no states, no initial
// state, no terminal state, transitions targeting unknown states, or invalid
// conditions. Registration fails fast on any of these.
func (p *Protocol) Validate() error {
	var problems []string
	if p.ID == "" {
		problems = append(problems, "protocol id is required")
	}
	if p.Version == "" {
		problems = append(problems, "protocol version is required")
	}
	if len(p.states) == 0 {
		problems = append(problems, "protocol has no states")
	}

	hasInitial, hasTerminal := false, false
	for _, id := range p.order {
		s := p.states[id]
		if s.ID == "" {
			problems = append(problems, "state with empty id")
			continue
		}
		if s.Initial {
			hasInitial = true
		}
		if s.Terminal {
			hasTerminal = true
		}
		for _, t := range sortedTypes(s.transitions) {
			tr := s.transitions[t]
			if _, ok := p.states[tr.NextStateID]; !ok {
				problems = append(problems, fmt.Sprintf("state %q: transition on %q targets unknown state %q", s.ID, t, tr.NextStateID))
			}
			if tr.Condition != nil {
				if err := tr.Condition.Validate(); err != nil {
					problems = append(problems, fmt.Sprintf("state %q: transition on %q: %v", s.ID, t, err))
				}
			}
		}
	}
	if len(p.states) > 0 && !hasInitial {
		problems = append(problems, "no state is flagged initial")
	}
	if len(p.states) > 0 && !hasTerminal {
		problems = append(problems, "no state is flagged terminal")
	}

	if len(problems) > 0 {
		return &ValidationError{ProtocolID: p.ID, Version: p.Version, Problems: problems}
	}
	return nil
}

// Hazards returns advisory findings that do not block registration: several
// states claiming initial (last wins), terminal states with outgoing
// transitions (terminality gates conversation status only, traffic may
// continue), and states unreachable from the initial state. The engine logs
// these at warn level when the protocol is registered.
func (p *Protocol) Hazards() []string {
	var hazards []string

	var initials []string
	for _, id := range p.order {
		if p.states[id].Initial {
			initials = append(initials, id)
		}
	}
	if len(initials) > 1 {
		hazards = append(hazards, fmt.Sprintf("states %s all claim initial; last registered (%q) wins", strings.Join(initials, ", "), initials[len(initials)-1]))
	}

	for _, id := range p.order {
		s := p.states[id]
		if s.Terminal && len(s.transitions) > 0 {
			hazards = append(hazards, fmt.Sprintf("terminal state %q declares outgoing transitions; terminality gates conversation status only", s.ID))
		}
	}

	if initial, ok := p.GetInitialState(); ok {
		reachable := map[string]bool{initial.ID: true}
		queue := []string{initial.ID}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, tr := range p.states[cur].transitions {
				if _, exists := p.states[tr.NextStateID]; exists && !reachable[tr.NextStateID] {
					reachable[tr.NextStateID] = true
					queue = append(queue, tr.NextStateID)
				}
			}
		}
		for _, id := range p.order {
			if !reachable[id] {
				hazards = append(hazards, fmt.Sprintf("state %q is unreachable from initial state %q", id, initial.ID))
			}
		}
	}

	return hazards
}

func sortedTypes(transitions map[string]Transition) []string {
	types := make([]string, 0, len(transitions))
	for t := range transitions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
