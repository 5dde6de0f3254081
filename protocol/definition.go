package protocol

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the data form of a protocol: everything a Protocol holds,
// including transition conditions, expressed in plain serializable types.
// Definitions round-trip through JSON and YAML without loss.
type Definition struct {
	ID          string            `json:"id" yaml:"id"`
	Version     string            `json:"version" yaml:"version"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	States      []StateDefinition `json:"states" yaml:"states"`
}

// StateDefinition is the data form of a single state.
type StateDefinition struct {
	ID                string                 `json:"id" yaml:"id"`
	Description       string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Initial           bool                   `json:"initial,omitempty" yaml:"initial,omitempty"`
	Terminal          bool                   `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	ValidMessageTypes []string               `json:"valid_message_types,omitempty" yaml:"valid_message_types,omitempty"`
	Transitions       []TransitionDefinition `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionDefinition maps a message type to the next state, with an
// optional condition.
type TransitionDefinition struct {
	Type      string     `json:"type" yaml:"type"`
	NextState string     `json:"next_state" yaml:"next_state"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Definition captures the protocol as data: state ids, descriptions, flags,
// valid message types and transitions with their conditions. States appear in
// registration order, message types and transitions sorted for stable diffs.
func (p *Protocol) Definition() *Definition {
	def := &Definition{ID: p.ID, Version: p.Version, Description: p.Description}
	for _, id := range p.order {
		s := p.states[id]
		sd := StateDefinition{
			ID:                s.ID,
			Description:       s.Description,
			Initial:           s.Initial,
			Terminal:          s.Terminal,
			ValidMessageTypes: s.ValidMessageTypes(),
		}
		for _, t := range sortedTypes(s.transitions) {
			tr := s.transitions[t]
			sd.Transitions = append(sd.Transitions, TransitionDefinition{
				Type:      t,
				NextState: tr.NextStateID,
				Condition: tr.Condition,
			})
		}
		def.States = append(def.States, sd)
	}
	return def
}

// FromDefinition rebuilds a Protocol from its data form, validating both the
// definition shape and the resulting transition graph.
func FromDefinition(def *Definition) (*Protocol, error) {
	if err := ValidateDefinition(def); err != nil {
		return nil, err
	}

	p := New(def.ID, def.Version, def.Description)
	for _, sd := range def.States {
		s := NewState(sd.ID, sd.Description)
		s.Initial = sd.Initial
		s.Terminal = sd.Terminal
		for _, t := range sd.ValidMessageTypes {
			s.AddValidMessageType(t)
		}
		for _, td := range sd.Transitions {
			s.AddTransition(td.Type, td.NextState, td.Condition)
		}
		p.AddState(s)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateDefinition checks a loaded definition's shape: required ids,
// duplicate states, incomplete transitions and malformed conditions. Graph
// semantics (initial/terminal presence, dangling targets) are checked by
// Protocol.Validate after the rebuild.
func ValidateDefinition(def *Definition) error {
	if def == nil {
		return fmt.Errorf("definition is nil")
	}
	if def.ID == "" {
		return fmt.Errorf("protocol id is required")
	}
	if def.Version == "" {
		return fmt.Errorf("protocol version is required")
	}
	if len(def.States) == 0 {
		return fmt.Errorf("protocol must have at least one state")
	}

	stateIDs := make(map[string]bool)
	for _, sd := range def.States {
		if sd.ID == "" {
			return fmt.Errorf("state id is required")
		}
		if stateIDs[sd.ID] {
			return fmt.Errorf("duplicate state id: %s", sd.ID)
		}
		stateIDs[sd.ID] = true

		for _, td := range sd.Transitions {
			if td.Type == "" {
				return fmt.Errorf("state %s: transition requires a message type", sd.ID)
			}
			if td.NextState == "" {
				return fmt.Errorf("state %s: transition on %s requires next_state", sd.ID, td.Type)
			}
			if td.Condition != nil {
				if err := td.Condition.Validate(); err != nil {
					return fmt.Errorf("state %s: transition on %s: %w", sd.ID, td.Type, err)
				}
			}
		}
	}
	return nil
}

// ToJSON converts the definition to an indented JSON string.
func (d *Definition) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// ToYAML converts the definition to a YAML string.
func (d *Definition) ToYAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return string(data), nil
}

// FromJSON parses and validates a definition from a JSON string.
func FromJSON(jsonStr string) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal([]byte(jsonStr), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal from JSON: %w", err)
	}
	if err := ValidateDefinition(&def); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &def, nil
}

// FromYAML parses and validates a definition from a YAML string.
func FromYAML(yamlStr string) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal([]byte(yamlStr), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal from YAML: %w", err)
	}
	if err := ValidateDefinition(&def); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &def, nil
}

// LoadFromJSONFile loads a definition from a JSON file.
func LoadFromJSONFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return FromJSON(string(data))
}

// LoadFromYAMLFile loads a definition from a YAML file.
func LoadFromYAMLFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return FromYAML(string(data))
}

// SaveToJSONFile writes the definition to a JSON file.
func (d *Definition) SaveToJSONFile(filename string) error {
	jsonStr, err := d.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(jsonStr), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// SaveToYAMLFile writes the definition to a YAML file.
func (d *Definition) SaveToYAMLFile(filename string) error {
	yamlStr, err := d.ToYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, []byte(yamlStr), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
