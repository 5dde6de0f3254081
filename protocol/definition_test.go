package protocol

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGated returns a protocol whose final transition carries a condition,
// exercising the data-form round-trip of conditions.
func buildGated() *Protocol {
	p := New("gated_review", "1.2", "Review flow with a gated approval")

	submitted := NewInitialState("submitted", "Waiting for a submission")
	submitted.AddTransition("submission", "review", nil)

	review := NewState("review", "Under review")
	review.AddValidMessageType("comment")
	review.AddTransition("verdict", "approved", &Condition{Op: OpEquals, Path: "content.approved", Value: true})

	approved := NewTerminalState("approved", "Submission approved")

	p.AddState(submitted)
	p.AddState(review)
	p.AddState(approved)
	return p
}

func TestDefinition_CapturesStructure(t *testing.T) {
	def := buildGated().Definition()

	assert.Equal(t, "gated_review", def.ID)
	assert.Equal(t, "1.2", def.Version)
	require.Len(t, def.States, 3)

	assert.Equal(t, "submitted", def.States[0].ID)
	assert.True(t, def.States[0].Initial)
	assert.True(t, def.States[2].Terminal)

	review := def.States[1]
	assert.Equal(t, []string{"comment", "verdict"}, review.ValidMessageTypes)
	require.Len(t, review.Transitions, 1)
	require.NotNil(t, review.Transitions[0].Condition)
	assert.Equal(t, OpEquals, review.Transitions[0].Condition.Op)
	assert.Equal(t, "content.approved", review.Transitions[0].Condition.Path)
}

func TestDefinition_YAMLRoundTripKeepsConditions(t *testing.T) {
	original := buildGated()

	out, err := original.Definition().ToYAML()
	require.NoError(t, err)

	loaded, err := FromYAML(out)
	require.NoError(t, err)

	rebuilt, err := FromDefinition(loaded)
	require.NoError(t, err)

	assert.Equal(t, original.Definition(), rebuilt.Definition())

	// The condition still gates the transition after the round trip.
	approvedMsg := condMsg(map[string]any{"approved": true})
	approvedMsg.Content["type"] = "verdict"
	next, ok := rebuilt.GetNextStateID(approvedMsg, "review")
	require.True(t, ok)
	assert.Equal(t, "approved", next)

	deniedMsg := condMsg(map[string]any{"approved": false})
	deniedMsg.Content["type"] = "verdict"
	_, ok = rebuilt.GetNextStateID(deniedMsg, "review")
	assert.False(t, ok)
}

func TestDefinition_JSONRoundTrip(t *testing.T) {
	original := buildGated()

	out, err := original.Definition().ToJSON()
	require.NoError(t, err)

	loaded, err := FromJSON(out)
	require.NoError(t, err)

	rebuilt, err := FromDefinition(loaded)
	require.NoError(t, err)

	assert.Equal(t, original.StateIDs(), rebuilt.StateIDs())
	assert.Equal(t, original.TerminalStateIDs(), rebuilt.TerminalStateIDs())

	review, ok := rebuilt.GetState("review")
	require.True(t, ok)
	require.NotNil(t, review.Transitions()["verdict"].Condition)
	assert.Equal(t, OpEquals, review.Transitions()["verdict"].Condition.Op)
}

func TestDefinition_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	def := buildGated().Definition()

	yamlPath := filepath.Join(dir, "gated.yaml")
	require.NoError(t, def.SaveToYAMLFile(yamlPath))
	fromYAML, err := LoadFromYAMLFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, def.ID, fromYAML.ID)

	jsonPath := filepath.Join(dir, "gated.json")
	require.NoError(t, def.SaveToJSONFile(jsonPath))
	fromJSON, err := LoadFromJSONFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, def.ID, fromJSON.ID)

	_, err = LoadFromYAMLFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFromYAML_HandWrittenDocument(t *testing.T) {
	src := `
id: approval
version: "2.0"
description: Simple approval flow
states:
  - id: pending
    initial: true
    transitions:
      - type: decision
        next_state: done
        condition:
          op: equals
          path: content.decision
          value: approve
  - id: done
    terminal: true
`
	def, err := FromYAML(src)
	require.NoError(t, err)

	p, err := FromDefinition(def)
	require.NoError(t, err)

	initial, ok := p.GetInitialState()
	require.True(t, ok)
	assert.Equal(t, "pending", initial.ID)
	assert.True(t, p.IsTerminalState("done"))

	approve := condMsg(map[string]any{"decision": "approve"})
	approve.Content["type"] = "decision"
	next, ok := p.GetNextStateID(approve, "pending")
	require.True(t, ok)
	assert.Equal(t, "done", next)
}

func TestValidateDefinition(t *testing.T) {
	base := func() *Definition { return buildGated().Definition() }

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateDefinition(base()))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Error(t, ValidateDefinition(nil))
	})

	t.Run("missing version", func(t *testing.T) {
		def := base()
		def.Version = ""
		assert.ErrorContains(t, ValidateDefinition(def), "version is required")
	})

	t.Run("duplicate state id", func(t *testing.T) {
		def := base()
		def.States = append(def.States, StateDefinition{ID: "review"})
		assert.ErrorContains(t, ValidateDefinition(def), "duplicate state id")
	})

	t.Run("transition without type", func(t *testing.T) {
		def := base()
		def.States[0].Transitions[0].Type = ""
		assert.ErrorContains(t, ValidateDefinition(def), "requires a message type")
	})

	t.Run("transition without next_state", func(t *testing.T) {
		def := base()
		def.States[0].Transitions[0].NextState = ""
		assert.ErrorContains(t, ValidateDefinition(def), "requires next_state")
	})

	t.Run("bad condition op", func(t *testing.T) {
		def := base()
		def.States[1].Transitions[0].Condition.Op = "matches"
		assert.ErrorContains(t, ValidateDefinition(def), "unknown condition op")
	})

	t.Run("dangling target caught on rebuild", func(t *testing.T) {
		def := base()
		def.States[1].Transitions[0].NextState = "nowhere"
		_, err := FromDefinition(def)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown state "nowhere"`)
	})
}
