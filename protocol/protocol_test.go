package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torontoai/parley/core"
)

// buildExchange assembles a minimal request/response protocol used across
// the tests in this package.
func buildExchange() *Protocol {
	p := New("exchange", "1.0", "Minimal request/response exchange")

	request := NewInitialState("request", "Waiting for a request")
	request.AddTransition("request", "response", nil)

	response := NewState("response", "Answering the request")
	response.AddTransition("response", "completed", nil)

	completed := NewTerminalState("completed", "Exchange finished")

	p.AddState(request)
	p.AddState(response)
	p.AddState(completed)
	return p
}

func typedMsg(msgType string) core.Message {
	return core.Message{
		ID:      core.NewID(),
		Sender:  core.Participant{ID: "agent1", Role: "requester"},
		Content: core.Content{"type": msgType},
	}
}

func TestProtocol_Lookups(t *testing.T) {
	p := buildExchange()

	s, ok := p.GetState("response")
	require.True(t, ok)
	assert.Equal(t, "response", s.ID)

	_, ok = p.GetState("missing")
	assert.False(t, ok)

	initial, ok := p.GetInitialState()
	require.True(t, ok)
	assert.Equal(t, "request", initial.ID)

	assert.True(t, p.IsTerminalState("completed"))
	assert.False(t, p.IsTerminalState("request"))
	assert.False(t, p.IsTerminalState("missing"))

	assert.Equal(t, []string{"request", "response", "completed"}, p.StateIDs())
	assert.Equal(t, []string{"completed"}, p.TerminalStateIDs())
}

func TestProtocol_InitialStateLastWins(t *testing.T) {
	p := New("doubled", "1.0", "")
	p.AddState(NewInitialState("first", ""))
	p.AddState(NewInitialState("second", ""))

	initial, ok := p.GetInitialState()
	require.True(t, ok)
	assert.Equal(t, "second", initial.ID)

	hazards := p.Hazards()
	require.NotEmpty(t, hazards)
	assert.Contains(t, hazards[0], "claim initial")
}

func TestProtocol_ValidateMessage(t *testing.T) {
	p := buildExchange()

	assert.True(t, p.ValidateMessage(typedMsg("request"), "request"))
	assert.False(t, p.ValidateMessage(typedMsg("proposal"), "request"), "type not accepted in state")
	assert.False(t, p.ValidateMessage(typedMsg("request"), "missing"), "unknown state")

	noType := typedMsg("request")
	delete(noType.Content, "type")
	assert.False(t, p.ValidateMessage(noType, "request"), "missing content type")
}

func TestProtocol_GetNextStateID(t *testing.T) {
	p := buildExchange()

	next, ok := p.GetNextStateID(typedMsg("request"), "request")
	require.True(t, ok)
	assert.Equal(t, "response", next)

	_, ok = p.GetNextStateID(typedMsg("request"), "missing")
	assert.False(t, ok)

	_, ok = p.GetNextStateID(typedMsg("unknown"), "request")
	assert.False(t, ok)
}

func TestProtocol_Validate(t *testing.T) {
	assert.NoError(t, buildExchange().Validate())

	t.Run("dangling transition target", func(t *testing.T) {
		p := buildExchange()
		s, _ := p.GetState("response")
		s.AddTransition("escalate", "arbitration", nil)

		err := p.Validate()
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "exchange", verr.ProtocolID)
		assert.Equal(t, "1.0", verr.Version)
		require.Len(t, verr.Problems, 1)
		assert.Contains(t, verr.Problems[0], `unknown state "arbitration"`)
	})

	t.Run("no initial state", func(t *testing.T) {
		p := New("p", "1.0", "")
		p.AddState(NewTerminalState("done", ""))
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no state is flagged initial")
	})

	t.Run("no terminal state", func(t *testing.T) {
		p := New("p", "1.0", "")
		p.AddState(NewInitialState("start", ""))
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no state is flagged terminal")
	})

	t.Run("no states", func(t *testing.T) {
		err := New("p", "1.0", "").Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no states")
	})

	t.Run("missing id and version", func(t *testing.T) {
		p := New("", "", "")
		p.AddState(NewInitialState("start", ""))
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id is required")
		assert.Contains(t, err.Error(), "version is required")
	})

	t.Run("invalid condition", func(t *testing.T) {
		p := buildExchange()
		s, _ := p.GetState("request")
		s.AddTransition("probe", "response", &Condition{Op: "matches", Path: "content.x"})
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown condition op")
	})
}

func TestProtocol_Hazards(t *testing.T) {
	t.Run("clean protocol has none", func(t *testing.T) {
		assert.Empty(t, buildExchange().Hazards())
	})

	t.Run("terminal state with outgoing transitions", func(t *testing.T) {
		p := buildExchange()
		completed, _ := p.GetState("completed")
		completed.AddTransition("reopen", "request", nil)

		hazards := p.Hazards()
		require.Len(t, hazards, 1)
		assert.Contains(t, hazards[0], `terminal state "completed"`)
		// Still registerable: the graph itself is sound.
		assert.NoError(t, p.Validate())
	})

	t.Run("unreachable state", func(t *testing.T) {
		p := buildExchange()
		orphan := NewState("orphan", "")
		orphan.AddTransition("noop", "completed", nil)
		p.AddState(orphan)

		hazards := p.Hazards()
		require.Len(t, hazards, 1)
		assert.Contains(t, hazards[0], `state "orphan" is unreachable`)
	})
}
