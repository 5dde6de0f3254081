package engine

// CreateResult reports a newly created conversation.
type CreateResult struct {
	ConversationID  string `json:"conversation_id"`
	ProtocolID      string `json:"protocol_id"`
	ProtocolVersion string `json:"protocol_version"`
	InitialState    string `json:"initial_state"`
}

// MessageResult reports an accepted message delivery. FromState and
// NewState are equal when the message was valid for the state but matched
// no transition.
type MessageResult struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	FromState      string `json:"from_state"`
	NewState       string `json:"new_state"`
	IsTerminal     bool   `json:"is_terminal"`
}

// Filter narrows GetAgentConversations results by conversation status.
type Filter string

const (
	// FilterAll keeps conversations regardless of status.
	FilterAll Filter = "all"
	// FilterActive keeps only conversations that have not completed.
	FilterActive Filter = "active"
	// FilterCompleted keeps only conversations that reached a terminal state.
	FilterCompleted Filter = "completed"
)
