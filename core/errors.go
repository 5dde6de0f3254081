package core

import "fmt"

var (
	// ErrProtocolNotFound is returned when no protocol matches the requested
	// id / version pair.
	ErrProtocolNotFound = fmt.Errorf("protocol not found")

	// ErrConversationNotFound is returned when a conversation id does not
	// resolve in the map an operation is allowed to touch. Archived
	// conversations are not found as far as message delivery is concerned.
	ErrConversationNotFound = fmt.Errorf("conversation not found")

	// ErrInvalidMessage is returned when a message's type is not accepted by
	// the conversation's current protocol state. The conversation is left
	// untouched.
	ErrInvalidMessage = fmt.Errorf("invalid message for current state")

	// ErrMalformedMessage is returned when message content carries no "type"
	// discriminator at all.
	ErrMalformedMessage = fmt.Errorf("message content missing type")

	// ErrConversationArchived is returned when a message reaches a
	// conversation after it has been moved to the archive. Archived
	// conversations are immutable.
	ErrConversationArchived = fmt.Errorf("conversation archived")
)
