package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for messages and correlation.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

// NewConversationID returns a short prefixed conversation id such as
// "conv_1a2b3c4d". The first UUID block gives eight hex characters, compact
// enough for logs while keeping collisions unlikely; callers that require
// uniqueness against a live registry must still check and regenerate.
func NewConversationID() string {
	return "conv_" + uuid.NewString()[:8]
}
