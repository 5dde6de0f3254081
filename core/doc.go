// Package core provides the foundational domain types used by Parley. It
// defines the shared vocabulary for:
//
//   - Messages (the unit of agent communication: sender, metadata, open content)
//   - Participants (agent identity and role within a conversation)
//   - MessageRecords (immutable history entries kept by conversations)
//   - ContextSummaries (cheap conversation projections for listings)
//   - Sentinel errors shared across the engine surface
//
// The package intentionally keeps behavior out of scope: protocol state
// machines live in protocol, conversation lifecycle in conversation, and
// registry orchestration in engine. Everything here is plain data plus small
// helpers, so higher layers can depend on it without cycles.
package core
