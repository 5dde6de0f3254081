// Package engine implements the coordination layer for Parley conversations.
//
// The Manager serves as the central hub that owns protocol registration and
// the complete lifecycle of governed conversations. It bridges the gap
// between high-level operations (create, deliver, query, archive) and the
// underlying protocol state machines, providing a safe foundation for many
// agents to converse concurrently.
//
// # Core Responsibilities
//
// Protocol Management:
//   - Thread-safe protocol registry keyed by id and version
//   - Graph validation at registration time with hazard reporting
//   - Latest-version resolution via numeric version ordering
//
// Conversation Lifecycle:
//   - Creation anchored at a protocol's initial state
//   - Atomic message delivery with validation and state transitions
//   - Manual archival and staleness-based archival sweeps
//   - Cloned reads so callers never share mutable state
//
// Observability:
//   - Structured logging for registrations, deliveries and archival
//   - Prometheus counters and gauges for every lifecycle event
//   - Extensible callback system for cross-cutting concerns
//
// # Architecture
//
// The engine follows a layered architecture with clear separation of concerns:
//
//	┌─────────────────────────────────────────────────────────┐
//	│                    Client Layer                         │
//	├─────────────────────────────────────────────────────────┤
//	│                 Manager Interface                       │
//	│  ┌──────────────────┐ ┌────────────┐ ┌──────────────┐   │
//	│  │CreateConversation│ │ AddMessage │ │   Archive    │   │
//	│  └──────────────────┘ └────────────┘ └──────────────┘   │
//	├─────────────────────────────────────────────────────────┤
//	│                Coordination Layer                       │
//	│  ┌──────────────────┐ ┌────────────┐ ┌──────────────┐   │
//	│  │    Callbacks     │ │  Metrics   │ │   Logging    │   │
//	│  └──────────────────┘ └────────────┘ └──────────────┘   │
//	├─────────────────────────────────────────────────────────┤
//	│                   Domain Layer                          │
//	│  ┌──────────────────┐ ┌────────────┐ ┌──────────────┐   │
//	│  │ Protocol Registry│ │   Active   │ │   Archived   │   │
//	│  │  (id × version)  │ │Conversations│ │Conversations │   │
//	│  └──────────────────┘ └────────────┘ └──────────────┘   │
//	└─────────────────────────────────────────────────────────┘
//
// # Usage Patterns
//
// Basic Manager Setup:
//
//	mgr := engine.New(
//	    engine.WithLogger(logger),
//	    engine.WithMetrics(collector),
//	    engine.WithAutoArchiveDays(7))
//
// Protocol Registration:
//
//	if err := mgr.RegisterProtocol(protocols.Negotiation()); err != nil {
//	    return err
//	}
//
// Running a Conversation:
//
//	created, err := mgr.CreateConversation("negotiation", engine.LatestVersion, participants)
//	if err != nil {
//	    return err
//	}
//	msg := core.NewMessage(buyer, "proposal")
//	result, err := mgr.AddMessage(created.ConversationID, msg)
//
// Background Archival:
//
//	go mgr.RunArchiveLoop(ctx, time.Hour)
//
// # Concurrency Model
//
// The Manager is designed for high-concurrency operation with the following
// guarantees:
//
//   - Thread-safe protocol registration and lookup
//   - Message delivery serialized per conversation, parallel across
//     conversations
//   - Archival is atomic with respect to delivery: a message either lands
//     before the move or is rejected
//   - Reads return clones and summaries, never live internal state
//
// # Error Handling
//
// Lookup failures surface the sentinel errors from the core package
// (core.ErrProtocolNotFound, core.ErrConversationNotFound). Rejected
// deliveries return core.ErrInvalidMessage or core.ErrMalformedMessage and
// leave the conversation untouched. Protocol registration returns a
// *protocol.ValidationError describing every structural problem found.
package engine
