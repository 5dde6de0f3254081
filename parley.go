// Package parley provides a high-level facade over the conversation engine
// and the standard protocol library, enabling structured, protocol-governed
// conversations between autonomous agents. Most applications interact with
// this package by:
//
//  1. Creating a Parley instance via New(), optionally enabling the standard
//     protocol library and tuning history and archival behavior.
//  2. Registering any custom protocols with RegisterProtocol.
//  3. Creating conversations with CreateConversation and delivering messages
//     with AddMessage.
//
// The facade delegates lifecycle management to engine.Manager while keeping
// setup concise. Defaults are safe for local development and testing;
// production deployments typically supply a structured logger and a metrics
// collector:
//
//	p := parley.New(func(o *parley.Options) {
//		o.StandardProtocols = true
//		o.Logger = logging.NewSlogAdapter(slog.Default())
//		o.Metrics = metrics.NewCollector("parley", nil)
//	})
//
// Advanced integrations that need lifecycle callbacks or registry
// introspection can reach the underlying manager through Manager().
package parley

import (
	"context"
	"time"

	"github.com/torontoai/parley/conversation"
	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/engine"
	"github.com/torontoai/parley/logging"
	"github.com/torontoai/parley/metrics"
	"github.com/torontoai/parley/protocol"
	"github.com/torontoai/parley/protocols"
)

// LatestVersion is the version selector that resolves to the highest
// registered version of a protocol.
const LatestVersion = engine.LatestVersion

// Options configures a Parley instance.
type Options struct {
	// EngineConfig holds history and archival tuning for the underlying
	// conversation manager.
	EngineConfig engine.Config

	// StandardProtocols registers the built-in protocol library
	// (information exchange, negotiation, task delegation, collaborative
	// problem solving, error handling) at construction time.
	StandardProtocols bool

	// Logger receives structured engine events. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics records counters and histograms for conversation activity.
	// A nil collector disables instrumentation.
	Metrics *metrics.Collector
}

// Parley is the top-level entry point aggregating the conversation engine
// and the protocol registry behind a single construction site.
type Parley struct {
	opts    Options
	manager *engine.Manager
}

// New creates a Parley instance with optional configuration overrides.
func New(optFns ...func(o *Options)) *Parley {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	manager := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	p := &Parley{
		opts:    opts,
		manager: manager,
	}

	if opts.StandardProtocols {
		for _, sp := range protocols.All() {
			// The built-in fixtures are statically valid, so registration
			// cannot fail here.
			_ = manager.RegisterProtocol(sp)
		}
	}

	return p
}

// WithStandardProtocols enables registration of the built-in protocol
// library at construction time.
func WithStandardProtocols() func(o *Options) {
	return func(o *Options) {
		o.StandardProtocols = true
	}
}

// WithLogger sets the logger used by the underlying manager.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetrics sets the metrics collector used by the underlying manager.
func WithMetrics(collector *metrics.Collector) func(o *Options) {
	return func(o *Options) {
		o.Metrics = collector
	}
}

// Manager returns the underlying conversation manager for advanced use,
// such as registering lifecycle callbacks.
func (p *Parley) Manager() *engine.Manager {
	return p.manager
}

// RegisterProtocol validates and registers a protocol definition.
func (p *Parley) RegisterProtocol(proto *protocol.Protocol) error {
	return p.manager.RegisterProtocol(proto)
}

// GetProtocol retrieves a registered protocol by id and version. Passing
// LatestVersion resolves to the highest registered version.
func (p *Parley) GetProtocol(id, version string) (*protocol.Protocol, error) {
	return p.manager.GetProtocol(id, version)
}

// ProtocolIDs returns the ids of all registered protocols in sorted order.
func (p *Parley) ProtocolIDs() []string {
	return p.manager.ProtocolIDs()
}

// CreateConversation starts a conversation governed by the named protocol.
func (p *Parley) CreateConversation(protocolID, version string, participants []core.Participant, optFns ...func(o *conversation.Options)) (*engine.CreateResult, error) {
	return p.manager.CreateConversation(protocolID, version, participants, optFns...)
}

// AddMessage delivers a message to an active conversation, advancing its
// state when the protocol accepts the message type.
func (p *Parley) AddMessage(conversationID string, msg core.Message) (*engine.MessageResult, error) {
	return p.manager.AddMessage(conversationID, msg)
}

// GetConversation returns a snapshot of a conversation, active or archived.
func (p *Parley) GetConversation(conversationID string) (*conversation.Conversation, error) {
	return p.manager.GetConversation(conversationID)
}

// GetAgentConversations returns summaries of the conversations an agent
// participates in, most recently updated first.
func (p *Parley) GetAgentConversations(agentID string, filter engine.Filter) []core.ContextSummary {
	return p.manager.GetAgentConversations(agentID, filter)
}

// ArchiveConversation moves a conversation out of active circulation.
func (p *Parley) ArchiveConversation(conversationID string) error {
	return p.manager.ArchiveConversation(conversationID)
}

// AutoArchiveOldConversations archives every active conversation whose last
// update is older than the configured threshold and returns their ids.
func (p *Parley) AutoArchiveOldConversations() []string {
	return p.manager.AutoArchiveOldConversations()
}

// RunArchiveLoop runs periodic archival sweeps until the context is
// canceled.
func (p *Parley) RunArchiveLoop(ctx context.Context, interval time.Duration) {
	p.manager.RunArchiveLoop(ctx, interval)
}

// ActiveCount reports the number of active conversations.
func (p *Parley) ActiveCount() int {
	return p.manager.ActiveCount()
}

// ArchivedCount reports the number of archived conversations.
func (p *Parley) ArchivedCount() int {
	return p.manager.ArchivedCount()
}
