package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/torontoai/parley/conversation"
	"github.com/torontoai/parley/core"
	"github.com/torontoai/parley/logging"
	"github.com/torontoai/parley/metrics"
	"github.com/torontoai/parley/protocol"
)

// Config holds tunable parameters for Manager behavior.
type Config struct {
	// MaxHistorySize bounds each conversation's history to the most recent
	// N records. Zero keeps the full history.
	MaxHistorySize int

	// AutoArchiveDays is the staleness threshold for archival sweeps,
	// measured in days since a conversation's last update. Fractional
	// values are allowed. Zero or negative values fall back to the
	// default of 7 days.
	AutoArchiveDays float64
}

// DefaultConfig provides production-ready defaults.
var DefaultConfig = Config{
	MaxHistorySize:  0,
	AutoArchiveDays: 7,
}

// Options configures Manager construction.
type Options struct {
	// Config holds the tunable engine parameters.
	Config Config

	// Logger receives structured engine logs. Defaults to a NoOpLogger.
	Logger logging.Logger

	// Metrics receives engine instrumentation. Nil disables collection.
	Metrics *metrics.Collector
}

// WithConfig replaces the entire engine configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithMaxHistorySize bounds conversation histories to the most recent n
// records.
func WithMaxHistorySize(n int) func(o *Options) {
	return func(o *Options) { o.Config.MaxHistorySize = n }
}

// WithAutoArchiveDays sets the staleness threshold for archival sweeps.
func WithAutoArchiveDays(days float64) func(o *Options) {
	return func(o *Options) { o.Config.AutoArchiveDays = days }
}

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics sets the Prometheus collector.
func WithMetrics(c *metrics.Collector) func(o *Options) {
	return func(o *Options) { o.Metrics = c }
}

// Manager owns the protocol registry and every conversation it has created,
// active or archived. All methods are safe for concurrent use.
//
// Contract:
//   - A conversation lives in exactly one of the active or archived maps
//   - Delivery only touches active conversations; archived ones are not
//     found as far as AddMessage is concerned
//   - Reads hand out clones and summaries, never live internals
//   - Protocols must pass structural validation before registration.
type Manager struct {
	config Config

	protocols map[string]map[string]*protocol.Protocol
	active    map[string]*conversation.Conversation
	archived  map[string]*conversation.Conversation
	mu        sync.RWMutex

	callbacks *CallbackManager
	logger    logging.Logger
	metrics   *metrics.Collector
}

// New creates a Manager with the supplied options.
//
// Example:
//
//	mgr := engine.New(
//	    engine.WithLogger(logging.NewDefaultSlogLogger()),
//	    engine.WithMaxHistorySize(500))
func New(optFns ...func(o *Options)) *Manager {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config.AutoArchiveDays <= 0 {
		opts.Config.AutoArchiveDays = DefaultConfig.AutoArchiveDays
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Manager{
		config:    opts.Config,
		protocols: make(map[string]map[string]*protocol.Protocol),
		active:    make(map[string]*conversation.Conversation),
		archived:  make(map[string]*conversation.Conversation),
		callbacks: NewCallbackManager(),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// RegisterCallback adds a lifecycle callback. Callbacks registered for the
// same type run in registration order. Register before serving traffic;
// registration is not synchronized with delivery.
func (m *Manager) RegisterCallback(cb Callback) {
	m.callbacks.RegisterCallback(cb)
}

// RegisterProtocol validates p and adds it to the registry under its id and
// version. Re-registering an existing id/version pair replaces the previous
// protocol and logs a warning. Structural problems reject the registration
// with a *protocol.ValidationError; advisory hazards are logged but do not
// block.
func (m *Manager) RegisterProtocol(p *protocol.Protocol) error {
	if p == nil {
		return fmt.Errorf("protocol must not be nil")
	}
	if err := p.Validate(); err != nil {
		m.logger.Error("protocol registration rejected", "protocol_id", p.ID, "version", p.Version, "error", err)
		return err
	}
	for _, hz := range p.Hazards() {
		m.logger.Warn("protocol hazard", "protocol_id", p.ID, "version", p.Version, "hazard", hz)
	}

	m.mu.Lock()
	versions, ok := m.protocols[p.ID]
	if !ok {
		versions = make(map[string]*protocol.Protocol)
		m.protocols[p.ID] = versions
	}
	_, replaced := versions[p.Version]
	versions[p.Version] = p
	total := 0
	for _, vs := range m.protocols {
		total += len(vs)
	}
	m.mu.Unlock()

	if replaced {
		m.logger.Warn("protocol replaced", "protocol_id", p.ID, "version", p.Version)
	}
	m.metrics.SetRegisteredProtocols(total)
	m.logger.Info("protocol registered", "protocol_id", p.ID, "version", p.Version, "states", len(p.StateIDs()))
	return nil
}

// GetProtocol returns the protocol registered under id and version. Passing
// LatestVersion resolves the highest registered version by numeric ordering.
// Returns core.ErrProtocolNotFound when nothing matches.
func (m *Manager) GetProtocol(id, version string) (*protocol.Protocol, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions, ok := m.protocols[id]
	if !ok || len(versions) == 0 {
		return nil, core.ErrProtocolNotFound
	}
	if version == LatestVersion {
		version = latestVersion(versions)
	}
	p, ok := versions[version]
	if !ok {
		return nil, core.ErrProtocolNotFound
	}
	return p, nil
}

// ProtocolIDs returns the ids of all registered protocols in sorted order.
func (m *Manager) ProtocolIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.protocols))
	for id := range m.protocols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProtocolVersions returns the registered versions for a protocol id in
// ascending numeric order.
func (m *Manager) ProtocolVersions(id string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vs := make([]string, 0, len(m.protocols[id]))
	for v := range m.protocols[id] {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return compareVersions(vs[i], vs[j]) < 0 })
	return vs
}

// CreateConversation starts a conversation governed by the named protocol,
// anchored at its initial state. The version may be LatestVersion. Extra
// option functions tune the conversation beyond the engine defaults, for
// example seeding metadata.
func (m *Manager) CreateConversation(protocolID, version string, participants []core.Participant, optFns ...func(o *conversation.Options)) (*CreateResult, error) {
	p, err := m.GetProtocol(protocolID, version)
	if err != nil {
		m.logger.Error("conversation create failed", "protocol_id", protocolID, "version", version, "error", err)
		return nil, err
	}

	fns := make([]func(o *conversation.Options), 0, len(optFns)+1)
	fns = append(fns, func(o *conversation.Options) { o.MaxHistorySize = m.config.MaxHistorySize })
	fns = append(fns, optFns...)

	m.mu.Lock()
	var id string
	for {
		id = core.NewConversationID()
		if _, taken := m.active[id]; taken {
			continue
		}
		if _, taken := m.archived[id]; taken {
			continue
		}
		break
	}
	conv, err := conversation.New(id, p, participants, fns...)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.active[id] = conv
	activeN := len(m.active)
	m.mu.Unlock()

	initial, _ := p.GetInitialState()
	m.metrics.RecordConversationCreated(p.ID, p.Version)
	m.metrics.SetActiveConversations(activeN)
	m.logger.Info("conversation created", "conversation_id", id, "protocol_id", p.ID, "version", p.Version, "initial_state", initial.ID)
	m.runCallbacks(CallbackOnCreate, &CallbackContext{
		ConversationID: id,
		ProtocolID:     p.ID,
		ToState:        initial.ID,
		CallbackType:   CallbackOnCreate,
	})

	return &CreateResult{
		ConversationID:  id,
		ProtocolID:      p.ID,
		ProtocolVersion: p.Version,
		InitialState:    initial.ID,
	}, nil
}

// AddMessage delivers msg to an active conversation. On acceptance the
// history grows by one record, the state advances if a transition matched
// and the result reports the landing state. Rejections leave the
// conversation untouched and return one of the core sentinel errors.
// Archived conversations are reported as not found.
func (m *Manager) AddMessage(conversationID string, msg core.Message) (*MessageResult, error) {
	start := time.Now()

	m.mu.RLock()
	conv, ok := m.active[conversationID]
	m.mu.RUnlock()
	if !ok {
		return nil, core.ErrConversationNotFound
	}

	cbCtx := &CallbackContext{
		ConversationID: conversationID,
		ProtocolID:     conv.ProtocolID,
		Message:        &msg,
		CallbackType:   CallbackBeforeMessage,
	}
	if err := m.callbacks.ExecuteCallbacks(CallbackBeforeMessage, cbCtx); err != nil {
		m.metrics.RecordMessage(conv.ProtocolID, metrics.OutcomeRejected, time.Since(start))
		return nil, fmt.Errorf("before message callback: %w", err)
	}

	// Delivery takes the conversation's own lock, not the manager's, so
	// traffic to other conversations proceeds in parallel.
	delivery, err := conv.AddMessage(msg)
	if err != nil {
		if errors.Is(err, core.ErrConversationArchived) {
			return nil, core.ErrConversationNotFound
		}
		m.metrics.RecordMessage(conv.ProtocolID, metrics.OutcomeRejected, time.Since(start))
		m.logger.Debug("message rejected", "conversation_id", conversationID, "message_type", msg.Content.Type(), "error", err)
		m.runCallbacks(CallbackOnError, &CallbackContext{
			ConversationID: conversationID,
			ProtocolID:     conv.ProtocolID,
			Message:        &msg,
			CallbackType:   CallbackOnError,
			Err:            err,
		})
		return nil, err
	}

	m.metrics.RecordMessage(conv.ProtocolID, metrics.OutcomeAccepted, time.Since(start))
	m.logger.Debug("message accepted", "conversation_id", conversationID, "message_type", msg.Content.Type(), "from_state", delivery.FromState, "new_state", delivery.NewState)

	after := &CallbackContext{
		ConversationID: conversationID,
		ProtocolID:     conv.ProtocolID,
		Message:        &msg,
		FromState:      delivery.FromState,
		ToState:        delivery.NewState,
		CallbackType:   CallbackAfterMessage,
	}
	m.runCallbacks(CallbackAfterMessage, after)

	if delivery.FromState != delivery.NewState {
		m.metrics.RecordStateTransition(conv.ProtocolID, delivery.FromState, delivery.NewState)
		stateChange := *after
		stateChange.CallbackType = CallbackOnStateChange
		m.runCallbacks(CallbackOnStateChange, &stateChange)
	}
	if delivery.IsTerminal {
		m.logger.Info("conversation completed", "conversation_id", conversationID, "final_state", delivery.NewState)
		completion := *after
		completion.CallbackType = CallbackOnCompletion
		m.runCallbacks(CallbackOnCompletion, &completion)
	}

	return &MessageResult{
		ConversationID: conversationID,
		MessageID:      delivery.Record.MessageID,
		FromState:      delivery.FromState,
		NewState:       delivery.NewState,
		IsTerminal:     delivery.IsTerminal,
	}, nil
}

// GetConversation returns a deep copy of the conversation, active or
// archived. Mutating the copy does not affect the engine's view.
func (m *Manager) GetConversation(conversationID string) (*conversation.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if conv, ok := m.active[conversationID]; ok {
		return conv.Clone(), nil
	}
	if conv, ok := m.archived[conversationID]; ok {
		return conv.Clone(), nil
	}
	return nil, core.ErrConversationNotFound
}

// GetAgentConversations returns context summaries for every conversation,
// active or archived, that lists the agent as a participant. The filter
// narrows by status; FilterAll (or the zero value) keeps everything.
// Summaries are ordered most recently updated first.
func (m *Manager) GetAgentConversations(agentID string, filter Filter) []core.ContextSummary {
	m.mu.RLock()
	convs := make([]*conversation.Conversation, 0, len(m.active)+len(m.archived))
	for _, c := range m.active {
		convs = append(convs, c)
	}
	for _, c := range m.archived {
		convs = append(convs, c)
	}
	m.mu.RUnlock()

	summaries := make([]core.ContextSummary, 0, len(convs))
	for _, c := range convs {
		if !c.HasParticipant(agentID) {
			continue
		}
		s := c.ContextSummary()
		switch filter {
		case FilterActive:
			if s.Status != core.StatusActive {
				continue
			}
		case FilterCompleted:
			if s.Status != core.StatusCompleted {
				continue
			}
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ConversationID < summaries[j].ConversationID
	})
	return summaries
}

// ActiveCount returns the number of active conversations.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// ArchivedCount returns the number of archived conversations.
func (m *Manager) ArchivedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.archived)
}

// runCallbacks executes after-the-fact callbacks whose errors must not
// affect the operation that triggered them.
func (m *Manager) runCallbacks(ct CallbackType, cbCtx *CallbackContext) {
	if err := m.callbacks.ExecuteCallbacks(ct, cbCtx); err != nil {
		m.logger.Warn("callback error", "callback_type", string(ct), "conversation_id", cbCtx.ConversationID, "error", err)
	}
}
