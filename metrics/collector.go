package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values used by the engine when recording outcomes and archival reasons.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"

	ReasonManual = "manual"
	ReasonAge    = "age"
)

// Collector bundles the Prometheus metrics maintained by the conversation
// engine. All methods are safe to call on a nil receiver, which records
// nothing.
type Collector struct {
	conversationsCreated  *prometheus.CounterVec
	conversationsArchived *prometheus.CounterVec
	messagesTotal         *prometheus.CounterVec
	stateTransitions      *prometheus.CounterVec
	deliveryDuration      *prometheus.HistogramVec

	activeConversations   prometheus.Gauge
	archivedConversations prometheus.Gauge
	registeredProtocols   prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg falls back to prometheus.DefaultRegisterer. Passing a fresh
// prometheus.NewRegistry keeps tests and embedded uses isolated.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{}

	c.conversationsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Total number of conversations created",
		},
		[]string{"protocol_id", "version"},
	)

	c.conversationsArchived = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_archived_total",
			Help:      "Total number of conversations archived",
		},
		[]string{"protocol_id", "reason"},
	)

	c.messagesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of message delivery attempts",
		},
		[]string{"protocol_id", "outcome"},
	)

	c.stateTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Total number of conversation state transitions",
		},
		[]string{"protocol_id", "from_state", "to_state"},
	)

	c.deliveryDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_delivery_duration_seconds",
			Help:      "Message delivery duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"protocol_id"},
	)

	c.activeConversations = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Number of active conversations",
		},
	)

	c.archivedConversations = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "archived_conversations",
			Help:      "Number of archived conversations",
		},
	)

	c.registeredProtocols = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_protocols",
			Help:      "Number of registered protocol versions",
		},
	)

	return c
}

// RecordConversationCreated records a new conversation for a protocol version.
func (c *Collector) RecordConversationCreated(protocolID, version string) {
	if c == nil {
		return
	}
	c.conversationsCreated.WithLabelValues(protocolID, version).Inc()
}

// RecordConversationArchived records an archival with its reason
// (ReasonManual or ReasonAge).
func (c *Collector) RecordConversationArchived(protocolID, reason string) {
	if c == nil {
		return
	}
	c.conversationsArchived.WithLabelValues(protocolID, reason).Inc()
}

// RecordMessage records a delivery attempt with its outcome
// (OutcomeAccepted or OutcomeRejected) and duration.
func (c *Collector) RecordMessage(protocolID, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.messagesTotal.WithLabelValues(protocolID, outcome).Inc()
	c.deliveryDuration.WithLabelValues(protocolID).Observe(duration.Seconds())
}

// RecordStateTransition records a conversation state change.
func (c *Collector) RecordStateTransition(protocolID, fromState, toState string) {
	if c == nil {
		return
	}
	c.stateTransitions.WithLabelValues(protocolID, fromState, toState).Inc()
}

// SetActiveConversations updates the active conversation gauge.
func (c *Collector) SetActiveConversations(n int) {
	if c == nil {
		return
	}
	c.activeConversations.Set(float64(n))
}

// SetArchivedConversations updates the archived conversation gauge.
func (c *Collector) SetArchivedConversations(n int) {
	if c == nil {
		return
	}
	c.archivedConversations.Set(float64(n))
}

// SetRegisteredProtocols updates the registered protocol version gauge.
func (c *Collector) SetRegisteredProtocols(n int) {
	if c == nil {
		return
	}
	c.registeredProtocols.Set(float64(n))
}
