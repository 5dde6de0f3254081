package engine

import (
	"fmt"

	"github.com/torontoai/parley/core"
)

// CallbackType defines the specific lifecycle points where callbacks can be
// executed.
//
// Callbacks provide a flexible mechanism for hooking into the engine's
// delivery pipeline without modifying core logic. Each type represents a
// specific point in a conversation's lifecycle where custom logic can be
// injected.
//
// Available callback types:
//   - OnCreate: After a conversation is created
//   - BeforeMessage/AfterMessage: Around message delivery
//   - OnStateChange: When a delivery moves the conversation to a new state
//   - OnCompletion: When a conversation reaches a terminal state
//   - OnError: When a delivery is rejected
//   - OnArchive: When a conversation is archived
//
// BeforeMessage callbacks run synchronously and can veto a delivery by
// returning an error. All other callback types are after-the-fact: their
// errors are logged but do not influence the operation that triggered them.
type CallbackType string

const (
	// CallbackOnCreate is triggered after a conversation is created.
	// Use for provisioning, notification fan-out, or instrumentation.
	CallbackOnCreate CallbackType = "on_create"

	// CallbackBeforeMessage is triggered before a message is delivered.
	// Use for content validation, security checks, or rate limiting.
	// Returning an error rejects the delivery.
	CallbackBeforeMessage CallbackType = "before_message"

	// CallbackAfterMessage is triggered after a message is accepted.
	// Use for audit trails, side effects, or metrics collection.
	CallbackAfterMessage CallbackType = "after_message"

	// CallbackOnStateChange is triggered when an accepted message moves the
	// conversation to a different state. Use for reactive processing keyed
	// to protocol progress.
	CallbackOnStateChange CallbackType = "on_state_change"

	// CallbackOnCompletion is triggered when a conversation reaches a
	// terminal state. Use for result harvesting or cleanup scheduling.
	CallbackOnCompletion CallbackType = "on_completion"

	// CallbackOnError is triggered when a delivery is rejected.
	// Use for alerting, dead-letter handling, or diagnostics.
	CallbackOnError CallbackType = "on_error"

	// CallbackOnArchive is triggered when a conversation is archived.
	// Use for export, retention handling, or notification.
	CallbackOnArchive CallbackType = "on_archive"
)

// CallbackContext carries the information a callback needs to act on a
// lifecycle event. The engine populates the fields that make sense for the
// triggering event; the rest stay zero.
type CallbackContext struct {
	// ConversationID identifies the conversation the event belongs to.
	ConversationID string

	// ProtocolID identifies the governing protocol.
	ProtocolID string

	// Message is the message involved in a delivery event. Nil for
	// creation and archival events.
	Message *core.Message

	// FromState and ToState bracket a state change. For creation events
	// ToState holds the initial state.
	FromState string
	ToState   string

	// CallbackType indicates which lifecycle point triggered this
	// execution, letting shared implementations branch on the phase.
	CallbackType CallbackType

	// Err carries the rejection cause for CallbackOnError events.
	Err error

	// Metadata provides extensible storage for event specific data, for
	// example the archival reason.
	Metadata map[string]interface{}
}

// Callback defines the interface for conversation lifecycle hooks.
//
// Implementations should be:
//   - Fast: callbacks run synchronously on the delivery path
//   - Safe: handle errors gracefully and avoid panics
//   - Stateless: don't rely on mutable state between invocations
//
// A BeforeMessage callback that returns an error rejects the delivery.
// Use this mechanism for validation or to enforce business rules.
type Callback interface {
	// Type returns the callback type this implementation handles.
	// Used by the callback manager to route events to handlers.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(cbCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// This is a convenience wrapper that allows simple functions to be used as
// callbacks without implementing the full Callback interface.
//
// Example:
//
//	auditCallback := engine.NewFunctionCallback(
//	    engine.CallbackAfterMessage,
//	    func(cbCtx *engine.CallbackContext) error {
//	        log.Printf("delivered to %s: %s -> %s", cbCtx.ConversationID, cbCtx.FromState, cbCtx.ToState)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(cbCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback for the given
// lifecycle point.
func NewFunctionCallback(callbackType CallbackType, fn func(cbCtx *CallbackContext) error) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(cbCtx *CallbackContext) error {
	return c.fn(cbCtx)
}

// CallbackManager routes lifecycle events to registered callbacks.
//
// Callbacks are executed in registration order, and any callback returning
// an error stops execution of the remaining callbacks for that event.
//
// Thread safety: registration is not synchronized with execution. Register
// all callbacks before the engine starts serving traffic; execution itself
// is safe for concurrent use once registration is complete.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback to the manager for its declared type.
// Multiple callbacks can be registered for the same type and will be
// executed in registration order.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified
// type. If any callback returns an error, execution stops immediately and
// the error is returned; subsequent callbacks do not run.
func (cm *CallbackManager) ExecuteCallbacks(callbackType CallbackType, cbCtx *CallbackContext) error {
	callbacks, exists := cm.callbacks[callbackType]
	if !exists {
		return nil
	}

	for _, callback := range callbacks {
		if err := callback.Execute(cbCtx); err != nil {
			return err
		}
	}

	return nil
}

// MessageValidationCallback vets message content before delivery.
//
// The validator receives the message and can return an error to reject the
// delivery before it reaches the conversation's state machine. Use it to
// enforce content schemas or business rules that sit outside the protocol
// graph.
//
// Example:
//
//	validator := func(msg core.Message) error {
//	    if msg.Content.Subject() == "" {
//	        return errors.New("subject is required")
//	    }
//	    return nil
//	}
//	mgr.RegisterCallback(engine.NewMessageValidationCallback(validator))
type MessageValidationCallback struct {
	validator func(msg core.Message) error
}

// NewMessageValidationCallback creates a BeforeMessage callback from a
// validation function.
func NewMessageValidationCallback(validator func(msg core.Message) error) *MessageValidationCallback {
	return &MessageValidationCallback{
		validator: validator,
	}
}

// Type returns the callback type (always CallbackBeforeMessage).
func (c *MessageValidationCallback) Type() CallbackType {
	return CallbackBeforeMessage
}

// Execute validates the message carried by the event. A nil validator or a
// missing message silently succeeds.
func (c *MessageValidationCallback) Execute(cbCtx *CallbackContext) error {
	if c.validator != nil && cbCtx.Message != nil {
		return c.validator(*cbCtx.Message)
	}
	return nil
}

// LoggingCallback forwards lifecycle events to a logging function.
//
// The callback formats events in a consistent manner and is useful for
// debugging, monitoring, and audit trails.
//
// Example:
//
//	logger := func(message string) {
//	    log.Printf("[PARLEY] %s", message)
//	}
//	callback := engine.NewLoggingCallback(engine.CallbackOnStateChange, logger)
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a logging callback for the given lifecycle
// point.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle event with context information. If no logger
// function is configured, the callback silently succeeds.
func (c *LoggingCallback) Execute(cbCtx *CallbackContext) error {
	if c.logger != nil {
		message := fmt.Sprintf("[%s] Conversation: %s, State: %s -> %s",
			c.callbackType, cbCtx.ConversationID, cbCtx.FromState, cbCtx.ToState)
		c.logger(message)
	}
	return nil
}
