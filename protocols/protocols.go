package protocols

import "github.com/torontoai/parley/protocol"

// All returns one fresh instance of every standard protocol, suitable for
// bulk registration with an engine.Manager.
func All() []*protocol.Protocol {
	return []*protocol.Protocol{
		InformationExchange(),
		Negotiation(),
		TaskDelegation(),
		CollaborativeProblemSolving(),
		ErrorHandling(),
	}
}
