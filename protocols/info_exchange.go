package protocols

import "github.com/torontoai/parley/protocol"

// InformationExchange returns the standard information exchange protocol:
// one side requests information, the other answers, with an optional
// clarification loop before the exchange completes.
//
// States: request → response ⇄ clarification, response → completed.
func InformationExchange() *protocol.Protocol {
	p := protocol.New("info_exchange", "1.0", "Structured information request and response")

	request := protocol.NewInitialState("request", "Awaiting the opening information request")
	request.AddTransition("request", "response", nil)

	response := protocol.NewState("response", "Request received, awaiting an answer")
	response.AddTransition("response", "completed", nil)
	response.AddTransition("clarification_request", "clarification", nil)

	clarification := protocol.NewState("clarification", "Clarification requested before answering")
	clarification.AddTransition("clarification_response", "response", nil)

	completed := protocol.NewTerminalState("completed", "Exchange finished")

	p.AddState(request)
	p.AddState(response)
	p.AddState(clarification)
	p.AddState(completed)
	return p
}
