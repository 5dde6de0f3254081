package protocols

import "github.com/torontoai/parley/protocol"

// Negotiation returns the standard negotiation protocol: an opening
// proposal followed by any number of counter-proposals until one side
// accepts or rejects.
//
// States: proposal → consideration ⇄ counter_proposal → accepted | rejected.
func Negotiation() *protocol.Protocol {
	p := protocol.New("negotiation", "1.0", "Offer and counter-offer until agreement or rejection")

	proposal := protocol.NewInitialState("proposal", "Awaiting the opening proposal")
	proposal.AddTransition("proposal", "consideration", nil)

	consideration := protocol.NewState("consideration", "Proposal under consideration")
	consideration.AddTransition("counter_proposal", "counter_proposal", nil)
	consideration.AddTransition("accept", "accepted", nil)
	consideration.AddTransition("reject", "rejected", nil)

	counter := protocol.NewState("counter_proposal", "Counter-proposal on the table")
	counter.AddTransition("counter_proposal", "consideration", nil)
	counter.AddTransition("accept", "accepted", nil)
	counter.AddTransition("reject", "rejected", nil)

	accepted := protocol.NewTerminalState("accepted", "Terms accepted")
	rejected := protocol.NewTerminalState("rejected", "Negotiation broke down")

	p.AddState(proposal)
	p.AddState(consideration)
	p.AddState(counter)
	p.AddState(accepted)
	p.AddState(rejected)
	return p
}
