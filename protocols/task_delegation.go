package protocols

import "github.com/torontoai/parley/protocol"

// TaskDelegation returns the standard task delegation protocol: a task is
// assigned, accepted or rejected, worked with status updates, reported
// complete and verified before the delegation is finalized. Verification
// only finalizes when the verifier's message carries approved = true,
// otherwise the conversation stays in verification awaiting another
// verdict.
//
// States: assignment → acceptance → in_progress ⇄ completed → verification
// → finalized, with acceptance → finalized on rejection.
func TaskDelegation() *protocol.Protocol {
	p := protocol.New("task_delegation", "1.0", "Assign, execute, verify and finalize a task")

	assignment := protocol.NewInitialState("assignment", "Awaiting the task assignment")
	assignment.AddTransition("assignment", "acceptance", nil)

	acceptance := protocol.NewState("acceptance", "Assignee deciding whether to take the task")
	acceptance.AddTransition("accept", "in_progress", nil)
	acceptance.AddTransition("reject", "finalized", nil)

	inProgress := protocol.NewState("in_progress", "Task being worked")
	inProgress.AddTransition("status_update", "in_progress", nil)
	inProgress.AddTransition("completion_report", "completed", nil)

	completed := protocol.NewState("completed", "Work reported complete, awaiting review")
	completed.AddTransition("revision_request", "in_progress", nil)
	completed.AddTransition("verification_request", "verification", nil)

	verification := protocol.NewState("verification", "Result under verification")
	verification.AddTransition("verified", "finalized", &protocol.Condition{
		Op:    protocol.OpEquals,
		Path:  "content.approved",
		Value: true,
	})

	finalized := protocol.NewTerminalState("finalized", "Delegation closed")

	p.AddState(assignment)
	p.AddState(acceptance)
	p.AddState(inProgress)
	p.AddState(completed)
	p.AddState(verification)
	p.AddState(finalized)
	return p
}
