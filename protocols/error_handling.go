package protocols

import "github.com/torontoai/parley/protocol"

// ErrorHandling returns the standard error handling protocol: an error is
// reported, diagnosed and resolved, and the fix is verified. Resolution can
// bounce back to diagnosis when more information is needed, and a failed
// verification reopens the diagnosis.
//
// States: error_report → diagnosis ⇄ resolution → verification →
// completed, with verification → diagnosis on report_issue.
func ErrorHandling() *protocol.Protocol {
	p := protocol.New("error_handling", "1.0", "Report, diagnose, resolve and verify an error")

	report := protocol.NewInitialState("error_report", "Awaiting the error report")
	report.AddTransition("error_report", "diagnosis", nil)

	diagnosis := protocol.NewState("diagnosis", "Error under diagnosis")
	diagnosis.AddTransition("diagnosis_result", "resolution", nil)

	resolution := protocol.NewState("resolution", "Fix being prepared")
	resolution.AddTransition("needs_info", "diagnosis", nil)
	resolution.AddTransition("resolution_applied", "verification", nil)

	verification := protocol.NewState("verification", "Fix under verification")
	verification.AddTransition("verified", "completed", nil)
	verification.AddTransition("report_issue", "diagnosis", nil)

	completed := protocol.NewTerminalState("completed", "Error resolved and verified")

	p.AddState(report)
	p.AddState(diagnosis)
	p.AddState(resolution)
	p.AddState(verification)
	p.AddState(completed)
	return p
}
