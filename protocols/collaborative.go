package protocols

import "github.com/torontoai/parley/protocol"

// CollaborativeProblemSolving returns the standard collaborative problem
// solving protocol: participants define a problem, clarify it, propose and
// evaluate solutions, refine until consensus, then implement.
//
// States: problem_definition → clarification → solution_proposal →
// evaluation → refinement ⇄ consensus → implementation → completed.
func CollaborativeProblemSolving() *protocol.Protocol {
	p := protocol.New("collaborative_problem_solving", "1.0", "Define, refine and solve a problem together")

	definition := protocol.NewInitialState("problem_definition", "Awaiting the problem statement")
	definition.AddTransition("problem_statement", "clarification", nil)

	clarification := protocol.NewState("clarification", "Scoping questions and answers")
	clarification.AddTransition("question", "clarification", nil)
	clarification.AddTransition("clarification_complete", "solution_proposal", nil)

	proposal := protocol.NewState("solution_proposal", "Collecting a candidate solution")
	proposal.AddTransition("solution", "evaluation", nil)

	evaluation := protocol.NewState("evaluation", "Candidate solution under evaluation")
	evaluation.AddTransition("evaluation_result", "refinement", nil)

	refinement := protocol.NewState("refinement", "Reworking the solution")
	refinement.AddTransition("refined_solution", "consensus", nil)

	consensus := protocol.NewState("consensus", "Seeking agreement on the refined solution")
	consensus.AddTransition("objection", "refinement", nil)
	consensus.AddTransition("agreement", "implementation", nil)

	implementation := protocol.NewState("implementation", "Agreed solution being implemented")
	implementation.AddTransition("implementation_report", "completed", nil)

	completed := protocol.NewTerminalState("completed", "Problem solved and delivered")

	p.AddState(definition)
	p.AddState(clarification)
	p.AddState(proposal)
	p.AddState(evaluation)
	p.AddState(refinement)
	p.AddState(consensus)
	p.AddState(implementation)
	p.AddState(completed)
	return p
}
