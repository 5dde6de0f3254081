// Package protocols provides the standard protocol library: ready-made
// conversation protocols for common agent interaction patterns.
//
// Five protocols ship with Parley:
//
//   - InformationExchange: request, answer, optional clarification loop
//   - Negotiation: proposal and counter-proposals until accepted or rejected
//   - TaskDelegation: assignment through verification to a finalized task
//   - CollaborativeProblemSolving: definition through consensus to delivery
//   - ErrorHandling: report, diagnosis, resolution and verification
//
// Each constructor returns a fresh instance, so callers can register the
// same protocol with several managers or mutate a copy during setup without
// sharing state. All() bundles one instance of each for bulk registration:
//
//	for _, p := range protocols.All() {
//	    if err := mgr.RegisterProtocol(p); err != nil {
//	        return err
//	    }
//	}
package protocols
