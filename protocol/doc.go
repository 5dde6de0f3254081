// Package protocol implements finite-state-machine conversation protocols:
// named states, the message types each state accepts, and transitions between
// states keyed by message type and optionally gated by declarative
// conditions.
//
// A Protocol is assembled from States during setup, validated, and then
// registered with an engine.Manager. After registration the structure is
// read-only; concurrent reads from many conversations are safe, concurrent
// mutation is not. Conditions are data ({op, path, value}), not callables,
// so protocol definitions round-trip through JSON and YAML without loss.
package protocol
