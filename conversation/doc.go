// Package conversation implements the live conversation entity: a protocol
// instance bound to a fixed set of participants, advancing through protocol
// states as messages arrive and keeping an append-only history of message
// records.
//
// Conversations are safe for concurrent use. Each one carries its own
// RWMutex; message delivery is atomic per conversation (validate, record,
// transition, touch timestamps as one step) and rejected messages leave no
// trace. Registry concerns, including the active/archived split, belong to
// the engine package.
package conversation
