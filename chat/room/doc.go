// Package room provides the in-memory room registry for the chat broker.
//
// The room package implements:
//   - PIN generation for room identifiers
//   - Thread-safe room and membership storage
//   - The one-room-per-client-identity constraint
//   - Room lifecycle (created on demand, destroyed when the last member leaves)
//   - Per-room message history
//
// Core Types:
//
// Registry is the single authoritative owner of all room state. Rooms are
// identified by a 6-digit numeric PIN; members are keyed by connection ID
// inside a room, while the one-room-at-a-time rule is enforced against a
// stable client identity derived from the network address.
//
// Concurrency:
//
// All registry operations serialize on one internal mutex. Compound
// operations (PIN draw + room insert, precondition checks + join) run inside
// a single critical section so that two concurrent creations can never claim
// the same PIN and two connections sharing a client identity can never both
// land in different rooms.
//
// Usage:
//
//	reg := room.NewRegistry()
//
//	snap, err := reg.Create(connID, "alice", clientKey, 5)
//	if err != nil {
//		// client identity already bound to a room
//	}
//
//	snap, history, err := reg.Join(snap.Pin, otherConnID, "bob", otherKey)
//
// Lifecycle:
//
// A room is destroyed the instant its member count reaches zero, on leave or
// disconnect. There is no timer-based cleanup; an empty room never exists.
package room
