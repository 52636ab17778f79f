// Package session implements the per-connection protocol state machine for
// the chat broker.
//
// The session package implements:
//   - Parsing of duck-typed inbound payloads into typed requests
//   - The Unbound -> Bound(pin) -> Unbound lifecycle of one connection
//   - Translation of protocol events into room registry operations
//   - Room-scoped event fan-out via a transport-provided Broadcaster
//
// Core Types:
//
// Handler binds one client channel to at most one room at a time. Each
// protocol operation (CreateRoom, JoinRoom, SendMessage, LeaveRoom) returns
// exactly one Ack, mirroring the callback-style acknowledgments of the wire
// protocol. Disconnect has no acknowledgment and is idempotent.
//
// Error Reporting:
//
// Protocol failures are never Go errors: they are carried in the Ack's Error
// field so the transport can relay them to the caller. The one exception is
// sending while unbound, which additionally emits an unsolicited "error"
// event to preserve both reporting channels.
//
// Concurrency:
//
// A handler's local binding state is guarded by a mutex because the
// transport invokes Disconnect from a different goroutine than the inbound
// event loop. All room state lives in the registry; the handler keeps only
// the PIN it is currently bound to.
package session
