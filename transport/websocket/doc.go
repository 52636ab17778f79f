// Package websocket provides the WebSocket transport for the chat broker.
//
// The websocket package implements:
//   - Connection acceptance and client identity derivation
//   - Per-PIN broadcast groups over persistent connections
//   - Envelope framing with per-request acknowledgments
//   - Best-effort reverse-DNS host resolution per connection
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub tracks which
// connections are subscribed to which room PIN. Each client connection is
// served by dedicated read and write goroutines.
//
// Message Protocol:
//
// Messages are JSON envelopes:
//   - Incoming: {"event": "create_room", "data": {...}, "ackId": 1}
//   - Acknowledgment: {"event": "ack", "ackId": 1, "data": {"success": true, ...}}
//   - Server events: {"event": "room_update", "data": {...}}
//
// The Gateway translates inbound envelopes into session.Handler calls and
// relays exactly one acknowledgment per request carrying an ackId. Events
// without an ackId are processed without acknowledgment.
//
// Connection Lifecycle:
//
// 1. Client connects, a connection ID and an address-derived identity are assigned
// 2. Reverse DNS resolution starts in the background; host_info is emitted once resolved
// 3. Client sends protocol events, receives acks and room-wide broadcasts
// 4. Disconnection runs the session's leaving procedure and cleanup
//
// Concurrency:
//
// The hub is safe for concurrent use. Outbound delivery is non-blocking: a
// connection whose send buffer is full has that message dropped rather than
// stalling the broadcast.
package websocket
