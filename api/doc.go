// Package api provides the HTTP surface of the chat broker.
//
// The api package implements:
//   - RESTful informational endpoints over the room registry
//   - The WebSocket mount point
//   - CORS handling for browser clients
//
// Endpoints:
//
//	GET /api/info            Server status, live room count, aggregate user count
//	GET /api/checkRoom/{pin} Whether a pin names a live room and its occupancy
//	GET /ws                  WebSocket upgrade, handled by the connection gateway
//	GET /                    Plain banner
//
// Both informational endpoints are read-only views over registry state; all
// mutation happens through the WebSocket protocol.
package api
