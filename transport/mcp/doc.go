// Package mcp provides a Model Context Protocol surface for the chat server.
//
// The mcp package implements:
//   - MCP server exposing read-only chat server tools
//   - Thin client that proxies every tool call to the REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - server_info: Get server status, room count and active user count
//   - check_room: Check whether a PIN maps to a live room and its occupancy
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: streamable HTTP endpoint mounted on the main server
//
// The client holds no chat state of its own. Every tool call is an HTTP
// request against the REST API, so the MCP surface always reflects the
// live registry regardless of which process hosts it.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.NewStreamableHTTPServer(client.GetMCPServer())
package mcp
