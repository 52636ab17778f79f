package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pinchat/pinchat/chat/room"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PIN Chat Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PIN Chat Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rooms are ephemeral, in-memory chat rooms identified by a 6-digit PIN.
A room exists only while at least one user is connected to it; the last
user leaving destroys the room and its message history.

AVAILABLE TOOLS:
- server_info: Get server status, number of live rooms and active users
- check_room: Check whether a PIN maps to a live room, and whether it is full

Joining, messaging and leaving happen over the WebSocket endpoint, not
through MCP. These tools are read-only.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_info",
		Description: "Get the chat server status, including live room count and active user count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_room",
		Description: "Check whether a 6-digit PIN maps to a live room, and if so whether it has capacity for another user",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"pin": map[string]interface{}{
					"type":        "string",
					"description": "6-digit room PIN to check",
				},
			},
			Required: []string{"pin"},
		},
	}, c.handleCheckRoom)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info struct {
		Status      string `json:"status"`
		Rooms       int    `json:"rooms"`
		ActiveUsers int    `json:"activeUsers"`
		ServerTime  string `json:"serverTime"`
	}

	err := c.apiCall("GET", "/api/info", nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Server status: %s\nLive rooms: %d\nActive users: %d\nServer time: %s\n",
		info.Status, info.Rooms, info.ActiveUsers, info.ServerTime)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCheckRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	pin, _ := args["pin"].(string)
	if pin == "" {
		return mcp.NewToolResultError("pin is required"), nil
	}

	var status room.Status
	err := c.apiCall("GET", fmt.Sprintf("/api/checkRoom/%s", pin), nil, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !status.Exists {
		return mcp.NewToolResultText(fmt.Sprintf("Room %s does not exist", pin)), nil
	}

	result := fmt.Sprintf("Room %s exists\nUsers: %d/%d\nFull: %v\n",
		pin, status.UserCount, status.MaxUsers, status.IsFull)
	return mcp.NewToolResultText(result), nil
}
