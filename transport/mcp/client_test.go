package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"status":      "online",
		"rooms":       float64(2),
		"activeUsers": float64(3),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api/info", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["status"] != expectedResponse["status"] {
		t.Errorf("Expected status %v, got %v", expectedResponse["status"], response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/info", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/info", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_handleServerInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/info" {
			t.Errorf("Expected GET /api/info, got %s %s", r.Method, r.URL.Path)
		}

		resp := map[string]interface{}{
			"status":      "online",
			"rooms":       4,
			"activeUsers": 9,
			"serverTime":  "2025-01-01T00:00:00Z",
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "server_info",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleServerInfo(ctx, request)
	if err != nil {
		t.Fatalf("handleServerInfo failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	for _, field := range []string{"online", "Live rooms: 4", "Active users: 9"} {
		if !strings.Contains(resultStr.Text, field) {
			t.Errorf("Expected %q in result, got: %s", field, resultStr.Text)
		}
	}
}

func TestClient_handleCheckRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/checkRoom/123456" {
			t.Errorf("Expected /api/checkRoom/123456, got %s", r.URL.Path)
		}

		resp := map[string]interface{}{
			"exists":    true,
			"isFull":    false,
			"userCount": 2,
			"maxUsers":  5,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "check_room",
			Arguments: map[string]interface{}{"pin": "123456"},
		},
	}

	result, err := client.handleCheckRoom(ctx, request)
	if err != nil {
		t.Fatalf("handleCheckRoom failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "Room 123456 exists") {
		t.Errorf("Expected existence line, got: %s", resultStr.Text)
	}
	if !strings.Contains(resultStr.Text, "Users: 2/5") {
		t.Errorf("Expected occupancy line, got: %s", resultStr.Text)
	}
}

func TestClient_handleCheckRoom_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"exists": false})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "check_room",
			Arguments: map[string]interface{}{"pin": "000000"},
		},
	}

	result, err := client.handleCheckRoom(ctx, request)
	if err != nil {
		t.Fatalf("handleCheckRoom failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "does not exist") {
		t.Errorf("Expected not-found message, got: %s", resultStr.Text)
	}
}

func TestClient_handleCheckRoom_MissingPin(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "check_room",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCheckRoom(ctx, request)
	if err != nil {
		t.Fatalf("handleCheckRoom failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result for missing pin")
	}
}
