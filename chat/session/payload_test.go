package session

import (
	"encoding/json"
	"testing"

	"github.com/pinchat/pinchat/chat/room"
)

func TestParseCreateObject(t *testing.T) {
	username, capacity := parseCreate(json.RawMessage(`{"username":"alice","maxUsers":3}`))
	if username != "alice" {
		t.Errorf("Expected username alice, got %q", username)
	}
	if capacity != 3 {
		t.Errorf("Expected capacity 3, got %d", capacity)
	}
}

func TestParseCreateStringEncodedObject(t *testing.T) {
	// A JSON string whose content is itself a JSON object.
	username, capacity := parseCreate(json.RawMessage(`"{\"username\":\"bob\",\"maxUsers\":8}"`))
	if username != "bob" {
		t.Errorf("Expected username bob, got %q", username)
	}
	if capacity != 8 {
		t.Errorf("Expected capacity 8, got %d", capacity)
	}
}

func TestParseCreateBareString(t *testing.T) {
	username, capacity := parseCreate(json.RawMessage(`"carol"`))
	if username != "carol" {
		t.Errorf("Expected username carol, got %q", username)
	}
	if capacity != room.DefaultCapacity {
		t.Errorf("Expected default capacity, got %d", capacity)
	}
}

func TestParseCreateCapacityRules(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"absent defaults", `{"username":"a"}`, room.DefaultCapacity},
		{"zero defaults", `{"username":"a","maxUsers":0}`, room.DefaultCapacity},
		{"negative defaults", `{"username":"a","maxUsers":-2}`, room.DefaultCapacity},
		{"above limit clamped", `{"username":"a","maxUsers":15}`, room.MaxCapacity},
		{"numeric string accepted", `{"username":"a","maxUsers":"7"}`, 7},
		{"garbage string defaults", `{"username":"a","maxUsers":"lots"}`, room.DefaultCapacity},
		{"wrong type defaults", `{"username":"a","maxUsers":true}`, room.DefaultCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, capacity := parseCreate(json.RawMessage(tt.raw))
			if capacity != tt.want {
				t.Errorf("Expected capacity %d, got %d", tt.want, capacity)
			}
		})
	}
}

func TestParseCreateNonStringUsername(t *testing.T) {
	username, _ := parseCreate(json.RawMessage(`{"username":42}`))
	if username != "" {
		t.Errorf("Non-string username should coerce to empty, got %q", username)
	}

	username, _ = parseCreate(json.RawMessage(`null`))
	if username != "" {
		t.Errorf("Null payload should yield empty username, got %q", username)
	}
}

func TestParseJoinObject(t *testing.T) {
	pin, username := parseJoin(json.RawMessage(`{"pin":"123456","username":"bob"}`))
	if pin != "123456" || username != "bob" {
		t.Errorf("Expected 123456/bob, got %q/%q", pin, username)
	}
}

func TestParseJoinNumericPin(t *testing.T) {
	pin, _ := parseJoin(json.RawMessage(`{"pin":123456,"username":"bob"}`))
	if pin != "123456" {
		t.Errorf("Numeric pin should coerce to decimal string, got %q", pin)
	}
}

func TestParseJoinStringEncodedObject(t *testing.T) {
	pin, username := parseJoin(json.RawMessage(`"{\"pin\":\"654321\",\"username\":\"dan\"}"`))
	if pin != "654321" || username != "dan" {
		t.Errorf("Expected 654321/dan, got %q/%q", pin, username)
	}
}

func TestParseJoinNoFallback(t *testing.T) {
	// Unlike create_room, a bare string is not a valid join payload.
	pin, username := parseJoin(json.RawMessage(`"123456"`))
	if pin != "" || username != "" {
		t.Errorf("Bare string join should yield empty fields, got %q/%q", pin, username)
	}
}
