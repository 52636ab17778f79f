package session

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pinchat/pinchat/chat/room"
)

// Inbound payloads are duck-typed: clients may send a structured object, a
// JSON-encoded string containing such an object, or (for create_room) a bare
// string standing in for the display name. The parsers below apply the
// fallback rules once and hand the handlers a typed result.

// parseCreate extracts the display name and requested capacity from a
// create_room payload. The username is returned untrimmed; an empty string
// means the field was absent or not a string. The capacity is already
// clamped, with room.DefaultCapacity substituted when maxUsers is absent or
// invalid.
func parseCreate(raw json.RawMessage) (username string, capacity int) {
	if obj := decodeObject(raw); obj != nil {
		username, _ = obj["username"].(string)
		return username, capacityFrom(obj["maxUsers"])
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// A plain string is the display name alone.
		return s, room.DefaultCapacity
	}

	return "", room.DefaultCapacity
}

// parseJoin extracts the pin and display name from a join_room payload.
// There is no bare-string fallback for joins; a payload that is neither an
// object nor a JSON-encoded object yields two empty strings. Numeric pins
// are coerced to their decimal form.
func parseJoin(raw json.RawMessage) (pin, username string) {
	obj := decodeObject(raw)
	if obj == nil {
		return "", ""
	}
	pin = stringField(obj["pin"])
	username, _ = obj["username"].(string)
	return pin, username
}

// decodeObject unwraps raw into a JSON object, looking through one level of
// string encoding. It returns nil when no object shape can be recovered.
func decodeObject(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil && obj != nil {
		return obj
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil && obj != nil {
		return obj
	}
	return nil
}

// capacityFrom interprets a maxUsers field that may arrive as a JSON number
// or a numeric string.
func capacityFrom(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return room.ClampCapacity(int(n))
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return room.ClampCapacity(i)
		}
	}
	return room.DefaultCapacity
}

// stringField coerces a pin field to a string, accepting JSON numbers.
func stringField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
