package session

import (
	"time"

	"github.com/pinchat/pinchat/chat/room"
)

// Inbound protocol event names.
const (
	EventCreateRoom  = "create_room"
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventLeaveRoom   = "leave_room"
)

// Outbound event names. The payload field names are the wire contract.
const (
	EventHostInfo       = "host_info"
	EventRoomUpdate     = "room_update"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventReceiveMessage = "receive_message"
	EventMessageHistory = "message_history"
	EventError          = "error"
)

// Emitter delivers an event to a single connection.
type Emitter interface {
	Emit(event string, payload interface{})
}

// Broadcaster manages room-scoped subscriptions and fan-out. Implemented by
// the websocket transport hub.
type Broadcaster interface {
	Subscribe(pin string, conn Emitter)
	Unsubscribe(pin string, conn Emitter)
	Broadcast(pin, event string, payload interface{})
	BroadcastExcept(pin string, except Emitter, event string, payload interface{})
}

// Ack is the single acknowledgment returned for every inbound protocol
// event. Exactly one of the optional fields is populated depending on the
// operation.
type Ack struct {
	Success   bool   `json:"success"`
	Pin       string `json:"pin,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func failAck(msg string) Ack {
	return Ack{Error: msg}
}

// RoomInfo is the occupancy summary embedded in room_update events.
type RoomInfo struct {
	Pin       string `json:"pin"`
	UserCount int    `json:"userCount"`
	MaxUsers  int    `json:"maxUsers"`
}

// RoomUpdate is broadcast room-wide whenever membership changes.
type RoomUpdate struct {
	Users    []string `json:"users"`
	RoomInfo RoomInfo `json:"roomInfo"`
}

// UserEvent announces a member joining or leaving.
type UserEvent struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// HostInfo is sent once per connection after reverse-DNS resolution.
type HostInfo struct {
	IP   string `json:"ip"`
	Host string `json:"host"`
}

// MessageHistory carries the room's full history to a newly joined
// connection.
type MessageHistory struct {
	Messages []room.Message `json:"messages"`
}

// ErrorEvent is the unsolicited error channel, supplementary to the ack on
// send failures.
type ErrorEvent struct {
	Message string `json:"message"`
}

func roomUpdate(snap room.Snapshot) RoomUpdate {
	return RoomUpdate{
		Users: snap.Users,
		RoomInfo: RoomInfo{
			Pin:       snap.Pin,
			UserCount: snap.UserCount,
			MaxUsers:  snap.MaxUsers,
		},
	}
}
