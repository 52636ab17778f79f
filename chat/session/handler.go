package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/pinchat/pinchat/chat/room"
)

// Handler is the per-connection state machine. It starts Unbound, moves to
// Bound(pin) on a successful create or join, and returns to Unbound on leave
// or disconnect. The registry remains the authority on bindings; the handler
// mirrors only the current pin.
type Handler struct {
	registry  *room.Registry
	bus       Broadcaster
	conn      Emitter
	connID    string
	clientKey string

	mu  sync.Mutex
	pin string // empty while unbound
}

// NewHandler creates a handler bound to one client channel and a stable
// client identity.
func NewHandler(registry *room.Registry, bus Broadcaster, conn Emitter, connID, clientKey string) *Handler {
	return &Handler{
		registry:  registry,
		bus:       bus,
		conn:      conn,
		connID:    connID,
		clientKey: clientKey,
	}
}

// Pin returns the pin of the room this connection is currently bound to, or
// the empty string while unbound.
func (h *Handler) Pin() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pin
}

// CreateRoom handles a create_room event. The payload may be a structured
// object, a JSON-encoded string of one, or a bare display name. On success
// the connection is subscribed to the new room and a room_update goes out to
// its (so far only) subscriber.
func (h *Handler) CreateRoom(raw json.RawMessage) Ack {
	h.mu.Lock()
	defer h.mu.Unlock()

	username, capacity := parseCreate(raw)

	if h.registry.IsBound(h.clientKey) {
		log.Printf("Client %s tried to create a room while already in one", h.clientKey)
		return failAck("already in a room")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		log.Printf("Client %s tried to create a room with an invalid username", h.clientKey)
		return failAck("invalid username")
	}

	snap, err := h.registry.Create(h.connID, username, h.clientKey, capacity)
	if err != nil {
		// Lost a race against another connection sharing this identity.
		return failAck("already in a room")
	}

	h.pin = snap.Pin
	h.bus.Subscribe(snap.Pin, h.conn)
	h.bus.Broadcast(snap.Pin, EventRoomUpdate, roomUpdate(snap))

	log.Printf("Room %s created by %s (%s)", snap.Pin, username, h.clientKey)
	return Ack{
		Success: true,
		Pin:     snap.Pin,
		Message: fmt.Sprintf("room created with PIN %s", snap.Pin),
	}
}

// JoinRoom handles a join_room event. Precondition failures map to distinct
// acknowledgment errors in protocol order: already bound, unknown pin, room
// at capacity. On success the joiner receives the room's message history,
// the whole room gets a room_update, and the other members get user_joined.
func (h *Handler) JoinRoom(raw json.RawMessage) Ack {
	h.mu.Lock()
	defer h.mu.Unlock()

	pin, username := parseJoin(raw)
	if pin == "" || username == "" {
		return failAck("pin and username required")
	}

	snap, history, err := h.registry.Join(pin, h.connID, username, h.clientKey)
	switch {
	case errors.Is(err, room.ErrAlreadyInRoom):
		log.Printf("Client %s tried to join a room while already in one", h.clientKey)
		return failAck("already in a room")
	case errors.Is(err, room.ErrRoomNotFound):
		log.Printf("Client %s tried to join nonexistent room %s", h.clientKey, pin)
		return failAck("room does not exist")
	case errors.Is(err, room.ErrRoomFull):
		log.Printf("Client %s tried to join full room %s", h.clientKey, pin)
		return failAck("room is full")
	case err != nil:
		return failAck(err.Error())
	}

	h.pin = pin
	h.bus.Subscribe(pin, h.conn)

	h.conn.Emit(EventMessageHistory, MessageHistory{Messages: history})
	h.bus.Broadcast(pin, EventRoomUpdate, roomUpdate(snap))
	h.bus.BroadcastExcept(pin, h.conn, EventUserJoined, UserEvent{
		Username:  username,
		Timestamp: time.Now(),
	})

	log.Printf("%s (%s) joined room %s", username, h.clientKey, pin)
	return Ack{
		Success: true,
		Message: fmt.Sprintf("joined room %s", pin),
	}
}

// SendMessage handles a send_message event. Sending while unbound fails by
// acknowledgment and additionally emits an unsolicited error event. A room
// that vanished since binding, or a stale membership record, each fail with
// their own error without changing session state.
func (h *Handler) SendMessage(text string) Ack {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pin == "" {
		h.conn.Emit(EventError, ErrorEvent{Message: "not in a room"})
		log.Printf("Client %s tried to send a message while not in a room", h.clientKey)
		return failAck("not in a room")
	}

	member, err := h.registry.Member(h.pin, h.connID)
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return failAck("room no longer exists")
	case errors.Is(err, room.ErrNotMember):
		return failAck("not registered in this room")
	}

	msg := room.Message{
		ID:        room.NewMessageID(),
		Text:      text,
		Username:  member.Username,
		Timestamp: time.Now(),
	}
	if !h.registry.Append(h.pin, msg) {
		// Room torn down between the member lookup and the append.
		return failAck("room no longer exists")
	}

	h.bus.Broadcast(h.pin, EventReceiveMessage, msg)
	return Ack{Success: true, MessageID: msg.ID}
}

// LeaveRoom handles an explicit leave_room event.
func (h *Handler) LeaveRoom() Ack {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pin == "" || !h.registry.IsBound(h.clientKey) {
		log.Printf("Client %s tried to leave a room while not in one", h.clientKey)
		return failAck("not in a room")
	}

	h.leaveLocked()
	return Ack{Success: true, Message: "left the room"}
}

// Disconnect runs the shared leaving procedure when the transport reports
// the channel closed. It is idempotent; running it while unbound is a no-op.
func (h *Handler) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked()
}

// leaveLocked is the shared leaving procedure. The caller must hold h.mu.
// Remaining members are told who left; if the room survived they also get a
// fresh room_update. Local binding state is cleared and the connection
// unsubscribed unconditionally, even when the registry reports the member
// already removed by a concurrent operation.
func (h *Handler) leaveLocked() {
	if h.pin == "" {
		return
	}
	pin := h.pin

	dep, err := h.registry.RemoveMember(h.connID, h.clientKey)
	if err == nil {
		h.bus.BroadcastExcept(dep.Pin, h.conn, EventUserLeft, UserEvent{
			Username:  dep.Username,
			Timestamp: time.Now(),
		})
		if !dep.WasLast {
			h.bus.Broadcast(dep.Pin, EventRoomUpdate, roomUpdate(dep.Room))
		}
		log.Printf("%s (%s) left room %s", dep.Username, h.clientKey, dep.Pin)
	}

	h.pin = ""
	h.bus.Unsubscribe(pin, h.conn)
}
