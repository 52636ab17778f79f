package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pinchat/pinchat/chat/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// envelope frames every message on the wire, in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID *int64          `json:"ackId,omitempty"`
}

// outEnvelope is the outbound counterpart with an unencoded payload.
type outEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	AckID *int64      `json:"ackId,omitempty"`
}

// Client represents one WebSocket connection. It implements session.Emitter
// so handlers and the hub can deliver events to it.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	id   string // connection ID
	ip   string // address-derived client identity
}

// Emit queues an event for delivery to this connection. Delivery is
// best-effort: if the send buffer is full the event is dropped.
func (c *Client) Emit(event string, payload interface{}) {
	data, err := json.Marshal(outEnvelope{Event: event, Data: payload})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Dropping %s event for slow client %s", event, c.ip)
	}
}

// ack sends the acknowledgment for an inbound request.
func (c *Client) ack(id int64, ack session.Ack) {
	data, err := json.Marshal(outEnvelope{Event: "ack", AckID: &id, Data: ack})
	if err != nil {
		log.Printf("Failed to marshal ack: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Dropping ack for slow client %s", c.ip)
	}
}

// writePump pumps queued messages to the WebSocket connection and keeps the
// connection alive with periodic pings. It exits when the reader signals
// done or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// Hub maintains the per-PIN broadcast groups. It implements
// session.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[session.Emitter]bool // subscribers by room pin
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[session.Emitter]bool)}
}

// Subscribe adds a connection to a room's broadcast group.
func (h *Hub) Subscribe(pin string, conn session.Emitter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[pin] == nil {
		h.rooms[pin] = make(map[session.Emitter]bool)
	}
	h.rooms[pin][conn] = true
}

// Unsubscribe removes a connection from a room's broadcast group, dropping
// the group once empty.
func (h *Hub) Unsubscribe(pin string, conn session.Emitter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[pin]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, pin)
		}
	}
}

// Broadcast delivers an event to every connection subscribed to a pin.
func (h *Hub) Broadcast(pin, event string, payload interface{}) {
	h.BroadcastExcept(pin, nil, event, payload)
}

// BroadcastExcept delivers an event to every subscriber of a pin other than
// the excluded connection.
func (h *Hub) BroadcastExcept(pin string, except session.Emitter, event string, payload interface{}) {
	h.mu.RLock()
	targets := make([]session.Emitter, 0, len(h.rooms[pin]))
	for conn := range h.rooms[pin] {
		if conn != except {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		conn.Emit(event, payload)
	}
}

// Subscribers returns the number of connections in a room's broadcast group.
func (h *Hub) Subscribers(pin string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[pin])
}
