package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pinchat/pinchat/chat/room"
	"github.com/pinchat/pinchat/chat/session"
)

const hostLookupTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is handled by the CORS configuration upstream.
		return true
	},
}

// Gateway accepts WebSocket connections and wires a session handler to each.
type Gateway struct {
	registry *room.Registry
	hub      *Hub
}

// NewGateway creates a gateway serving the given registry through the hub.
func NewGateway(registry *room.Registry, hub *Hub) *Gateway {
	return &Gateway{registry: registry, hub: hub}
}

// ServeWS handles a WebSocket upgrade request. Each connection gets a fresh
// connection ID and an identity derived from the remote address; the
// identity is what the one-room-at-a-time rule is keyed on.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	clientIP := clientAddr(r.RemoteAddr)
	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
		id:   uuid.NewString(),
		ip:   clientIP,
	}
	handler := session.NewHandler(g.registry, g.hub, client, client.id, clientIP)

	log.Printf("Client connected: %s", clientIP)

	go client.writePump()
	go resolveHost(client, clientIP)
	go g.readPump(client, handler)
}

// readPump reads inbound envelopes and dispatches them until the connection
// closes, then runs the session's disconnect procedure.
func (g *Gateway) readPump(c *Client, h *session.Handler) {
	defer func() {
		h.Disconnect()
		close(c.done)
		c.conn.Close()
		log.Printf("Client disconnected: %s", c.ip)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error from %s: %v", c.ip, err)
			}
			return
		}
		g.dispatch(c, h, data)
	}
}

// dispatch routes one inbound envelope to the session handler and relays the
// acknowledgment when the request carried an ackId.
func (g *Gateway) dispatch(c *Client, h *session.Handler, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("Malformed envelope from %s: %v", c.ip, err)
		return
	}

	var ack session.Ack
	switch env.Event {
	case session.EventCreateRoom:
		ack = h.CreateRoom(env.Data)
	case session.EventJoinRoom:
		ack = h.JoinRoom(env.Data)
	case session.EventSendMessage:
		ack = h.SendMessage(messageText(env.Data))
	case session.EventLeaveRoom:
		ack = h.LeaveRoom()
	default:
		log.Printf("Unknown event %q from %s", env.Event, c.ip)
		return
	}

	if env.AckID != nil {
		c.ack(*env.AckID, ack)
	}
}

// messageText extracts the raw text of a send_message payload. The payload
// is normally a JSON string; anything else is passed through verbatim.
func messageText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}

// clientAddr derives the stable client identity from a transport address,
// normalizing the IPv4-mapped IPv6 prefix.
func clientAddr(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	return strings.TrimPrefix(host, "::ffff:")
}

// resolveHost performs the best-effort reverse-DNS lookup for a connection
// and emits host_info once. Resolution failure degrades to the raw address;
// it never affects protocol processing.
func resolveHost(c *Client, ip string) {
	ctx, cancel := context.WithTimeout(context.Background(), hostLookupTimeout)
	defer cancel()

	host := ip
	if names, err := net.DefaultResolver.LookupAddr(ctx, ip); err == nil && len(names) > 0 {
		host = strings.TrimSuffix(names[0], ".")
	}

	log.Printf("Client hostname for %s: %s", ip, host)
	c.Emit(session.EventHostInfo, session.HostInfo{IP: ip, Host: host})
}
