// Package dashboard serves the live system dashboard: an HTML page backed
// by a WebSocket stream of engine snapshots, one envelope per completed
// consciousness cycle.
package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bazinga/internal/consciousness"
	"bazinga/internal/logging"
)

// WebSocket timing and sizing.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Size of client send buffer.
	sendBuffer = 64
)

// Envelope types. The server streams state and thought envelopes; clients
// may send ping and get pong back.
const (
	TypeState   = "state"
	TypeThought = "thought"
	TypePong    = "pong"
	TypePing    = "ping"
)

// Message is the JSON envelope on the wire.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func envelope(msgType string, data interface{}) Message {
	return Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ============================================================================
// HUB
// ============================================================================

// Hub tracks connected dashboard clients and fans broadcasts out to them.
// A client whose send buffer is full is dropped rather than held back.
type Hub struct {
	mu         sync.Mutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub creates an empty hub. Call Run to start its loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			logging.Server("dashboard client connected (%d active)", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			logging.Server("dashboard client disconnected (%d active)", n)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
					logging.Get(logging.CategoryServer).Warn("dropped slow dashboard client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues an envelope for every client. A full queue drops the
// envelope; the next cycle supersedes it anyway.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Get(logging.CategoryServer).Error("marshal %s envelope: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// BroadcastState streams an engine snapshot.
func (h *Hub) BroadcastState(snap consciousness.Snapshot) {
	h.Broadcast(envelope(TypeState, snap))
}

// BroadcastThought streams one thought.
func (h *Hub) BroadcastThought(t consciousness.Thought) {
	h.Broadcast(envelope(TypeThought, t))
}

// ============================================================================
// CLIENT
// ============================================================================

// client is one WebSocket connection with its buffered outbound queue.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump consumes client envelopes until the connection drops. Pings get
// a pong queued; anything else is noted and ignored.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Get(logging.CategoryServer).Warn("dashboard read: %v", err)
			}
			return
		}
		c.handle(raw)
	}
}

func (c *client) handle(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		logging.Get(logging.CategoryServer).Debug("bad dashboard envelope: %v", err)
		return
	}
	if msg.Type != TypePing {
		logging.Get(logging.CategoryServer).Debug("unknown dashboard envelope type %q", msg.Type)
		return
	}
	data, err := json.Marshal(envelope(TypePong, nil))
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump drains the send queue to the connection and keeps the
// protocol-level ping/pong alive. It exits when the hub closes the queue.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)

			// Fold queued envelopes into the same frame, newline-separated.
			for i := len(c.send); i > 0; i-- {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard binds to localhost; any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and attaches the client to the hub.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Get(logging.CategoryServer).Warn("dashboard upgrade: %v", err)
		return
	}
	c := &client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case hub.register <- c:
	case <-hub.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
