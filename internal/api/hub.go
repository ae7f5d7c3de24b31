package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/session"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	sendBuffer   = 16
)

// Message types pushed to and accepted from WebSocket clients
const (
	MessageSession = "session"
	MessagePing    = "ping"
	MessagePong    = "pong"
	MessageSync    = "sync"
)

// ClientMsg is a message sent by a WebSocket client
type ClientMsg struct {
	Type string `json:"type"`
}

// ServerMsg is a message pushed to WebSocket clients
type ServerMsg struct {
	Type    string        `json:"type"`
	Session *session.View `json:"session,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub pushes every session change to the connected WebSocket clients.
// Each connection has its own writer goroutine; a client that falls behind
// by more than sendBuffer messages is disconnected.
type Hub struct {
	upgrader websocket.Upgrader
	snapshot func() session.View
	log      *logrus.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub. snapshot provides the view sent on connect and on "sync".
func NewHub(allowOrigin func(r *http.Request) bool, snapshot func() session.View, log *logrus.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		snapshot: snapshot,
		log:      log,
		clients:  make(map[*client]struct{}),
	}
}

// Observer returns a session observer that broadcasts each committed view
func (h *Hub) Observer() session.Observer {
	return h.Broadcast
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades the connection, sends the current session and then
// streams updates until the client disconnects
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.sendView(c, h.snapshot())
	h.readPump(c)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMsg
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case MessagePing:
			h.enqueue(c, ServerMsg{Type: MessagePong})
		case MessageSync:
			h.sendView(c, h.snapshot())
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) sendView(c *client, v session.View) {
	h.enqueue(c, ServerMsg{Type: MessageSession, Session: &v})
}

func (h *Hub) enqueue(c *client, msg ServerMsg) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to encode WebSocket message")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		go h.unregister(c)
	}
}

// Broadcast sends a session view to every connected client
func (h *Hub) Broadcast(v session.View) {
	b, err := json.Marshal(ServerMsg{Type: MessageSession, Session: &v})
	if err != nil {
		h.log.WithError(err).Error("Failed to encode session update")
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("Dropping slow WebSocket client")
		h.unregister(c)
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// originChecker allows the configured CORS origins; "*" allows any origin
func originChecker(allowed []string) func(r *http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
