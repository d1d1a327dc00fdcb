package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shootflow/shootflow/internal/logging"
	"github.com/shootflow/shootflow/pkg/metrics"
)

// WebSocketMessage is the envelope pushed to connected clients.
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// WebSocketHub fans automation reports and risk alerts out to clients.
type WebSocketHub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan WebSocketMessage
	done       chan struct{}
	upgrader   websocket.Upgrader
	log        *logging.Logger
	once       sync.Once
}

type wsClient struct {
	conn *websocket.Conn
	send chan WebSocketMessage
}

// NewWebSocketHub creates a hub. Call Run before serving connections.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan WebSocketMessage, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logging.WithField("component", "ws"),
	}
}

// Run processes hub events until Close.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				close(client.send)
				client.conn.Close()
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			metrics.WSClientConnected()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WSClientDisconnected()
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client, drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
					metrics.WSClientDisconnected()
				}
			}
		}
	}
}

// Close shuts the hub down.
func (h *WebSocketHub) Close() {
	h.once.Do(func() { close(h.done) })
}

// Broadcast queues a message for every client. Messages are dropped when the
// hub's buffer is full.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast buffer full, dropping %s message", msg.Type)
	}
}

// ServeHTTP upgrades the connection and attaches it to the hub.
func (h *WebSocketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan WebSocketMessage, 16)}
	h.register <- client

	go client.writeLoop()
	go client.readLoop(h)
}

func (c *wsClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *wsClient) readLoop(h *WebSocketHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 16)
	for {
		// Clients only listen; reads just detect disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
