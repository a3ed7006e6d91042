package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// wsClient pairs a connection with its write lock. gorilla/websocket allows
// only one concurrent writer per connection, and both the broadcast loop and
// the keepalive ticker write to it, so every frame goes through write.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans dashboard events out to WebSocket clients. Dashboards that keep
// a live connection get the same payloads the SSE broker serves, without
// reconnect polling.
type Hub struct {
	upgrader  websocket.Upgrader
	clients   map[*wsClient]bool
	mu        sync.Mutex
	broadcast chan []byte
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard origins are not restricted; there is no session to hijack.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*wsClient]bool),
		broadcast: make(chan []byte, 256),
	}
}

// Run starts the hub broadcast loop.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for client := range h.clients {
			if err := client.write(websocket.TextMessage, msg); err != nil {
				client.conn.Close()
				delete(h.clients, client)
			}
		}
		h.mu.Unlock()
	}
}

// HandleWS upgrades an HTTP request to a WebSocket subscription.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️  WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{conn: conn}

	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("WebSocket client connected. Total: %d", total)

	go h.keepAlive(client)

	// Reader loop: clients never send payloads, but reading drains control
	// frames and detects disconnects.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, client)
	total = len(h.clients)
	h.mu.Unlock()
	conn.Close()
	log.Printf("WebSocket client disconnected. Total: %d", total)
}

func (h *Hub) keepAlive(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		_, alive := h.clients[client]
		h.mu.Unlock()
		if !alive {
			return
		}

		if err := client.write(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data := map[string]interface{}{
		"event":   event,
		"payload": payload,
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshalling hub message: %v", err)
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Drop if broadcast buffer full
	}
}
