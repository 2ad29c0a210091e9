package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Client roles
const (
	RoleDashboard = "dashboard"
	RoleDriver    = "driver"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (client ID -> Client)
	clients map[string]*Client

	// Targeted messages for a single client
	direct chan *directMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Builds the message sent to a client right after it connects
	snapshot func() *Message

	// Closed once Run returns
	done chan struct{}

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Message is the envelope for everything pushed to clients
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewMessage stamps a message with the current time
func NewMessage(msgType string, data interface{}) *Message {
	return &Message{
		Type:      msgType,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

type directMessage struct {
	ClientID string
	Message  *Message
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		direct:     make(chan *directMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// SetSnapshotProvider sets the builder for the initial message of new clients
func (h *Hub) SetSnapshotProvider(fn func() *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = fn
}

// Snapshot returns the current initial message, or nil if none is configured
func (h *Hub) Snapshot() *Message {
	h.mu.RLock()
	fn := h.snapshot
	h.mu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// Run starts the hub's main loop until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			log.Println("🛑 [WEBSOCKET] Hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Printf("✅ [WEBSOCKET] Client CONNECTED")
			log.Printf("   Client ID: %s", client.ID)
			log.Printf("   Role: %s", client.Role)
			log.Printf("   Total connected clients: %d", total)
			log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.ID]; ok && current == client {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				log.Printf("🔴 [WEBSOCKET] Client DISCONNECTED")
				log.Printf("   Client ID: %s", client.ID)
				log.Printf("   Role: %s", client.Role)
				log.Printf("   Remaining connected clients: %d", len(h.clients))
				log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			}
			h.mu.Unlock()

		case msg := <-h.direct:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			if client, ok := h.clients[msg.ClientID]; ok {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, client.ID)
					log.Printf("⚠️ Client buffer full, disconnecting: %s", client.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client. Returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToClient queues a message for a single client
func (h *Hub) SendToClient(clientID string, msg *Message) {
	select {
	case h.direct <- &directMessage{ClientID: clientID, Message: msg}:
	case <-h.done:
	}
}

// BroadcastToRole sends a message to all clients with a specific role.
// Clients with a full buffer are skipped.
func (h *Hub) BroadcastToRole(role string, msg *Message) int {
	dataBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to marshal broadcast message: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if client.Role != role {
			continue
		}
		select {
		case client.send <- dataBytes:
			sent++
		default:
		}
	}
	return sent
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
