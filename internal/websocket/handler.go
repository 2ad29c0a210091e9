package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboards are served from a different origin
		return true
	},
}

// HandleWebSocket upgrades HTTP connection to WebSocket.
// The optional "role" query parameter selects the feed (dashboard by default).
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		switch role {
		case "":
			role = RoleDashboard
		case RoleDashboard, RoleDriver:
		default:
			log.Printf("❌ Unknown WebSocket role: %s", role)
			http.Error(w, "Unknown role", http.StatusBadRequest)
			return
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(uuid.New().String(), role, conn, hub)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		// Start pumps in separate goroutines
		go client.WritePump()
		go client.ReadPump()

		if snapshot := hub.Snapshot(); snapshot != nil {
			hub.SendToClient(client.ID, snapshot)
		}

		log.Printf("✅ WebSocket connection established: %s (%s)", client.ID, role)
	}
}
