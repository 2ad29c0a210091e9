package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(HandleWebSocket(hub))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSnapshotOnConnect(t *testing.T) {
	hub, srv := startHub(t)
	hub.SetSnapshotProvider(func() *Message {
		return NewMessage("fleet_snapshot", map[string]int{"vehicles": 3})
	})

	conn := dial(t, srv, "")
	msg := readMessage(t, conn)
	if msg.Type != "fleet_snapshot" {
		t.Errorf("expected fleet_snapshot, got %s", msg.Type)
	}

	t.Run("snapshot on request", func(t *testing.T) {
		if err := conn.WriteJSON(map[string]string{"type": "snapshot_request"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if msg := readMessage(t, conn); msg.Type != "fleet_snapshot" {
			t.Errorf("expected fleet_snapshot, got %s", msg.Type)
		}
	})

	t.Run("ping pong", func(t *testing.T) {
		if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if msg := readMessage(t, conn); msg.Type != "pong" {
			t.Errorf("expected pong, got %s", msg.Type)
		}
	})
}

func TestHubBroadcastToRole(t *testing.T) {
	hub, srv := startHub(t)

	dashboard := dial(t, srv, "?role=dashboard")
	driver := dial(t, srv, "?role=driver")
	waitForClients(t, hub, 2)

	if sent := hub.BroadcastToRole(RoleDashboard, NewMessage("fatigue_summary", nil)); sent != 1 {
		t.Errorf("expected 1 recipient, got %d", sent)
	}
	if msg := readMessage(t, dashboard); msg.Type != "fatigue_summary" {
		t.Errorf("expected fatigue_summary, got %s", msg.Type)
	}

	driver.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := driver.ReadMessage(); err == nil {
		t.Error("driver should not receive dashboard broadcast")
	}
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "")
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHandleWebSocketRejectsUnknownRole(t *testing.T) {
	_, srv := startHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?role=admin"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Errorf("expected 400 response, got %v", resp)
	}
}
