package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/model"
)

// TestWebSocketConnectionLimits tests that the hub handles many concurrent
// connections and concurrent broadcasts without losing registrations
func TestWebSocketConnectionLimits(t *testing.T) {
	hub := NewHub()

	maxConnections := 10

	clients := make([]*Client, maxConnections)
	for i := 0; i < maxConnections; i++ {
		clients[i] = &Client{
			UserID:      fmt.Sprintf("user%d", i),
			Username:    fmt.Sprintf("testuser%d", i),
			Send:        make(chan []byte, 256),
			Hub:         hub,
			ConnectedAt: time.Now(),
			LastPing:    time.Now(),
		}
		hub.registerClient(clients[i])
	}

	if hub.GetConnectionCount() != maxConnections {
		t.Errorf("Expected %d connections, got %d", maxConnections, hub.GetConnectionCount())
	}

	for i := 0; i < maxConnections; i++ {
		userID := fmt.Sprintf("user%d", i)
		if hub.GetUserConnectionCount(userID) != 1 {
			t.Errorf("Expected 1 connection for %s, got %d", userID, hub.GetUserConnectionCount(userID))
		}
	}

	// Concurrent broadcasts must not panic or drop registrations
	var wg sync.WaitGroup
	numBroadcasts := 20
	for i := 0; i < numBroadcasts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.BroadcastActivity(model.Activity{
				TaskID: fmt.Sprintf("task-%d", idx),
				Type:   model.ActivityUpdatedStatus,
				Field:  "status",
			})
		}(i)
	}
	wg.Wait()

	if hub.GetConnectionCount() != maxConnections {
		t.Errorf("Expected %d connections after broadcasts, got %d", maxConnections, hub.GetConnectionCount())
	}

	// Every client should have received at least one event
	for i, client := range clients {
		if len(client.Send) == 0 {
			t.Errorf("Client %d received no events", i)
		}
	}

	// Unregister everyone
	for _, client := range clients {
		hub.unregisterClient(client)
	}

	if hub.GetConnectionCount() != 0 {
		t.Errorf("Expected 0 connections after unregistering, got %d", hub.GetConnectionCount())
	}
}
