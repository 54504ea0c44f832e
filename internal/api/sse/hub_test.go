package sse

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "session-abandoned",
			data:      "abandoned",
			expected:  "event: session-abandoned\ndata: abandoned\n\n",
		},
		{
			name:      "json payload",
			eventName: "turn",
			data:      `{"state":"rolled"}`,
			expected:  "event: turn\ndata: {\"state\":\"rolled\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "turn",
			data:      "line1\nline2\nline3",
			expected:  "event: turn\ndata: line1\ndata: line2\ndata: line3\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "turn",
			data:      "line1\r\nline2",
			expected:  "event: turn\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("session-0001", testLogger())
	go hub.Run()
	defer hub.Close()

	// Create a client
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	// Broadcast a message
	hub.BroadcastEvent("turn", "test data")

	// Client should receive the message
	select {
	case msg := <-client.send:
		expected := "event: turn\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("session-0001", testLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
}

func TestHub_RegisterAfterCloseDisconnectsClient(t *testing.T) {
	hub := NewHub("session-0001", testLogger())
	go hub.Run()
	hub.Close()
	time.Sleep(10 * time.Millisecond)

	client := NewClient(hub, "10.0.0.1:1234")
	returned := make(chan struct{})
	go func() {
		hub.Register(client)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(1 * time.Second):
		t.Fatal("Register did not return on a closed hub")
	}

	// The late client's send channel closes so its connection loop
	// exits instead of waiting on a stream that never produces
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to close when registering on a closed hub")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("send channel not closed when registering on a closed hub")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub("session-0001", testLogger())
	go hub.Run()
	defer hub.Close()

	// Create multiple clients
	client1 := NewClient(hub, "10.0.0.1:1111")
	client2 := NewClient(hub, "10.0.0.2:2222")
	client3 := NewClient(hub, "10.0.0.3:3333")

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 3 {
		t.Errorf("ClientCount() = %d, want 3", hub.ClientCount())
	}

	// Broadcast a message
	hub.BroadcastEvent("session", "data")

	// All clients should receive the message
	for i, client := range []*Client{client1, client2, client3} {
		select {
		case msg := <-client.send:
			expected := "event: session\ndata: data\n\n"
			if string(msg) != expected {
				t.Errorf("client %d received %q, want %q", i+1, string(msg), expected)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testLogger())

	// Get or create a hub
	hub1 := manager.GetOrCreateHub("session-0001")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	// Getting again should return the same hub
	hub2 := manager.GetOrCreateHub("session-0001")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same session")
	}

	// Different session should return different hub
	hub3 := manager.GetOrCreateHub("session-0002")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different session")
	}

	// Clean up
	manager.RemoveHub("session-0001")
	manager.RemoveHub("session-0002")
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testLogger())

	// GetHub on non-existent hub should return nil
	hub := manager.GetHub("session-9999")
	if hub != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}

	// Create a hub then get it
	created := manager.GetOrCreateHub("session-0001")
	got := manager.GetHub("session-0001")
	if got != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("session-0001")
}

func TestHubManager_RemoveHub(t *testing.T) {
	manager := NewHubManager(testLogger())

	manager.GetOrCreateHub("session-0001")
	manager.RemoveHub("session-0001")

	// Hub should be gone
	got := manager.GetHub("session-0001")
	if got != nil {
		t.Error("Hub still exists after RemoveHub")
	}

	// Removing non-existent hub should not panic
	manager.RemoveHub("session-9999")
}

func TestHubManager_RemoveHubReleasesConnectedClients(t *testing.T) {
	manager := NewHubManager(testLogger())

	hub := manager.GetOrCreateHub("session-0001")
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.RemoveHub("session-0001")

	// The client's send channel closes so its connection loop exits
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to close after RemoveHub")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("send channel not closed after RemoveHub")
	}

	// The connection handler unregisters on the way out; that must not
	// block once the hub is gone
	returned := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(1 * time.Second):
		t.Fatal("Unregister did not return after RemoveHub")
	}
}

func TestHubManager_RemoveHubFlushesQueuedBroadcast(t *testing.T) {
	manager := NewHubManager(testLogger())

	hub := manager.GetOrCreateHub("session-0001")
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Broadcast and remove back to back, as session deletion does
	hub.BroadcastEvent("session-abandoned", "abandoned")
	manager.RemoveHub("session-0001")

	select {
	case msg, ok := <-client.send:
		if !ok {
			t.Fatal("send channel closed before the final event was delivered")
		}
		expected := "event: session-abandoned\ndata: abandoned\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive the final event")
	}

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to close after the final event")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("send channel not closed after RemoveHub")
	}
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testLogger())

	// Create a hub with no clients
	manager.GetOrCreateHub("session-0001")

	// Create a hub with a client
	hub2 := manager.GetOrCreateHub("session-0002")
	client := NewClient(hub2, "10.0.0.1:1234")
	hub2.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Cleanup empty hubs
	manager.CleanupEmptyHubs()

	// Empty hub should be gone
	if manager.GetHub("session-0001") != nil {
		t.Error("Empty hub still exists after cleanup")
	}

	// Active hub should still exist
	if manager.GetHub("session-0002") == nil {
		t.Error("Active hub was removed during cleanup")
	}

	manager.RemoveHub("session-0002")
}
