package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pigdice-go/internal/model"
)

// Hub fans session events out to the SSE clients watching one session.
//
// A hub lives until its session is deleted. Closing it stops the run
// loop, which first delivers any broadcasts queued before the close and
// then disconnects the remaining clients. Register and Unregister are
// safe to call on a closed hub, so connection handlers never block on a
// hub that has already shut down.
type Hub struct {
	sessionID model.SessionID
	clients   map[*Client]bool
	mu        sync.RWMutex
	logger    *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a new Hub for a session
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("session_id", string(sessionID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It owns the client set: membership
// changes and fan-out are serialized through it.
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.dropClient(client)
		case message := <-h.broadcast:
			h.fanOut(message)
		case <-h.done:
			h.shutdown()
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("sse client registered",
		slog.String("remote", client.remote),
		slog.Int("total_clients", clientCount))
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("sse client unregistered",
		slog.String("remote", client.remote),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	sentCount := 0
	droppedCount := 0
	for client := range h.clients {
		select {
		case client.send <- message:
			sentCount++
		default:
			droppedCount++
			h.logger.Warn("sse message dropped - client buffer full",
				slog.String("remote", client.remote))
		}
	}
	h.mu.RUnlock()
	if droppedCount > 0 {
		h.logger.Warn("sse broadcast partial failure",
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}
}

// shutdown flushes broadcasts queued ahead of Close, then disconnects
// every remaining client. A Broadcast call that returned before Close
// is never lost to the shutdown.
func (h *Hub) shutdown() {
	for {
		select {
		case message := <-h.broadcast:
			h.fanOut(message)
		default:
			h.disconnectAll()
			return
		}
	}
}

func (h *Hub) disconnectAll() {
	h.mu.Lock()
	clientCount := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()
	h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
}

// Register adds a client to the hub. On a closed hub the client's send
// channel is closed instead, so the connection handler sees an
// immediate disconnect rather than a stream that never produces. The
// client is not in the hub's set in that case, which makes this the
// only closer of its channel.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client from the hub. On a closed hub it returns
// immediately: the run loop that would receive it is gone, and shutdown
// closes every registered client's channel itself.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	msg := formatSSEMessage(eventName, data)
	h.Broadcast(msg)
}

// Close stops the run loop. Callers go through HubManager, which drops
// the hub from its map in the same critical section, so Close runs at
// most once per hub.
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	msg := "event: " + eventName + "\n"
	// SSE requires each line of data to be prefixed with "data: "
	lines := splitLines(data)
	for _, line := range lines {
		msg += "data: " + line + "\n"
	}
	msg += "\n"
	return []byte(msg)
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

// HubManager manages hubs for all sessions
type HubManager struct {
	hubs   map[model.SessionID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.SessionID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a session, creating one if it
// doesn't exist
func (m *HubManager) GetOrCreateHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok {
		return hub
	}

	hub := NewHub(sessionID, m.logger)
	m.hubs[sessionID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a session, or nil if it doesn't exist
func (m *HubManager) GetHub(sessionID model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[sessionID]
}

// RemoveHub removes a session's hub and stops it. Events queued before
// the removal are delivered before the hub disconnects its clients.
func (m *HubManager) RemoveHub(sessionID model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok {
		hub.Close()
		delete(m.hubs, sessionID)
		m.logger.Info("sse hub removed", slog.String("session_id", string(sessionID)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}
