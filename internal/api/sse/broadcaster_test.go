package sse

import (
	"strings"
	"testing"
	"time"

	"github.com/mcoot/pigdice-go/internal/model"
)

func TestBroadcaster_BroadcastTurnResult(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	result := &model.TurnResult{
		SessionID: "session-0001",
		Events: []model.TurnEvent{
			{
				Player:     "Alice",
				Action:     model.ActionRoll,
				Roll:       &model.Roll{Values: []int{4}, Total: 4},
				TurnPoints: 4,
				Outcome:    model.OutcomeRolled,
			},
		},
		State:        model.SessionStateRolled,
		ActivePlayer: "Alice",
	}

	// Create hub and client
	hub := manager.GetOrCreateHub(result.SessionID)
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Broadcast the turn result
	broadcaster.BroadcastTurnResult(result)

	// Verify client received the message
	select {
	case msg := <-client.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: turn") {
			t.Errorf("message does not contain event name: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"session_id":"session-0001"`) {
			t.Errorf("message does not contain session id: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"outcome":"rolled"`) {
			t.Errorf("message does not contain the outcome: %s", msgStr)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}

	manager.RemoveHub(result.SessionID)
}

func TestBroadcaster_BroadcastSessionState(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := &model.Session{
		ID:    "session-0001",
		Mode:  model.ModeTwoPlayer,
		Rules: model.DefaultRules(),
		State: model.SessionStateAwaitingRoll,
		Players: []model.SessionPlayer{
			{Name: "Ada", Score: 12},
			{Name: "Grace", Score: 7},
		},
		Active:    1,
		Winner:    -1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Create hub and client
	hub := manager.GetOrCreateHub(session.ID)
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Broadcast the session snapshot
	broadcaster.BroadcastSessionState(session)

	// Verify client received the message
	select {
	case msg := <-client.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: session") {
			t.Errorf("message does not contain event name: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"active_player":"Grace"`) {
			t.Errorf("message does not contain active player: %s", msgStr)
		}
		if !strings.Contains(msgStr, `"state":"awaiting_roll"`) {
			t.Errorf("message does not contain session state: %s", msgStr)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}

	manager.RemoveHub(session.ID)
}

func TestBroadcaster_BroadcastSessionAbandoned(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	sessionID := model.SessionID("session-0001")

	// Create hub and client
	hub := manager.GetOrCreateHub(sessionID)
	client := NewClient(hub, "10.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	// Broadcast the abandonment
	broadcaster.BroadcastSessionAbandoned(sessionID)

	// Verify client received the message
	select {
	case msg := <-client.send:
		msgStr := string(msg)
		if !strings.Contains(msgStr, "event: session-abandoned") {
			t.Errorf("message does not contain event name: %s", msgStr)
		}
		if !strings.Contains(msgStr, "data: abandoned") {
			t.Errorf("message does not contain abandoned signal: %s", msgStr)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}

	manager.RemoveHub(sessionID)
}

func TestBroadcaster_NoHubDoesNotPanic(t *testing.T) {
	manager := NewHubManager(testLogger())
	broadcaster := NewBroadcaster(manager, testLogger())

	// These should not panic when no hub exists for the session
	result := &model.TurnResult{SessionID: "session-9999"}
	session := &model.Session{
		ID:      "session-9999",
		Players: []model.SessionPlayer{{Name: "Ada"}, {Name: "Grace"}},
		Winner:  -1,
	}

	broadcaster.BroadcastTurnResult(result)
	broadcaster.BroadcastSessionState(session)
	broadcaster.BroadcastSessionAbandoned("session-9999")

	// If we get here without panic, test passed
}
