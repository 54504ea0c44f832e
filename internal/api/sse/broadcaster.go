package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/pigdice-go/internal/api/response"
	"github.com/mcoot/pigdice-go/internal/model"
)

// Broadcaster pushes session updates to SSE clients as JSON events
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastTurnResult broadcasts the events of one submitted action,
// including any computer reply turn
func (b *Broadcaster) BroadcastTurnResult(result *model.TurnResult) {
	hub := b.hubManager.GetHub(result.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.TurnResultFromModel(result))
	if err != nil {
		b.logger.Error("sse failed to encode turn result",
			slog.String("session_id", string(result.SessionID)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent("turn", string(data))
}

// BroadcastSessionState broadcasts a full session snapshot after
// out-of-turn changes such as restarts or renames
func (b *Broadcaster) BroadcastSessionState(session *model.Session) {
	hub := b.hubManager.GetHub(session.ID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.SessionFromModel(session))
	if err != nil {
		b.logger.Error("sse failed to encode session",
			slog.String("session_id", string(session.ID)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent("session", string(data))
}

// BroadcastSessionAbandoned broadcasts that the session has ended
// without a winner
func (b *Broadcaster) BroadcastSessionAbandoned(sessionID model.SessionID) {
	hub := b.hubManager.GetHub(sessionID)
	if hub == nil {
		return
	}

	hub.BroadcastEvent("session-abandoned", "abandoned")
}
