package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pigdice-go/internal/api/request"
	"github.com/mcoot/pigdice-go/internal/api/response"
	"github.com/mcoot/pigdice-go/internal/api/sse"
	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/services/game"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	controller  *game.Controller
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *game.Controller, hubManager *sse.HubManager, logger *slog.Logger) *SessionHandler {
	var broadcaster *sse.Broadcaster
	if hubManager != nil {
		broadcaster = sse.NewBroadcaster(hubManager, logger)
	}
	return &SessionHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
	}
}

// getBroadcaster returns the broadcaster if available
func (h *SessionHandler) getBroadcaster() *sse.Broadcaster {
	return h.broadcaster
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.controller.StartGame(r.Context(), game.StartGameRequest{
		Mode:        model.Mode(req.Mode),
		Difficulty:  model.Difficulty(req.Difficulty),
		PlayerNames: req.Players,
		Rules:       rulesFromRequest(req.Rules),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// rulesFromRequest converts an optional rule override payload
func rulesFromRequest(r *request.Rules) *model.Rules {
	if r == nil {
		return nil
	}
	return &model.Rules{
		WinningScore: r.WinningScore,
		BustFace:     r.BustFace,
		CheatBonus:   r.CheatBonus,
		DiceCount:    r.DiceCount,
		DiceSides:    r.DiceSides,
	}
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Act handles POST /api/v1/sessions/{id}/actions
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	action, err := model.ParseAction(req.Action)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.controller.SubmitAction(r.Context(), id, action)
	if err != nil {
		// A failed score write still finished the game; the record
		// endpoint exists for the retry
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastTurnResult(result)
	}

	response.JSON(w, http.StatusOK, response.TurnResultFromModel(result))
}

// Restart handles POST /api/v1/sessions/{id}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.controller.Restart(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastSessionState(session)
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Record handles POST /api/v1/sessions/{id}/record
// It retries the score commit for a finished game whose earlier write
// failed.
func (h *SessionHandler) Record(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.controller.RecordResult(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// RenameSeat handles PATCH /api/v1/sessions/{id}/players
func (h *SessionHandler) RenameSeat(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.RenameSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.controller.RenamePlayer(r.Context(), id, req.OldName, req.NewName)
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastSessionState(session)
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// SetDifficulty handles PATCH /api/v1/sessions/{id}/difficulty
func (h *SessionHandler) SetDifficulty(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.SetDifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.controller.SetDifficulty(r.Context(), id, model.Difficulty(req.Difficulty))
	if err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastSessionState(session)
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Abandon handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.controller.Abandon(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	if b := h.getBroadcaster(); b != nil {
		b.BroadcastSessionAbandoned(id)
	}
	if h.hubManager != nil {
		h.hubManager.RemoveHub(id)
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{id}/events
// It streams turn results and session updates over SSE.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	if _, err := h.controller.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	if h.hubManager == nil {
		WriteError(w, NewInternalError())
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub)
}
