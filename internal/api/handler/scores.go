package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pigdice-go/internal/api/request"
	"github.com/mcoot/pigdice-go/internal/api/response"
	"github.com/mcoot/pigdice-go/internal/services/score"
)

// ScoresHandler handles persistent score endpoints
type ScoresHandler struct {
	scoreService *score.Service
}

// NewScoresHandler creates a new scores handler
func NewScoresHandler(scoreService *score.Service) *ScoresHandler {
	return &ScoresHandler{scoreService: scoreService}
}

// Leaderboard handles GET /api/v1/scores
func (h *ScoresHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scoreService.Leaderboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}

// Clear handles DELETE /api/v1/scores
func (h *ScoresHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.scoreService.ClearScores(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// History handles GET /api/v1/scores/players/{name}
func (h *ScoresHandler) History(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	playerScore, err := h.scoreService.PlayerHistory(r.Context(), name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerScoreFromModel(name, playerScore))
}

// Rename handles PATCH /api/v1/scores/players/{name}
// The player's whole game history moves to the new name, merging with
// any history already recorded under it.
func (h *ScoresHandler) Rename(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req request.RenamePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.scoreService.RenamePlayer(r.Context(), name, req.NewName); err != nil {
		WriteError(w, err)
		return
	}

	playerScore, err := h.scoreService.PlayerHistory(r.Context(), req.NewName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerScoreFromModel(req.NewName, playerScore))
}
