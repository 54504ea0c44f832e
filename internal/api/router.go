package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pigdice-go/internal/api/handler"
	apimiddleware "github.com/mcoot/pigdice-go/internal/api/middleware"
	"github.com/mcoot/pigdice-go/internal/api/sse"
	"github.com/mcoot/pigdice-go/internal/middleware"
	"github.com/mcoot/pigdice-go/internal/services/game"
	"github.com/mcoot/pigdice-go/internal/services/score"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	ScoreService   *score.Service
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.GameController, cfg.HubManager, cfg.Logger)
	scoresHandler := handler.NewScoresHandler(cfg.ScoreService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Abandon).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/actions", sessionHandler.Act).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/restart", sessionHandler.Restart).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/record", sessionHandler.Record).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/players", sessionHandler.RenameSeat).Methods(http.MethodPatch)
	sessions.HandleFunc("/{id}/difficulty", sessionHandler.SetDifficulty).Methods(http.MethodPatch)
	sessions.HandleFunc("/{id}/events", sessionHandler.Events).Methods(http.MethodGet)

	// Score routes
	scores := api.PathPrefix("/scores").Subrouter()
	scores.HandleFunc("", scoresHandler.Leaderboard).Methods(http.MethodGet)
	scores.HandleFunc("", scoresHandler.Clear).Methods(http.MethodDelete)
	scores.HandleFunc("/players/{name}", scoresHandler.History).Methods(http.MethodGet)
	scores.HandleFunc("/players/{name}", scoresHandler.Rename).Methods(http.MethodPatch)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
