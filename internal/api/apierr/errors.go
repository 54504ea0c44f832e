package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pigdice-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeEmptyPlayerName      = "EMPTY_PLAYER_NAME"
	CodeUnknownMode          = "UNKNOWN_MODE"
	CodeUnknownDifficulty    = "UNKNOWN_DIFFICULTY"
	CodeUnknownAction        = "UNKNOWN_ACTION"
	CodeNameTaken            = "NAME_TAKEN"
	CodeCheatDisabled        = "CHEAT_DISABLED"
	CodeNoComputerSeat       = "NO_COMPUTER_SEAT"
	CodeGameOver             = "GAME_OVER"
	CodeSessionAbandoned     = "SESSION_ABANDONED"
	CodeNothingToRecord      = "NOTHING_TO_RECORD"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodePersistenceFailure   = "PERSISTENCE_FAILURE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError. Specific sentinels are
// matched before the error classes they wrap.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is already over"}}
	case errors.Is(err, model.ErrSessionAbandoned):
		return &httpError{http.StatusConflict, APIError{CodeSessionAbandoned, "Session has been abandoned"}}
	case errors.Is(err, model.ErrNothingToRecord):
		return &httpError{http.StatusConflict, APIError{CodeNothingToRecord, "No unrecorded result to commit"}}
	case errors.Is(err, model.ErrCheatDisabled):
		return &httpError{http.StatusForbidden, APIError{CodeCheatDisabled, "Cheat commands are disabled"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Player name is already taken"}}
	case errors.Is(err, model.ErrNoComputerSeat):
		return &httpError{http.StatusConflict, APIError{CodeNoComputerSeat, "Session has no computer seat"}}
	case errors.Is(err, model.ErrEmptyPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyPlayerName, "Player name must not be empty"}}
	case errors.Is(err, model.ErrUnknownMode):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownMode, "Unknown game mode"}}
	case errors.Is(err, model.ErrUnknownDifficulty):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownDifficulty, "Unknown difficulty"}}
	case errors.Is(err, model.ErrUnknownAction):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownAction, "Unknown action"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	// Error classes
	case errors.Is(err, model.ErrInvalidTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Action not valid in the current state"}}
	case errors.Is(err, model.ErrConfiguration):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfiguration, "Invalid configuration"}}
	case errors.Is(err, model.ErrPersistence):
		return &httpError{http.StatusInternalServerError, APIError{CodePersistenceFailure, "Failed to persist scores"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
