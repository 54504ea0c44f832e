package handler

import (
	"net/http"

	"github.com/mcoot/pigdice-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeEmptyPlayerName      = apierr.CodeEmptyPlayerName
	CodeUnknownMode          = apierr.CodeUnknownMode
	CodeUnknownDifficulty    = apierr.CodeUnknownDifficulty
	CodeUnknownAction        = apierr.CodeUnknownAction
	CodeNameTaken            = apierr.CodeNameTaken
	CodeCheatDisabled        = apierr.CodeCheatDisabled
	CodeNoComputerSeat       = apierr.CodeNoComputerSeat
	CodeGameOver             = apierr.CodeGameOver
	CodeSessionAbandoned     = apierr.CodeSessionAbandoned
	CodeNothingToRecord      = apierr.CodeNothingToRecord
	CodeSessionNotFound      = apierr.CodeSessionNotFound
	CodePlayerNotFound       = apierr.CodePlayerNotFound
	CodeInvalidTransition    = apierr.CodeInvalidTransition
	CodeInvalidConfiguration = apierr.CodeInvalidConfiguration
	CodePersistenceFailure   = apierr.CodePersistenceFailure
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
