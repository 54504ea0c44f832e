package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application. The first three are error
// classes checked with errors.Is; more specific sentinels wrap the class
// they belong to, so both the class and the exact condition match.
var (
	// ErrInvalidTransition covers actions that are not legal in the
	// session's current state. Session state is unchanged when it is
	// returned.
	ErrInvalidTransition = errors.New("invalid action for current state")
	// ErrConfiguration covers unknown or out-of-range settings. These are
	// rejected up front, never silently defaulted.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrPersistence covers score-store write failures. The in-memory
	// result survives so the write can be retried.
	ErrPersistence = errors.New("score persistence failed")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrGameOver         = fmt.Errorf("%w: game is over", ErrInvalidTransition)
	ErrSessionAbandoned = fmt.Errorf("%w: session was abandoned", ErrInvalidTransition)
	ErrNothingToRecord  = fmt.Errorf("%w: no unrecorded result", ErrInvalidTransition)
	ErrCheatDisabled    = fmt.Errorf("%w: cheat mode is not enabled", ErrConfiguration)
	ErrNoComputerSeat   = fmt.Errorf("%w: session has no computer opponent", ErrConfiguration)

	// Creation / input errors
	ErrUnknownMode       = fmt.Errorf("%w: unknown game mode", ErrConfiguration)
	ErrUnknownDifficulty = fmt.Errorf("%w: unknown difficulty", ErrConfiguration)
	ErrUnknownAction     = fmt.Errorf("%w: unknown action", ErrConfiguration)
	ErrEmptyPlayerName   = fmt.Errorf("%w: player name must not be empty", ErrConfiguration)
	ErrNameTaken         = fmt.Errorf("%w: player name already in use", ErrConfiguration)

	// Score errors
	ErrPlayerNotFound = errors.New("player not found")
)
