package model

import (
	"fmt"
	"strings"
	"time"
)

// SessionID uniquely identifies a game session
type SessionID string

// Mode selects who occupies the second seat of a session
type Mode string

const (
	ModeTwoPlayer  Mode = "two_player"
	ModeVsComputer Mode = "vs_computer"
)

// ParseMode parses a mode string, case-insensitively
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeTwoPlayer:
		return ModeTwoPlayer, nil
	case ModeVsComputer:
		return ModeVsComputer, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// SessionState represents where a session is in its turn cycle
type SessionState string

const (
	// SessionStateAwaitingRoll is the start of a turn: no points are at
	// stake yet
	SessionStateAwaitingRoll SessionState = "awaiting_roll"
	// SessionStateRolled means the active player holds unbanked turn
	// points and may roll again, hold, or cheat
	SessionStateRolled SessionState = "rolled"
	// SessionStateGameOver is reached when a bank update puts a player at
	// or past the winning score
	SessionStateGameOver SessionState = "game_over"
	// SessionStateAbandoned is a session quit before completion; no score
	// record is ever written for it
	SessionStateAbandoned SessionState = "abandoned"
)

// Action is a command submitted on behalf of the active player
type Action string

const (
	ActionRoll  Action = "roll"
	ActionHold  Action = "hold"
	ActionCheat Action = "cheat"
	ActionQuit  Action = "quit"
)

// ParseAction parses an action string, case-insensitively
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case ActionRoll:
		return ActionRoll, nil
	case ActionHold:
		return ActionHold, nil
	case ActionCheat:
		return ActionCheat, nil
	case ActionQuit:
		return ActionQuit, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Outcome describes what a single applied action did
type Outcome string

const (
	OutcomeRolled    Outcome = "rolled"    // turn points grew, same player continues
	OutcomeBusted    Outcome = "busted"    // bust face came up, turn points lost
	OutcomeHeld      Outcome = "held"      // turn points banked, turn passed
	OutcomeCheated   Outcome = "cheated"   // cheat bonus banked, turn passed
	OutcomeWon       Outcome = "won"       // bank update reached the winning score
	OutcomeAbandoned Outcome = "abandoned" // session quit
)

// SessionPlayer is one of the two seats in a session
type SessionPlayer struct {
	Name       string
	Score      int // banked points
	IsComputer bool
}

// Session is a single game: two seats, the turn state between them, and
// the rule set the game was created with
type Session struct {
	ID         SessionID
	Mode       Mode
	Difficulty Difficulty // empty for two-player sessions
	Rules      Rules
	State      SessionState

	Players []SessionPlayer // exactly two seats
	Active  int             // index of the seat on turn

	// TurnPoints are accumulated and unbanked; lost on a bust
	TurnPoints int

	// Winner is the seat index of the winning player, -1 until game over
	Winner int

	// ScoreRecorded is set once the winner's game record has been
	// committed to the score store
	ScoreRecorded bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivePlayer returns the seat currently on turn
func (s *Session) ActivePlayer() *SessionPlayer {
	return &s.Players[s.Active]
}

// Opponent returns the seat not on turn
func (s *Session) Opponent() *SessionPlayer {
	return &s.Players[1-s.Active]
}

// WinningPlayer returns the winning seat, or nil if the game is not won
func (s *Session) WinningPlayer() *SessionPlayer {
	if s.Winner < 0 || s.Winner >= len(s.Players) {
		return nil
	}
	return &s.Players[s.Winner]
}

// PlayerIndex returns the seat index for a name, or -1 if no seat has it
func (s *Session) PlayerIndex(name string) int {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return i
		}
	}
	return -1
}

// Over reports whether the session has finished, by win or abandonment
func (s *Session) Over() bool {
	return s.State == SessionStateGameOver || s.State == SessionStateAbandoned
}

// Clone returns a deep copy, so callers can mutate freely without
// aliasing the stored session
func (s *Session) Clone() *Session {
	c := *s
	c.Players = append([]SessionPlayer(nil), s.Players...)
	return &c
}

// Roll is the outcome of rolling the full dice hand once
type Roll struct {
	Values []int
	Total  int
	Busted bool
}

// TurnEvent records one applied action and the active player's points
// after it
type TurnEvent struct {
	Player      string
	IsComputer  bool
	Action      Action
	Roll        *Roll // set for roll actions only
	TurnPoints  int
	BankedScore int
	Outcome     Outcome
}

// TurnResult is everything that happened in response to one submitted
// action, including any auto-played computer reply turn
type TurnResult struct {
	SessionID    SessionID
	Events       []TurnEvent
	State        SessionState
	ActivePlayer string
	Winner       string // empty until game over
}
