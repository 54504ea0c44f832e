package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/pigdice-go/internal/dependencies/clock"
	"github.com/mcoot/pigdice-go/internal/dependencies/ident"
	"github.com/mcoot/pigdice-go/internal/dependencies/random"
	"github.com/mcoot/pigdice-go/internal/dice"
	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/services/bot"
	"github.com/mcoot/pigdice-go/internal/services/score"
	"github.com/mcoot/pigdice-go/internal/storage"
)

const (
	// ComputerName is the display name of the computer seat
	ComputerName = "Computer"
	// MaxComputerRolls is a safety limit for the computer reply loop
	MaxComputerRolls = 1000
)

// Controller manages the session state machine and turn flow
type Controller struct {
	storage      storage.Storage
	botService   *bot.Service
	scoreService *score.Service
	clock        clock.Clock
	random       random.Random
	ident        ident.Generator
	rules        model.Rules
	logger       *slog.Logger
}

// NewController creates a new game Controller. The given rules are the
// defaults for new sessions; a session may override them at creation,
// except for the cheat gate, which is fixed per process.
func NewController(
	store storage.Storage,
	botService *bot.Service,
	scoreService *score.Service,
	clk clock.Clock,
	rnd random.Random,
	idGen ident.Generator,
	rules model.Rules,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      store,
		botService:   botService,
		scoreService: scoreService,
		clock:        clk,
		random:       rnd,
		ident:        idGen,
		rules:        rules,
		logger:       logger,
	}
}

// StartGameRequest describes the session to create
type StartGameRequest struct {
	Mode model.Mode
	// Difficulty is required for vs_computer sessions and must be absent
	// for two-player ones
	Difficulty model.Difficulty
	// PlayerNames holds one name for vs_computer, two for two_player
	PlayerNames []string
	// Rules optionally overrides the default rule set for this session.
	// Zero-valued fields inherit the controller's defaults.
	Rules *model.Rules
}

// StartGame validates the request and creates a new session with the
// first seat on turn
func (c *Controller) StartGame(ctx context.Context, req StartGameRequest) (*model.Session, error) {
	rules := c.rules
	if req.Rules != nil {
		rules = mergeRules(c.rules, *req.Rules)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	players, err := buildSeats(req)
	if err != nil {
		return nil, err
	}

	switch req.Mode {
	case model.ModeVsComputer:
		if req.Difficulty == "" {
			return nil, fmt.Errorf("%w: difficulty is required for %s sessions", model.ErrConfiguration, model.ModeVsComputer)
		}
		if _, err := model.ParseDifficulty(string(req.Difficulty)); err != nil {
			return nil, err
		}
	case model.ModeTwoPlayer:
		if req.Difficulty != "" {
			return nil, fmt.Errorf("%w: difficulty only applies to %s sessions", model.ErrConfiguration, model.ModeVsComputer)
		}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMode, req.Mode)
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:         model.SessionID(c.ident.NewID()),
		Mode:       req.Mode,
		Difficulty: req.Difficulty,
		Rules:      rules,
		State:      model.SessionStateAwaitingRoll,
		Players:    players,
		Active:     0,
		Winner:     -1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session started",
		slog.String("session_id", string(session.ID)),
		slog.String("mode", string(session.Mode)),
		slog.String("difficulty", string(session.Difficulty)),
		slog.String("first_player", session.Players[0].Name),
	)

	return session, nil
}

// mergeRules overlays the set fields of an override onto the defaults.
// The cheat gate is process configuration, not a per-session choice.
func mergeRules(defaults, override model.Rules) model.Rules {
	merged := defaults
	if override.WinningScore != 0 {
		merged.WinningScore = override.WinningScore
	}
	if override.BustFace != 0 {
		merged.BustFace = override.BustFace
	}
	if override.CheatBonus != 0 {
		merged.CheatBonus = override.CheatBonus
	}
	if override.DiceCount != 0 {
		merged.DiceCount = override.DiceCount
	}
	if override.DiceSides != 0 {
		merged.DiceSides = override.DiceSides
	}
	return merged
}

// buildSeats validates player names and lays out the two seats. The
// human always takes the first seat of a vs_computer session.
func buildSeats(req StartGameRequest) ([]model.SessionPlayer, error) {
	names := make([]string, 0, len(req.PlayerNames))
	for _, name := range req.PlayerNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, model.ErrEmptyPlayerName
		}
		names = append(names, name)
	}

	switch req.Mode {
	case model.ModeVsComputer:
		if len(names) != 1 {
			return nil, fmt.Errorf("%w: %s sessions take exactly one player name, got %d", model.ErrConfiguration, model.ModeVsComputer, len(names))
		}
		if names[0] == ComputerName {
			return nil, fmt.Errorf("%w: %q", model.ErrNameTaken, ComputerName)
		}
		return []model.SessionPlayer{
			{Name: names[0]},
			{Name: ComputerName, IsComputer: true},
		}, nil
	case model.ModeTwoPlayer:
		if len(names) != 2 {
			return nil, fmt.Errorf("%w: %s sessions take exactly two player names, got %d", model.ErrConfiguration, model.ModeTwoPlayer, len(names))
		}
		if names[0] == names[1] {
			return nil, fmt.Errorf("%w: %q", model.ErrNameTaken, names[0])
		}
		return []model.SessionPlayer{
			{Name: names[0]},
			{Name: names[1]},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownMode, req.Mode)
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// SubmitAction applies one action for the active player and, in a
// vs_computer session, auto-plays the computer's reply turn. The
// returned TurnResult lists every event in order.
//
// When the game ends, the winner's score is committed before returning.
// If that commit fails the result is still returned alongside the
// error; the session is saved unrecorded so RecordResult can retry.
func (c *Controller) SubmitAction(ctx context.Context, id model.SessionID, action model.Action) (*model.TurnResult, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	switch session.State {
	case model.SessionStateGameOver:
		return nil, model.ErrGameOver
	case model.SessionStateAbandoned:
		return nil, model.ErrSessionAbandoned
	}

	result := &model.TurnResult{SessionID: session.ID}

	if action == model.ActionQuit {
		player := session.ActivePlayer()
		session.State = model.SessionStateAbandoned
		result.Events = append(result.Events, model.TurnEvent{
			Player:      player.Name,
			IsComputer:  player.IsComputer,
			Action:      model.ActionQuit,
			TurnPoints:  session.TurnPoints,
			BankedScore: player.Score,
			Outcome:     model.OutcomeAbandoned,
		})

		session.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveSession(ctx, session); err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
		c.logger.Info("session abandoned", slog.String("session_id", string(session.ID)))

		c.fillResult(result, session)
		return result, nil
	}

	switch action {
	case model.ActionRoll, model.ActionHold:
	case model.ActionCheat:
		if !session.Rules.CheatEnabled {
			return nil, model.ErrCheatDisabled
		}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownAction, action)
	}

	hand, err := dice.NewHand(dice.FromRules(session.Rules), c.random)
	if err != nil {
		return nil, err
	}

	if err := c.apply(session, hand, action, result); err != nil {
		return nil, err
	}

	// Auto-play the computer's reply until the turn comes back to the
	// human or the game ends
	for i := 0; !session.Over() && session.ActivePlayer().IsComputer; i++ {
		if i >= MaxComputerRolls {
			c.logger.Warn("computer turn exceeded roll limit",
				slog.String("session_id", string(session.ID)))
			break
		}

		decision, err := c.botService.Decide(session.Difficulty, bot.TurnView{
			TurnPoints:    session.TurnPoints,
			BankedScore:   session.ActivePlayer().Score,
			OpponentScore: session.Opponent().Score,
			WinningScore:  session.Rules.WinningScore,
		})
		if err != nil {
			return nil, err
		}
		if err := c.apply(session, hand, decision, result); err != nil {
			return nil, err
		}
	}

	var recordErr error
	if session.State == model.SessionStateGameOver && !session.ScoreRecorded {
		recordErr = c.recordWin(ctx, session)
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	c.fillResult(result, session)
	if recordErr != nil {
		return result, recordErr
	}
	return result, nil
}

// apply mutates the session for one action by one player and appends
// the resulting event
func (c *Controller) apply(session *model.Session, hand *dice.Hand, action model.Action, result *model.TurnResult) error {
	player := session.ActivePlayer()
	event := model.TurnEvent{
		Player:     player.Name,
		IsComputer: player.IsComputer,
		Action:     action,
	}

	switch action {
	case model.ActionRoll:
		roll := hand.RollTurn()
		event.Roll = &roll
		if roll.Busted {
			session.TurnPoints = 0
			event.Outcome = model.OutcomeBusted
			c.passTurn(session)
		} else {
			session.TurnPoints += roll.Total
			session.State = model.SessionStateRolled
			event.Outcome = model.OutcomeRolled
		}

	case model.ActionHold:
		player.Score += session.TurnPoints
		session.TurnPoints = 0
		if player.Score >= session.Rules.WinningScore {
			event.Outcome = model.OutcomeWon
			c.declareWinner(session)
		} else {
			event.Outcome = model.OutcomeHeld
			c.passTurn(session)
		}

	case model.ActionCheat:
		// The bonus banks immediately; unbanked turn points are forfeited
		player.Score += session.Rules.CheatBonus
		session.TurnPoints = 0
		if player.Score >= session.Rules.WinningScore {
			event.Outcome = model.OutcomeWon
			c.declareWinner(session)
		} else {
			event.Outcome = model.OutcomeCheated
			c.passTurn(session)
		}

	default:
		return fmt.Errorf("%w: %q", model.ErrUnknownAction, action)
	}

	event.TurnPoints = session.TurnPoints
	event.BankedScore = player.Score
	result.Events = append(result.Events, event)
	return nil
}

// passTurn hands control to the other seat at the start of a fresh turn
func (c *Controller) passTurn(session *model.Session) {
	session.Active = 1 - session.Active
	session.State = model.SessionStateAwaitingRoll
}

// declareWinner ends the game with the active seat as winner
func (c *Controller) declareWinner(session *model.Session) {
	session.State = model.SessionStateGameOver
	session.Winner = session.Active
	c.logger.Info("game won",
		slog.String("session_id", string(session.ID)),
		slog.String("winner", session.ActivePlayer().Name),
		slog.Int("score", session.ActivePlayer().Score),
	)
}

// recordWin commits the winner's final score to the score store
func (c *Controller) recordWin(ctx context.Context, session *model.Session) error {
	winner := session.WinningPlayer()
	if _, err := c.scoreService.RecordGame(ctx, winner.Name, winner.Score); err != nil {
		c.logger.Error("failed to record game result",
			slog.String("session_id", string(session.ID)),
			slog.String("winner", winner.Name),
			slog.String("error", err.Error()),
		)
		return err
	}
	session.ScoreRecorded = true
	return nil
}

// fillResult snapshots the post-action session into the result
func (c *Controller) fillResult(result *model.TurnResult, session *model.Session) {
	result.State = session.State
	result.ActivePlayer = session.ActivePlayer().Name
	if winner := session.WinningPlayer(); winner != nil {
		result.Winner = winner.Name
	}
}

// Restart resets a session for a rematch: scores and turn points wiped,
// first seat on turn, same players and rules
func (c *Controller) Restart(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == model.SessionStateAbandoned {
		return nil, model.ErrSessionAbandoned
	}

	for i := range session.Players {
		session.Players[i].Score = 0
	}
	session.State = model.SessionStateAwaitingRoll
	session.Active = 0
	session.TurnPoints = 0
	session.Winner = -1
	session.ScoreRecorded = false
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("session restarted", slog.String("session_id", string(session.ID)))
	return session, nil
}

// RenamePlayer changes a seat's name mid-session and carries the score
// history over to the new name. A missing history is fine: the seat is
// renamed and future games record under the new name.
func (c *Controller) RenamePlayer(ctx context.Context, id model.SessionID, oldName, newName string) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == model.SessionStateAbandoned {
		return nil, model.ErrSessionAbandoned
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, model.ErrEmptyPlayerName
	}

	idx := session.PlayerIndex(oldName)
	if idx < 0 {
		return nil, model.ErrPlayerNotFound
	}
	if newName == oldName {
		return session, nil
	}
	if session.PlayerIndex(newName) >= 0 {
		return nil, fmt.Errorf("%w: %q", model.ErrNameTaken, newName)
	}

	if err := c.scoreService.RenamePlayer(ctx, oldName, newName); err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	session.Players[idx].Name = newName
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("player renamed",
		slog.String("session_id", string(session.ID)),
		slog.String("old_name", oldName),
		slog.String("new_name", newName),
	)
	return session, nil
}

// SetDifficulty changes the computer opponent's policy mid-session
func (c *Controller) SetDifficulty(ctx context.Context, id model.SessionID, difficulty model.Difficulty) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == model.SessionStateAbandoned {
		return nil, model.ErrSessionAbandoned
	}
	if session.Mode != model.ModeVsComputer {
		return nil, model.ErrNoComputerSeat
	}

	parsed, err := model.ParseDifficulty(string(difficulty))
	if err != nil {
		return nil, err
	}

	session.Difficulty = parsed
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("difficulty changed",
		slog.String("session_id", string(session.ID)),
		slog.String("difficulty", string(parsed)),
	)
	return session, nil
}

// Abandon ends an active session without a winner. A session that is
// already finished is purged from storage instead.
func (c *Controller) Abandon(ctx context.Context, id model.SessionID) error {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}

	if session.Over() {
		if err := c.storage.DeleteSession(ctx, id); err != nil {
			return err
		}
		c.logger.Info("session purged", slog.String("session_id", string(id)))
		return nil
	}

	session.State = model.SessionStateAbandoned
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	c.logger.Info("session abandoned", slog.String("session_id", string(id)))
	return nil
}

// RecordResult retries committing the winner's score after an earlier
// persistence failure
func (c *Controller) RecordResult(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != model.SessionStateGameOver || session.ScoreRecorded {
		return nil, model.ErrNothingToRecord
	}

	if err := c.recordWin(ctx, session); err != nil {
		return nil, err
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	StartGame(ctx context.Context, req StartGameRequest) (*model.Session, error)
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	SubmitAction(ctx context.Context, id model.SessionID, action model.Action) (*model.TurnResult, error)
	Restart(ctx context.Context, id model.SessionID) (*model.Session, error)
	RenamePlayer(ctx context.Context, id model.SessionID, oldName, newName string) (*model.Session, error)
	SetDifficulty(ctx context.Context, id model.SessionID, difficulty model.Difficulty) (*model.Session, error)
	Abandon(ctx context.Context, id model.SessionID) error
	RecordResult(ctx context.Context, id model.SessionID) (*model.Session, error)
}

var _ ControllerInterface = (*Controller)(nil)
