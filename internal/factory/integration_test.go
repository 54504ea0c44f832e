package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/services/game"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) act(id model.SessionID, action model.Action) *model.TurnResult {
	result, err := s.app.GameController.SubmitAction(s.ctx, id, action)
	s.Require().NoError(err)
	return result
}

// Test: Complete game against the computer, from session creation to
// the recorded result
func (s *IntegrationSuite) TestCompleteGameVsComputer() {
	// Step 1: Create a medium-difficulty session
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeVsComputer,
		Difficulty:  model.DifficultyMedium,
		PlayerNames: []string{"Alice"},
	})
	s.Require().NoError(err)
	s.Equal(model.SessionStateAwaitingRoll, session.State)
	s.Equal("Alice", session.ActivePlayer().Name)

	// Step 2: Script the dice. Medium holds at 20 turn points, so the
	// computer's turns are fully determined by the queued faces:
	//   Alice 6,6,6,6=24      | Computer 5,5,5,5=20, holds
	//   Alice 6,6,6,6=24 (48) | Computer 2 then 1, busts
	//   Alice 6,6,6,6=24 (72) | Computer 5,5,5,5=20 (40)
	//   Alice 6,6,6,5=23 (95) | Computer 5,5,5,5=20 (60)
	//   Alice 6, holds at 101 and wins
	s.app.MockRandom.QueueRolls(
		6, 6, 6, 6, 5, 5, 5, 5,
		6, 6, 6, 6, 2, 1,
		6, 6, 6, 6, 5, 5, 5, 5,
		6, 6, 6, 5, 5, 5, 5, 5,
		6,
	)

	// Step 3: First exchange; the hold result carries the computer's
	// full reply turn
	for i := 0; i < 4; i++ {
		s.act(session.ID, model.ActionRoll)
	}
	result := s.act(session.ID, model.ActionHold)
	s.Require().Len(result.Events, 6) // Alice's hold + 4 computer rolls + computer hold
	s.Equal(model.OutcomeHeld, result.Events[0].Outcome)
	s.Equal(model.OutcomeHeld, result.Events[5].Outcome)
	s.True(result.Events[5].IsComputer)

	updated, err := s.app.GameController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(24, updated.Players[0].Score)
	s.Equal(20, updated.Players[1].Score)

	// Step 4: Second exchange; the computer busts this time
	for i := 0; i < 4; i++ {
		s.act(session.ID, model.ActionRoll)
	}
	result = s.act(session.ID, model.ActionHold)
	last := result.Events[len(result.Events)-1]
	s.Equal(model.OutcomeBusted, last.Outcome)
	s.True(last.IsComputer)

	// Step 5: Play out the remaining turns
	for i := 0; i < 4; i++ {
		s.act(session.ID, model.ActionRoll)
	}
	s.act(session.ID, model.ActionHold)
	for i := 0; i < 4; i++ {
		s.act(session.ID, model.ActionRoll)
	}
	s.act(session.ID, model.ActionHold)

	updated, err = s.app.GameController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(95, updated.Players[0].Score)
	s.Equal(60, updated.Players[1].Score)

	// Step 6: Final roll and the winning hold
	s.act(session.ID, model.ActionRoll)
	result = s.act(session.ID, model.ActionHold)
	s.Equal(model.SessionStateGameOver, result.State)
	s.Equal("Alice", result.Winner)

	finished, err := s.app.GameController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(101, finished.Players[0].Score)
	s.True(finished.ScoreRecorded)

	// Step 7: The win is on the leaderboard
	board, err := s.app.ScoreService.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("Alice", board[0].Name)
	s.Equal(101, board[0].TotalPoints)
	s.Equal(1, board[0].GamesPlayed)
}

// Test: Two-player game with a rules override, alternating turns to a win
func (s *IntegrationSuite) TestTwoPlayerGameWithRulesOverride() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeTwoPlayer,
		PlayerNames: []string{"Ada", "Grace"},
		Rules:       &model.Rules{WinningScore: 30},
	})
	s.Require().NoError(err)
	s.Equal(30, session.Rules.WinningScore)

	// Ada banks 18, Grace busts, Ada banks 12 more for the win
	s.app.MockRandom.QueueRolls(6, 6, 6, 4, 1, 6, 6)

	for i := 0; i < 3; i++ {
		s.act(session.ID, model.ActionRoll)
	}
	result := s.act(session.ID, model.ActionHold)
	s.Equal("Grace", result.ActivePlayer)

	result = s.act(session.ID, model.ActionRoll) // Grace rolls 4
	s.Equal(model.OutcomeRolled, result.Events[0].Outcome)
	result = s.act(session.ID, model.ActionRoll) // Grace rolls 1
	s.Equal(model.OutcomeBusted, result.Events[0].Outcome)
	s.Equal("Ada", result.ActivePlayer)

	s.act(session.ID, model.ActionRoll)
	s.act(session.ID, model.ActionRoll)
	result = s.act(session.ID, model.ActionHold)
	s.Equal("Ada", result.Winner)

	finished, err := s.app.GameController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, finished.Players[0].Score)
	s.Equal(0, finished.Players[1].Score)

	board, err := s.app.ScoreService.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("Ada", board[0].Name)
	s.Equal(30, board[0].TotalPoints)
}

// Test: Renaming a player mid-game merges their recorded history under
// the new name
func (s *IntegrationSuite) TestRenameMidGameCarriesHistory() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeVsComputer,
		Difficulty:  model.DifficultyEasy,
		PlayerNames: []string{"Casey"},
		Rules:       &model.Rules{WinningScore: 10},
	})
	s.Require().NoError(err)

	// Game 1: Casey wins before the computer ever moves
	s.app.MockRandom.QueueRolls(6, 6)
	s.act(session.ID, model.ActionRoll)
	s.act(session.ID, model.ActionRoll)
	result := s.act(session.ID, model.ActionHold)
	s.Equal("Casey", result.Winner)

	// Rematch, renaming halfway through a turn
	_, err = s.app.GameController.Restart(s.ctx, session.ID)
	s.Require().NoError(err)

	s.app.MockRandom.QueueRolls(6, 6)
	s.act(session.ID, model.ActionRoll)

	renamed, err := s.app.GameController.RenamePlayer(s.ctx, session.ID, "Casey", "Kai")
	s.Require().NoError(err)
	s.Equal("Kai", renamed.Players[0].Name)
	s.Equal(6, renamed.TurnPoints) // rename does not disturb the turn

	s.act(session.ID, model.ActionRoll)
	result = s.act(session.ID, model.ActionHold)
	s.Equal("Kai", result.Winner)

	// Both games now live under the new name
	board, err := s.app.ScoreService.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal("Kai", board[0].Name)
	s.Equal(24, board[0].TotalPoints)
	s.Equal(2, board[0].GamesPlayed)

	history, err := s.app.ScoreService.PlayerHistory(s.ctx, "Kai")
	s.Require().NoError(err)
	s.Len(history.Games, 2)
	s.Equal(model.Date("2024-01-01"), history.Games[0].Date)
}

// Test: Restart gives a rematch with wiped scores while recorded
// results survive
func (s *IntegrationSuite) TestRestartRematch() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeTwoPlayer,
		PlayerNames: []string{"Ada", "Grace"},
		Rules:       &model.Rules{WinningScore: 10},
	})
	s.Require().NoError(err)

	s.app.MockRandom.QueueRolls(6, 6)
	s.act(session.ID, model.ActionRoll)
	s.act(session.ID, model.ActionRoll)
	result := s.act(session.ID, model.ActionHold)
	s.Equal("Ada", result.Winner)

	restarted, err := s.app.GameController.Restart(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateAwaitingRoll, restarted.State)
	s.Equal(0, restarted.Players[0].Score)
	s.Equal(0, restarted.Players[1].Score)
	s.Equal("Ada", restarted.ActivePlayer().Name)
	s.False(restarted.ScoreRecorded)

	// Grace takes the rematch
	s.app.MockRandom.QueueRolls(1, 6, 6)
	s.act(session.ID, model.ActionRoll) // Ada busts
	s.act(session.ID, model.ActionRoll)
	s.act(session.ID, model.ActionRoll)
	result = s.act(session.ID, model.ActionHold)
	s.Equal("Grace", result.Winner)

	board, err := s.app.ScoreService.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Len(board, 2)
}

// Test: The cheat action is gated by factory configuration
func (s *IntegrationSuite) TestCheatRequiresOptIn() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeVsComputer,
		Difficulty:  model.DifficultyMedium,
		PlayerNames: []string{"Alice"},
	})
	s.Require().NoError(err)

	_, err = s.app.GameController.SubmitAction(s.ctx, session.ID, model.ActionCheat)
	s.ErrorIs(err, model.ErrCheatDisabled)

	// With the gate open, two cheats reach 100. The unqueued computer
	// roll between them comes up 1, an immediate bust.
	rules := model.DefaultRules()
	rules.CheatEnabled = true
	cheatApp := NewTestAppWithRules(rules)

	session, err = cheatApp.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeVsComputer,
		Difficulty:  model.DifficultyMedium,
		PlayerNames: []string{"Alice"},
	})
	s.Require().NoError(err)

	result, err := cheatApp.GameController.SubmitAction(s.ctx, session.ID, model.ActionCheat)
	s.Require().NoError(err)
	s.Equal(model.OutcomeCheated, result.Events[0].Outcome)
	s.Equal(50, result.Events[0].BankedScore)

	result, err = cheatApp.GameController.SubmitAction(s.ctx, session.ID, model.ActionCheat)
	s.Require().NoError(err)
	s.Equal("Alice", result.Winner)

	board, err := cheatApp.ScoreService.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(board, 1)
	s.Equal(100, board[0].TotalPoints)
}

// Test: Quitting abandons the session; deleting a finished one purges it
func (s *IntegrationSuite) TestAbandonAndPurge() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeTwoPlayer,
		PlayerNames: []string{"Ada", "Grace"},
	})
	s.Require().NoError(err)

	result := s.act(session.ID, model.ActionQuit)
	s.Equal(model.SessionStateAbandoned, result.State)

	_, err = s.app.GameController.SubmitAction(s.ctx, session.ID, model.ActionRoll)
	s.ErrorIs(err, model.ErrSessionAbandoned)

	// Abandoned sessions stay readable until deleted
	abandoned, err := s.app.GameController.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateAbandoned, abandoned.State)

	err = s.app.GameController.Abandon(s.ctx, session.ID)
	s.Require().NoError(err)

	_, err = s.app.GameController.GetSession(s.ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Test: Difficulty can change mid-session, but only with a computer seat
func (s *IntegrationSuite) TestSetDifficultyMidSession() {
	session, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeVsComputer,
		Difficulty:  model.DifficultyEasy,
		PlayerNames: []string{"Alice"},
	})
	s.Require().NoError(err)

	updated, err := s.app.GameController.SetDifficulty(s.ctx, session.ID, model.DifficultyAdaptive)
	s.Require().NoError(err)
	s.Equal(model.DifficultyAdaptive, updated.Difficulty)

	twoPlayer, err := s.app.GameController.StartGame(s.ctx, game.StartGameRequest{
		Mode:        model.ModeTwoPlayer,
		PlayerNames: []string{"Ada", "Grace"},
	})
	s.Require().NoError(err)

	_, err = s.app.GameController.SetDifficulty(s.ctx, twoPlayer.ID, model.DifficultyHard)
	s.ErrorIs(err, model.ErrNoComputerSeat)
}

// Test: factory.New validates its storage configuration
func (s *IntegrationSuite) TestNewRejectsBadStorageConfig() {
	_, err := New(Config{StorageType: "carrier-pigeon"})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeSQLite})
	s.Error(err)
}
