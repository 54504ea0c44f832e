package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pigdice-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "pigdice.db")
	storage, err := New(s.path)
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) newSession(id string) *model.Session {
	return &model.Session{
		ID:    model.SessionID(id),
		Mode:  model.ModeVsComputer,
		Rules: model.DefaultRules(),
		State: model.SessionStateAwaitingRoll,
		Players: []model.SessionPlayer{
			{Name: "Alice"},
			{Name: "Computer", IsComputer: true},
		},
		Winner:    -1,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := s.newSession("session-1")

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.Players, retrieved.Players)
	s.Equal(-1, retrieved.Winner)
}

func (s *StorageSuite) TestSaveSessionUpserts() {
	session := s.newSession("session-1")
	_ = s.storage.SaveSession(s.ctx, session)

	session.Players[0].Score = 42
	session.State = model.SessionStateRolled
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(42, retrieved.Players[0].Score)
	s.Equal(model.SessionStateRolled, retrieved.State)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, s.newSession("session-1"))

	err := s.storage.DeleteSession(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Score tests

func (s *StorageSuite) TestUpdateAndGetPlayerScore() {
	entry := &model.PlayerScore{
		Games: []model.GameRecord{
			{Date: "2024-01-01", Points: 104},
			{Date: "2024-01-03", Points: 87},
		},
		TotalPoints: 191,
	}

	err := s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{"Alice": entry}, nil)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayerScore(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(191, retrieved.TotalPoints)
	s.Equal(entry.Games, retrieved.Games)
}

func (s *StorageSuite) TestGetPlayerScoreNotFound() {
	_, err := s.storage.GetPlayerScore(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestHistoryOrderIsPreserved() {
	// Deliberately not in date order: storage must keep the caller's order
	entry := &model.PlayerScore{
		Games: []model.GameRecord{
			{Date: "2024-01-05", Points: 10},
			{Date: "2024-01-01", Points: 20},
			{Date: "2024-01-03", Points: 30},
		},
		TotalPoints: 60,
	}
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{"Alice": entry}, nil)

	retrieved, err := s.storage.GetPlayerScore(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(entry.Games, retrieved.Games)
}

func (s *StorageSuite) TestUpsertReplacesHistory() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 100}}, TotalPoints: 100},
	}, nil)

	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{
			{Date: "2024-01-01", Points: 100},
			{Date: "2024-01-02", Points: 50},
		}, TotalPoints: 150},
	}, nil)

	retrieved, err := s.storage.GetPlayerScore(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(150, retrieved.TotalPoints)
	s.Len(retrieved.Games, 2)
}

func (s *StorageSuite) TestListPlayerScores() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 100}}, TotalPoints: 100},
		"Bob":   {Games: []model.GameRecord{{Date: "2024-01-02", Points: 102}}, TotalPoints: 102},
	}, nil)

	scores, err := s.storage.ListPlayerScores(s.ctx)
	s.Require().NoError(err)
	s.Len(scores, 2)
	s.Equal(100, scores["Alice"].TotalPoints)
	s.Len(scores["Bob"].Games, 1)
}

func (s *StorageSuite) TestUpdatePlayerScoresRemoves() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 100}}, TotalPoints: 100},
		"Bob":   {Games: []model.GameRecord{{Date: "2024-01-02", Points: 90}}, TotalPoints: 90},
	}, nil)

	err := s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Robert": {Games: []model.GameRecord{{Date: "2024-01-02", Points: 90}}, TotalPoints: 90},
	}, []string{"Bob"})
	s.Require().NoError(err)

	_, err = s.storage.GetPlayerScore(s.ctx, "Bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	scores, err := s.storage.ListPlayerScores(s.ctx)
	s.Require().NoError(err)
	s.Len(scores, 2)
	s.Contains(scores, "Alice")
	s.Contains(scores, "Robert")
}

func (s *StorageSuite) TestScoresSurviveReopen() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 104}}, TotalPoints: 104},
	}, nil)
	s.Require().NoError(s.storage.Close())

	reopened, err := New(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	alice, err := reopened.GetPlayerScore(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(104, alice.TotalPoints)
}
