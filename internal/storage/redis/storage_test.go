package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pigdice-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
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
	s.Equal(session.Mode, retrieved.Mode)
	s.Equal(session.Players, retrieved.Players)
	s.Equal(-1, retrieved.Winner)
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

func (s *StorageSuite) TestSessionTTL() {
	_ = s.storage.SaveSession(s.ctx, s.newSession("session-1"))

	ttl := s.mini.TTL(sessionKey("session-1"))
	s.True(ttl > 0, "Session should have TTL")
}

// Score tests

func (s *StorageSuite) TestUpdateAndGetPlayerScore() {
	entry := &model.PlayerScore{
		Games:       []model.GameRecord{{Date: "2024-01-01", Points: 104}},
		TotalPoints: 104,
	}

	err := s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{"Alice": entry}, nil)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayerScore(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(104, retrieved.TotalPoints)
	s.Require().Len(retrieved.Games, 1)
	s.Equal(model.Date("2024-01-01"), retrieved.Games[0].Date)
}

func (s *StorageSuite) TestGetPlayerScoreNotFound() {
	_, err := s.storage.GetPlayerScore(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestScoreEntriesHaveNoTTL() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 100}}, TotalPoints: 100},
	}, nil)

	ttl := s.mini.TTL(playerScoreKey("Alice"))
	s.Equal(time.Duration(0), ttl, "Score entries should not expire")
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
	s.Equal(102, scores["Bob"].TotalPoints)
}

func (s *StorageSuite) TestListPlayerScoresEmpty() {
	scores, err := s.storage.ListPlayerScores(s.ctx)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *StorageSuite) TestUpdatePlayerScoresRemoves() {
	_ = s.storage.UpdatePlayerScores(s.ctx, map[string]*model.PlayerScore{
		"Alice": {Games: []model.GameRecord{{Date: "2024-01-01", Points: 100}}, TotalPoints: 100},
		"Bob":   {Games: []model.GameRecord{{Date: "2024-01-02", Points: 90}}, TotalPoints: 90},
	}, nil)

	// A rename moves Bob's entry to Robert in one transaction
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
