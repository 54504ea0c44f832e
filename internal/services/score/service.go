package score

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcoot/pigdice-go/internal/dependencies/clock"
	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/storage"
)

// Service manages the durable score history: recording finished games,
// ranking players and folding histories together on rename.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewService creates a new score Service
func NewService(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "score-service")),
	}
}

// RecordGame appends a completed game to the player's history and
// persists the updated entry. On a persistence failure the stored
// history is unchanged and the call can simply be retried.
func (s *Service) RecordGame(ctx context.Context, name string, points int) (model.GameRecord, error) {
	if strings.TrimSpace(name) == "" {
		return model.GameRecord{}, model.ErrEmptyPlayerName
	}
	if points < 0 {
		return model.GameRecord{}, fmt.Errorf("%w: points must not be negative, got %d", model.ErrConfiguration, points)
	}

	entry, err := s.storage.GetPlayerScore(ctx, name)
	if errors.Is(err, model.ErrPlayerNotFound) {
		entry = model.NewPlayerScore()
	} else if err != nil {
		return model.GameRecord{}, fmt.Errorf("reading score for %q: %w", name, err)
	}

	record := model.GameRecord{Date: model.DateOf(s.clock.Now()), Points: points}
	entry.Games = append(entry.Games, record)
	entry.TotalPoints += points

	if err := s.storage.UpdatePlayerScores(ctx, map[string]*model.PlayerScore{name: entry}, nil); err != nil {
		return model.GameRecord{}, fmt.Errorf("recording game for %q: %w", name, err)
	}

	s.logger.Info("game recorded",
		slog.String("player", name),
		slog.Int("points", points),
		slog.String("date", string(record.Date)),
	)
	return record, nil
}

// RenamePlayer moves oldName's history to newName. When newName already
// has a history the two are merged: games interleaved in date order,
// totals summed. Renaming a player to themselves is a no-op; renaming a
// player with no history is an error and changes nothing.
func (s *Service) RenamePlayer(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return model.ErrEmptyPlayerName
	}

	src, err := s.storage.GetPlayerScore(ctx, oldName)
	if err != nil {
		return err
	}

	if oldName == newName {
		return nil
	}

	merged := src
	dst, err := s.storage.GetPlayerScore(ctx, newName)
	switch {
	case err == nil:
		merged = model.MergePlayerScores(dst, src)
	case !errors.Is(err, model.ErrPlayerNotFound):
		return err
	}

	if err := s.storage.UpdatePlayerScores(ctx,
		map[string]*model.PlayerScore{newName: merged},
		[]string{oldName},
	); err != nil {
		return fmt.Errorf("renaming %q to %q: %w", oldName, newName, err)
	}

	s.logger.Info("player renamed",
		slog.String("old_name", oldName),
		slog.String("new_name", newName),
		slog.Int("merged_games", len(merged.Games)),
	)
	return nil
}

// Leaderboard ranks players by total points descending, ties broken by
// name ascending.
func (s *Service) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	scores, err := s.storage.ListPlayerScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(scores))
	for name, entry := range scores {
		entries = append(entries, model.LeaderboardEntry{
			Name:        name,
			TotalPoints: entry.TotalPoints,
			GamesPlayed: len(entry.Games),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// PlayerHistory returns a player's full game history
func (s *Service) PlayerHistory(ctx context.Context, name string) (*model.PlayerScore, error) {
	return s.storage.GetPlayerScore(ctx, name)
}

// ClearScores removes every player's history
func (s *Service) ClearScores(ctx context.Context) error {
	scores, err := s.storage.ListPlayerScores(ctx)
	if err != nil {
		return fmt.Errorf("listing scores: %w", err)
	}
	if len(scores) == 0 {
		return nil
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	if err := s.storage.UpdatePlayerScores(ctx, nil, names); err != nil {
		return fmt.Errorf("clearing scores: %w", err)
	}

	s.logger.Info("all scores cleared", slog.Int("players", len(names)))
	return nil
}
