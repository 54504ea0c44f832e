package bot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/pigdice-go/internal/model"
)

// DefaultThresholds returns the stock hold threshold per difficulty.
func DefaultThresholds() map[model.Difficulty]int {
	return map[model.Difficulty]int{
		model.DifficultyEasy:   15,
		model.DifficultyMedium: 20,
		model.DifficultyHard:   25,
	}
}

// Config tunes the strategies the service registers.
type Config struct {
	// Thresholds overrides the hold threshold for individual
	// difficulties; omitted difficulties keep their defaults. The
	// adaptive strategy anchors on the hard threshold unless given its
	// own entry.
	Thresholds map[model.Difficulty]int
}

// Service resolves a difficulty to its decision strategy
type Service struct {
	strategies map[model.Difficulty]Strategy
	logger     *slog.Logger
}

// NewService creates a bot Service with the standard strategy set
func NewService(cfg Config, logger *slog.Logger) *Service {
	thresholds := DefaultThresholds()
	for difficulty, threshold := range cfg.Thresholds {
		thresholds[difficulty] = threshold
	}
	adaptiveBase, ok := thresholds[model.DifficultyAdaptive]
	if !ok {
		adaptiveBase = thresholds[model.DifficultyHard]
	}

	return &Service{
		strategies: map[model.Difficulty]Strategy{
			model.DifficultyEasy:     NewThresholdStrategy(thresholds[model.DifficultyEasy]),
			model.DifficultyMedium:   NewThresholdStrategy(thresholds[model.DifficultyMedium]),
			model.DifficultyHard:     NewThresholdStrategy(thresholds[model.DifficultyHard]),
			model.DifficultyAdaptive: NewAdaptiveStrategy(adaptiveBase),
		},
		logger: logger.With(slog.String("component", "bot-service")),
	}
}

// Decide returns the computer's action for the given view
func (s *Service) Decide(difficulty model.Difficulty, view TurnView) (model.Action, error) {
	strategy, ok := s.strategies[difficulty]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownDifficulty, difficulty)
	}

	action := strategy.Decide(view)
	s.logger.Debug("computer decision",
		slog.String("difficulty", string(difficulty)),
		slog.Int("turn_points", view.TurnPoints),
		slog.Int("banked_score", view.BankedScore),
		slog.Int("opponent_score", view.OpponentScore),
		slog.String("action", string(action)),
	)
	return action, nil
}

// Difficulties returns the registered difficulties in a stable order
func (s *Service) Difficulties() []model.Difficulty {
	out := make([]model.Difficulty, 0, len(s.strategies))
	for difficulty := range s.strategies {
		out = append(out, difficulty)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
