package model

import (
	"fmt"
	"strings"
)

// Difficulty selects the computer opponent's hold policy
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	// DifficultyAdaptive is an opponent-aware policy that shifts its hold
	// threshold with the score gap and how close the opponent is to winning
	DifficultyAdaptive Difficulty = "adaptive"
)

// ParseDifficulty parses a difficulty string, case-insensitively
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(s)) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	case DifficultyAdaptive:
		return DifficultyAdaptive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Rules are the tunable constants of a game. Everything the win, bust,
// and cheat logic depends on lives here rather than as magic numbers.
type Rules struct {
	WinningScore int
	BustFace     int
	CheatBonus   int
	DiceCount    int
	DiceSides    int
	CheatEnabled bool
}

// DefaultRules returns the classic Pig rule set: one six-sided die, bust
// on 1, first to 100 wins, cheat disabled.
func DefaultRules() Rules {
	return Rules{
		WinningScore: 100,
		BustFace:     1,
		CheatBonus:   50,
		DiceCount:    1,
		DiceSides:    6,
	}
}

// Validate rejects out-of-range rule values
func (r Rules) Validate() error {
	if r.DiceCount < 1 {
		return fmt.Errorf("%w: dice count must be at least 1, got %d", ErrConfiguration, r.DiceCount)
	}
	if r.DiceSides < 2 {
		return fmt.Errorf("%w: dice must have at least 2 sides, got %d", ErrConfiguration, r.DiceSides)
	}
	if r.BustFace < 1 || r.BustFace > r.DiceSides {
		return fmt.Errorf("%w: bust face %d is not a face of a %d-sided die", ErrConfiguration, r.BustFace, r.DiceSides)
	}
	if r.WinningScore < 1 {
		return fmt.Errorf("%w: winning score must be positive, got %d", ErrConfiguration, r.WinningScore)
	}
	if r.CheatBonus < 1 {
		return fmt.Errorf("%w: cheat bonus must be positive, got %d", ErrConfiguration, r.CheatBonus)
	}
	return nil
}
