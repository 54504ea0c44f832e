package dice

import (
	"fmt"

	"github.com/mcoot/pigdice-go/internal/dependencies/random"
	"github.com/mcoot/pigdice-go/internal/model"
)

// Config describes the dice a Hand rolls
type Config struct {
	// Count is the number of dice rolled together each turn
	Count int
	// Sides is the number of faces on each die
	Sides int
	// BustFace is the face value that forfeits the turn
	BustFace int
}

// FromRules extracts the dice portion of a rule set
func FromRules(r model.Rules) Config {
	return Config{
		Count:    r.DiceCount,
		Sides:    r.DiceSides,
		BustFace: r.BustFace,
	}
}

// Hand is a set of dice rolled together as one turn action
type Hand struct {
	config Config
	random random.Random
}

// NewHand creates a Hand, rejecting configurations that cannot describe
// a rollable set of dice
func NewHand(cfg Config, rnd random.Random) (*Hand, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("%w: dice count must be at least 1, got %d", model.ErrConfiguration, cfg.Count)
	}
	if cfg.Sides < 2 {
		return nil, fmt.Errorf("%w: dice must have at least 2 sides, got %d", model.ErrConfiguration, cfg.Sides)
	}
	if cfg.BustFace < 1 || cfg.BustFace > cfg.Sides {
		return nil, fmt.Errorf("%w: bust face %d is not a face of a %d-sided die", model.ErrConfiguration, cfg.BustFace, cfg.Sides)
	}
	return &Hand{config: cfg, random: rnd}, nil
}

// RollTurn rolls every die in the hand once. The roll total is the sum
// of the faces, or zero when any die shows the bust face.
func (h *Hand) RollTurn() model.Roll {
	roll := model.Roll{Values: make([]int, h.config.Count)}
	for i := range roll.Values {
		face := h.random.Intn(h.config.Sides) + 1
		roll.Values[i] = face
		roll.Total += face
		if face == h.config.BustFace {
			roll.Busted = true
		}
	}
	if roll.Busted {
		roll.Total = 0
	}
	return roll
}
