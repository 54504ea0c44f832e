package bot

import "github.com/mcoot/pigdice-go/internal/model"

// Single-die odds the adaptive policy reasons with. The policy models
// the standard game even when a session runs with reconfigured dice.
const (
	bustChance     = 1.0 / 6.0
	continueChance = 5.0 / 6.0
	averageFace    = 3.5
)

// AdaptiveStrategy plays a push-your-luck opponent that reads the
// scoreboard: it raises its hold threshold when behind, lowers it when
// comfortably ahead or when the opponent is close to winning, and near
// the target weighs the expected gain of one more roll against the
// turn points at stake.
type AdaptiveStrategy struct {
	baseThreshold int
}

// NewAdaptiveStrategy creates an adaptive strategy anchored at the
// given base threshold.
func NewAdaptiveStrategy(baseThreshold int) *AdaptiveStrategy {
	return &AdaptiveStrategy{baseThreshold: baseThreshold}
}

// Decide is deterministic for a given view, like every strategy.
func (st *AdaptiveStrategy) Decide(view TurnView) model.Action {
	if view.BankedScore+view.TurnPoints >= view.WinningScore {
		return model.ActionHold
	}

	threshold := st.baseThreshold
	scoreGap := view.BankedScore - view.OpponentScore
	switch {
	case scoreGap < 0:
		threshold += 3
	case scoreGap > 15:
		threshold -= 3
	}
	if view.OpponentScore >= view.WinningScore-10 {
		threshold -= 2
	}

	// Within reach of the target, compare the expected value of one
	// more roll against the points that would be lost to a bust.
	expectedGain := continueChance * averageFace
	expectedNext := float64(view.BankedScore+view.TurnPoints) + expectedGain
	if expectedNext >= float64(view.WinningScore) {
		if continueChance*expectedGain > bustChance*float64(view.TurnPoints) {
			return model.ActionRoll
		}
		return model.ActionHold
	}

	if view.TurnPoints >= threshold {
		return model.ActionHold
	}

	if bustChance*float64(view.TurnPoints) < 5 {
		return model.ActionRoll
	}
	return model.ActionHold
}
