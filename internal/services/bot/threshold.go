package bot

import "github.com/mcoot/pigdice-go/internal/model"

// ThresholdStrategy holds once the unbanked turn points reach a fixed
// threshold. It never looks at the opponent.
type ThresholdStrategy struct {
	threshold int
}

// NewThresholdStrategy creates a strategy that rolls until turn points
// reach the given threshold.
func NewThresholdStrategy(threshold int) *ThresholdStrategy {
	return &ThresholdStrategy{threshold: threshold}
}

// Decide holds when banking would win the game or when the threshold
// has been reached, and rolls otherwise.
func (st *ThresholdStrategy) Decide(view TurnView) model.Action {
	if view.BankedScore+view.TurnPoints >= view.WinningScore {
		return model.ActionHold
	}
	if view.TurnPoints >= st.threshold {
		return model.ActionHold
	}
	return model.ActionRoll
}
