package bot

import "github.com/mcoot/pigdice-go/internal/model"

// TurnView is the slice of game state a strategy sees when deciding:
// the computer's unbanked turn points and how far each side is from
// the winning score.
type TurnView struct {
	TurnPoints    int
	BankedScore   int
	OpponentScore int
	WinningScore  int
}

// Strategy defines how the computer player decides between rolling and
// holding. Implementations are pure: the same view always yields the
// same action.
type Strategy interface {
	Decide(view TurnView) model.Action
}
