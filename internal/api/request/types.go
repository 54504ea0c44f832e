package request

// Rules is the optional rule override for a new session. Zero-valued
// fields fall back to the server defaults.
type Rules struct {
	WinningScore int `json:"winning_score,omitempty"`
	BustFace     int `json:"bust_face,omitempty"`
	CheatBonus   int `json:"cheat_bonus,omitempty"`
	DiceCount    int `json:"dice_count,omitempty"`
	DiceSides    int `json:"dice_sides,omitempty"`
}

// CreateSessionRequest is the request body for starting a session
type CreateSessionRequest struct {
	Mode       string   `json:"mode"`
	Difficulty string   `json:"difficulty,omitempty"`
	Players    []string `json:"players"`
	Rules      *Rules   `json:"rules,omitempty"`
}

// ActionRequest is the request body for submitting a turn action
type ActionRequest struct {
	Action string `json:"action"`
}

// RenameSeatRequest is the request body for renaming a session player
type RenameSeatRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// SetDifficultyRequest is the request body for changing the computer
// opponent's difficulty
type SetDifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

// RenamePlayerRequest is the request body for renaming a player in the
// score records
type RenamePlayerRequest struct {
	NewName string `json:"new_name"`
}
