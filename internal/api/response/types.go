package response

import (
	"time"

	"github.com/mcoot/pigdice-go/internal/model"
)

// Rules represents the rule set a session is played under
type Rules struct {
	WinningScore int  `json:"winning_score"`
	BustFace     int  `json:"bust_face"`
	CheatBonus   int  `json:"cheat_bonus"`
	DiceCount    int  `json:"dice_count"`
	DiceSides    int  `json:"dice_sides"`
	CheatEnabled bool `json:"cheat_enabled"`
}

// RulesFromModel converts model.Rules
func RulesFromModel(r model.Rules) Rules {
	return Rules{
		WinningScore: r.WinningScore,
		BustFace:     r.BustFace,
		CheatBonus:   r.CheatBonus,
		DiceCount:    r.DiceCount,
		DiceSides:    r.DiceSides,
		CheatEnabled: r.CheatEnabled,
	}
}

// Player represents one seat of a session
type Player struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	IsComputer bool   `json:"is_computer,omitempty"`
}

// PlayerFromModel converts a model.SessionPlayer to a response Player
func PlayerFromModel(p model.SessionPlayer) Player {
	return Player{
		Name:       p.Name,
		Score:      p.Score,
		IsComputer: p.IsComputer,
	}
}

// Session represents a game session in API responses
type Session struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode"`
	Difficulty   string    `json:"difficulty,omitempty"`
	State        string    `json:"state"`
	Players      []Player  `json:"players"`
	ActivePlayer string    `json:"active_player"`
	TurnPoints   int       `json:"turn_points"`
	Winner       *string   `json:"winner"`
	Rules        Rules     `json:"rules"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = PlayerFromModel(p)
	}

	var winner *string
	if w := s.WinningPlayer(); w != nil {
		name := w.Name
		winner = &name
	}

	return Session{
		ID:           string(s.ID),
		Mode:         string(s.Mode),
		Difficulty:   string(s.Difficulty),
		State:        string(s.State),
		Players:      players,
		ActivePlayer: s.ActivePlayer().Name,
		TurnPoints:   s.TurnPoints,
		Winner:       winner,
		Rules:        RulesFromModel(s.Rules),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// Roll represents one throw of the session's dice
type Roll struct {
	Values []int `json:"values"`
	Total  int   `json:"total"`
	Busted bool  `json:"busted"`
}

// RollFromModel converts model.Roll
func RollFromModel(r model.Roll) Roll {
	return Roll{
		Values: r.Values,
		Total:  r.Total,
		Busted: r.Busted,
	}
}

// TurnEvent represents one applied action within a turn result
type TurnEvent struct {
	Player      string `json:"player"`
	IsComputer  bool   `json:"is_computer,omitempty"`
	Action      string `json:"action"`
	Roll        *Roll  `json:"roll,omitempty"`
	TurnPoints  int    `json:"turn_points"`
	BankedScore int    `json:"banked_score"`
	Outcome     string `json:"outcome"`
}

// TurnEventFromModel converts model.TurnEvent
func TurnEventFromModel(e model.TurnEvent) TurnEvent {
	var roll *Roll
	if e.Roll != nil {
		r := RollFromModel(*e.Roll)
		roll = &r
	}
	return TurnEvent{
		Player:      e.Player,
		IsComputer:  e.IsComputer,
		Action:      string(e.Action),
		Roll:        roll,
		TurnPoints:  e.TurnPoints,
		BankedScore: e.BankedScore,
		Outcome:     string(e.Outcome),
	}
}

// TurnResult is the response after submitting an action. Events list
// everything that happened, including the computer's reply turn.
type TurnResult struct {
	SessionID    string      `json:"session_id"`
	Events       []TurnEvent `json:"events"`
	State        string      `json:"state"`
	ActivePlayer string      `json:"active_player"`
	Winner       string      `json:"winner,omitempty"`
}

// TurnResultFromModel converts model.TurnResult
func TurnResultFromModel(r *model.TurnResult) TurnResult {
	events := make([]TurnEvent, len(r.Events))
	for i, e := range r.Events {
		events[i] = TurnEventFromModel(e)
	}
	return TurnResult{
		SessionID:    string(r.SessionID),
		Events:       events,
		State:        string(r.State),
		ActivePlayer: r.ActivePlayer,
		Winner:       r.Winner,
	}
}

// GameRecord represents one recorded game result
type GameRecord struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// PlayerScore represents a player's full score history
type PlayerScore struct {
	Name        string       `json:"name"`
	Games       []GameRecord `json:"games"`
	TotalPoints int          `json:"total_points"`
}

// PlayerScoreFromModel converts model.PlayerScore
func PlayerScoreFromModel(name string, s *model.PlayerScore) PlayerScore {
	games := make([]GameRecord, len(s.Games))
	for i, g := range s.Games {
		games[i] = GameRecord{
			Date:   string(g.Date),
			Points: g.Points,
		}
	}
	return PlayerScore{
		Name:        name,
		Games:       games,
		TotalPoints: s.TotalPoints,
	}
}

// LeaderboardEntry represents one ranked leaderboard row
type LeaderboardEntry struct {
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	GamesPlayed int    `json:"games_played"`
}

// Leaderboard is the response for the leaderboard endpoint, ranked by
// total points descending
type Leaderboard struct {
	Players []LeaderboardEntry `json:"players"`
}

// LeaderboardFromModel converts a ranked slice of model entries
func LeaderboardFromModel(entries []model.LeaderboardEntry) Leaderboard {
	players := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		players[i] = LeaderboardEntry{
			Name:        e.Name,
			TotalPoints: e.TotalPoints,
			GamesPlayed: e.GamesPlayed,
		}
	}
	return Leaderboard{Players: players}
}
