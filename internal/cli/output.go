package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case TurnResult:
		o.printTurnResult(v)
	case PlayerScore:
		o.printPlayerScore(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Rules response type (matches API)
type Rules struct {
	WinningScore int  `json:"winning_score"`
	BustFace     int  `json:"bust_face"`
	CheatBonus   int  `json:"cheat_bonus"`
	DiceCount    int  `json:"dice_count"`
	DiceSides    int  `json:"dice_sides"`
	CheatEnabled bool `json:"cheat_enabled"`
}

// Player response type
type Player struct {
	Name       string `json:"name"`
	Score      int    `json:"score"`
	IsComputer bool   `json:"is_computer"`
}

// Session response type
type Session struct {
	ID           string   `json:"id"`
	Mode         string   `json:"mode"`
	Difficulty   string   `json:"difficulty,omitempty"`
	State        string   `json:"state"`
	Players      []Player `json:"players"`
	ActivePlayer string   `json:"active_player"`
	TurnPoints   int      `json:"turn_points"`
	Winner       *string  `json:"winner"`
	Rules        Rules    `json:"rules"`
}

// Roll response type
type Roll struct {
	Values []int `json:"values"`
	Total  int   `json:"total"`
	Busted bool  `json:"busted"`
}

// TurnEvent response type
type TurnEvent struct {
	Player      string `json:"player"`
	IsComputer  bool   `json:"is_computer"`
	Action      string `json:"action"`
	Roll        *Roll  `json:"roll,omitempty"`
	TurnPoints  int    `json:"turn_points"`
	BankedScore int    `json:"banked_score"`
	Outcome     string `json:"outcome"`
}

// TurnResult response type
type TurnResult struct {
	SessionID    string      `json:"session_id"`
	Events       []TurnEvent `json:"events"`
	State        string      `json:"state"`
	ActivePlayer string      `json:"active_player"`
	Winner       string      `json:"winner,omitempty"`
}

// GameRecord response type
type GameRecord struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// PlayerScore response type
type PlayerScore struct {
	Name        string       `json:"name"`
	Games       []GameRecord `json:"games"`
	TotalPoints int          `json:"total_points"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
	GamesPlayed int    `json:"games_played"`
}

// Leaderboard response type
type Leaderboard struct {
	Players []LeaderboardEntry `json:"players"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// diceFace renders 1-6 as the Unicode die faces ⚀-⚅; anything outside
// that range falls back to the plain number.
func diceFace(n int) string {
	if n >= 1 && n <= 6 {
		return string(rune(0x2680 + n - 1))
	}
	return fmt.Sprintf("%d", n)
}

func formatRoll(r *Roll) string {
	if r == nil {
		return "?"
	}
	faces := make([]string, len(r.Values))
	for i, v := range r.Values {
		faces[i] = diceFace(v)
	}
	if len(r.Values) == 1 {
		return fmt.Sprintf("%d %s", r.Total, faces[0])
	}
	return fmt.Sprintf("%d (%s)", r.Total, strings.Join(faces, " "))
}

func formatTurnEvent(e TurnEvent) string {
	who := e.Player
	if e.IsComputer {
		who += " [computer]"
	}

	switch e.Outcome {
	case "rolled":
		return fmt.Sprintf("%s rolled %s - turn total %d", who, formatRoll(e.Roll), e.TurnPoints)
	case "busted":
		return fmt.Sprintf("%s rolled %s - bust! Turn points lost", who, formatRoll(e.Roll))
	case "held":
		return fmt.Sprintf("%s held - banked score now %d", who, e.BankedScore)
	case "cheated":
		return fmt.Sprintf("%s cheated - banked score now %d", who, e.BankedScore)
	case "won":
		return fmt.Sprintf("%s wins with %d points!", who, e.BankedScore)
	case "abandoned":
		return fmt.Sprintf("%s quit the game", who)
	default:
		return fmt.Sprintf("%s: %s", who, e.Outcome)
	}
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Mode: %s\n", s.Mode)
	if s.Difficulty != "" {
		fmt.Printf("Difficulty: %s\n", s.Difficulty)
	}
	fmt.Printf("State: %s\n", s.State)
	fmt.Printf("Players:\n")
	for _, p := range s.Players {
		computerStr := ""
		if p.IsComputer {
			computerStr = " [computer]"
		}
		fmt.Printf("  - %s: %d%s\n", p.Name, p.Score, computerStr)
	}
	if s.Winner != nil {
		fmt.Printf("Winner: %s\n", *s.Winner)
		return
	}
	fmt.Printf("Active Player: %s\n", s.ActivePlayer)
	if s.TurnPoints > 0 {
		fmt.Printf("Turn Points: %d\n", s.TurnPoints)
	}
}

func (o *Output) printTurnResult(r TurnResult) {
	for _, e := range r.Events {
		fmt.Println(formatTurnEvent(e))
	}
	if r.Winner != "" {
		return
	}
	if r.State == "abandoned" {
		return
	}
	fmt.Printf("Next to act: %s\n", r.ActivePlayer)
}

func (o *Output) printPlayerScore(s PlayerScore) {
	fmt.Printf("Player: %s\n", s.Name)
	fmt.Printf("Total Points: %d\n", s.TotalPoints)
	fmt.Printf("Games (%d):\n", len(s.Games))
	for _, g := range s.Games {
		fmt.Printf("  %s: %d points\n", g.Date, g.Points)
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Players) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}
	for i, p := range l.Players {
		fmt.Printf("%d. %s: %d points (%d games)\n", i+1, p.Name, p.TotalPoints, p.GamesPlayed)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
