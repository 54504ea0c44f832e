package model

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format for game record dates
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The textual form orders
// lexicographically exactly as it orders chronologically, so Dates
// compare directly with <.
type Date string

// DateOf truncates a time to its calendar date
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates a wire-format date
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// GameRecord is one completed game credited to a player. The JSON tags
// are the persisted store format and must stay stable across versions.
type GameRecord struct {
	Date   Date `json:"date"`
	Points int  `json:"points"`
}

// PlayerScore is a player's full persisted history. TotalPoints equals
// the sum of Games' points after any committed write.
type PlayerScore struct {
	Games       []GameRecord `json:"games"`
	TotalPoints int          `json:"total_points"`
}

// NewPlayerScore returns an empty history. Games is non-nil so the entry
// marshals as an empty list, never null.
func NewPlayerScore() *PlayerScore {
	return &PlayerScore{Games: []GameRecord{}}
}

// SumPoints recomputes the total from the games list
func (p *PlayerScore) SumPoints() int {
	total := 0
	for _, g := range p.Games {
		total += g.Points
	}
	return total
}

// Clone returns a deep copy
func (p *PlayerScore) Clone() *PlayerScore {
	c := &PlayerScore{
		Games:       make([]GameRecord, len(p.Games)),
		TotalPoints: p.TotalPoints,
	}
	copy(c.Games, p.Games)
	return c
}

// MergePlayerScores combines two histories into one: games concatenated
// in chronological order and totals summed. Games on the same date keep
// their relative order, dst's before src's. Inputs are not mutated.
func MergePlayerScores(dst, src *PlayerScore) *PlayerScore {
	merged := &PlayerScore{
		Games:       make([]GameRecord, 0, len(dst.Games)+len(src.Games)),
		TotalPoints: dst.TotalPoints + src.TotalPoints,
	}
	merged.Games = append(merged.Games, dst.Games...)
	merged.Games = append(merged.Games, src.Games...)
	sort.SliceStable(merged.Games, func(i, j int) bool {
		return merged.Games[i].Date < merged.Games[j].Date
	})
	return merged
}

// LeaderboardEntry is one row of the ranked score table
type LeaderboardEntry struct {
	Name        string
	TotalPoints int
	GamesPlayed int
}
