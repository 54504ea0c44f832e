package redis

import (
	"fmt"

	"github.com/mcoot/pigdice-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "pigdice"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// playerScoreKey returns the Redis key for a player's score entry
func playerScoreKey(name string) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, name)
}

// scoreIndexKey returns the Redis key for the SET of player names with
// score entries
func scoreIndexKey() string {
	return fmt.Sprintf("%s:idx:score_players", keyPrefix)
}
