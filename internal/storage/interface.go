package storage

import (
	"context"

	"github.com/mcoot/pigdice-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Score operations
	GetPlayerScore(ctx context.Context, name string) (*model.PlayerScore, error)
	ListPlayerScores(ctx context.Context) (map[string]*model.PlayerScore, error)
	// UpdatePlayerScores applies the upserts in set and the removals in
	// remove as one atomic batch: a failure must never leave a partially
	// applied batch behind.
	UpdatePlayerScores(ctx context.Context, set map[string]*model.PlayerScore, remove []string) error
}
