package memory

import (
	"context"
	"sync"

	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are cloned on the way in and out, so callers can mutate what
// they hold without affecting the stored state.
type Storage struct {
	mu sync.RWMutex

	sessions map[model.SessionID]*model.Session
	scores   map[string]*model.PlayerScore
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
		scores:   make(map[string]*model.PlayerScore),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Score operations

func (s *Storage) GetPlayerScore(ctx context.Context, name string) (*model.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.scores[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return entry.Clone(), nil
}

func (s *Storage) ListPlayerScores(ctx context.Context) (map[string]*model.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*model.PlayerScore, len(s.scores))
	for name, entry := range s.scores {
		result[name] = entry.Clone()
	}
	return result, nil
}

func (s *Storage) UpdatePlayerScores(ctx context.Context, set map[string]*model.PlayerScore, remove []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, entry := range set {
		s.scores[name] = entry.Clone()
	}
	for _, name := range remove {
		delete(s.scores, name)
	}
	return nil
}
