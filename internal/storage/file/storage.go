package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/storage"
	"github.com/mcoot/pigdice-go/internal/storage/memory"
)

// DefaultPath is the score file used when no path is configured
const DefaultPath = "scores.json"

// Storage persists player scores as a single JSON document on disk and
// keeps sessions in an embedded in-memory store: scores survive across
// process runs, sessions last for one.
//
// The document maps player name to score entry:
//
//	{"Alice": {"games": [{"date": "2024-01-01", "points": 104}], "total_points": 104}}
type Storage struct {
	// Session operations are served by the embedded in-memory store;
	// the score methods below shadow its score operations.
	*memory.Storage

	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	scores map[string]*model.PlayerScore
}

// New creates a file-backed storage reading and writing the score
// document at path. A missing or unreadable document is recovered as an
// empty store with a warning; it is never fatal.
func New(path string, logger *slog.Logger) *Storage {
	s := &Storage{
		Storage: memory.New(),
		path:    path,
		logger: logger.With(
			slog.String("component", "file-storage"),
			slog.String("path", path),
		),
		scores: make(map[string]*model.PlayerScore),
	}
	s.load()
	return s
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// load reads the score document into memory, repairing entries whose
// stored total disagrees with their games list.
func (s *Storage) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("score file does not exist, starting with an empty store")
		} else {
			s.logger.Warn("could not read score file, starting with an empty store",
				slog.String("error", err.Error()))
		}
		return
	}

	var decoded map[string]*model.PlayerScore
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.logger.Warn("score file is corrupt, starting with an empty store",
			slog.String("error", err.Error()))
		return
	}

	for name, entry := range decoded {
		if entry == nil {
			entry = model.NewPlayerScore()
		}
		if entry.Games == nil {
			entry.Games = []model.GameRecord{}
		}
		if computed := entry.SumPoints(); computed != entry.TotalPoints {
			s.logger.Warn("repairing total that disagrees with game history",
				slog.String("player", name),
				slog.Int("stored_total", entry.TotalPoints),
				slog.Int("computed_total", computed),
			)
			entry.TotalPoints = computed
		}
		s.scores[name] = entry
	}

	s.logger.Info("score file loaded", slog.Int("players", len(s.scores)))
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

// UpdatePlayerScores rewrites the whole document through a temp file
// and rename, so a crash mid-write leaves the previous document intact.
// The in-memory view only advances once the write has landed, keeping
// memory and disk in step for retries.
func (s *Storage) UpdatePlayerScores(ctx context.Context, set map[string]*model.PlayerScore, remove []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*model.PlayerScore, len(s.scores)+len(set))
	for name, entry := range s.scores {
		next[name] = entry
	}
	for name, entry := range set {
		next[name] = entry.Clone()
	}
	for _, name := range remove {
		delete(next, name)
	}

	data, err := json.MarshalIndent(next, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding score document: %v", model.ErrPersistence, err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", model.ErrPersistence, s.path, err)
	}

	s.scores = next
	return nil
}
