package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Sessions and score entries are stored as JSON values, with a set of
// player names indexing the score entries.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// Score operations

func (s *Storage) GetPlayerScore(ctx context.Context, name string) (*model.PlayerScore, error) {
	data, err := s.client.Get(ctx, playerScoreKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var entry model.PlayerScore
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Storage) ListPlayerScores(ctx context.Context) (map[string]*model.PlayerScore, error) {
	names, err := s.client.SMembers(ctx, scoreIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string]*model.PlayerScore, len(names))
	if len(names) == 0 {
		return result, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = playerScoreKey(name)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, val := range values {
		if val == nil {
			continue // Entry removed since the index was read
		}
		var entry model.PlayerScore
		if err := json.Unmarshal([]byte(val.(string)), &entry); err != nil {
			continue // Skip invalid data
		}
		result[names[i]] = &entry
	}

	return result, nil
}

// UpdatePlayerScores runs the whole batch in one MULTI/EXEC transaction
// so the entries and the name index move together.
func (s *Storage) UpdatePlayerScores(ctx context.Context, set map[string]*model.PlayerScore, remove []string) error {
	pipe := s.client.TxPipeline()

	for name, entry := range set {
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("%w: encoding entry for %q: %v", model.ErrPersistence, name, err)
		}
		pipe.Set(ctx, playerScoreKey(name), data, 0)
		pipe.SAdd(ctx, scoreIndexKey(), name)
	}
	for _, name := range remove {
		pipe.Del(ctx, playerScoreKey(name))
		pipe.SRem(ctx, scoreIndexKey(), name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}
