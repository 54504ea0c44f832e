package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/mcoot/pigdice-go/internal/model"
	"github.com/mcoot/pigdice-go/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Sessions are stored as JSON documents; score history is relational,
// with an ordinal column preserving the order of each player's games.
type Storage struct {
	db *sql.DB
}

// New opens or creates a SQLite database at path and runs migrations
func New(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes

	s := &Storage{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS players (
			name TEXT PRIMARY KEY,
			total_points INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_name TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			date TEXT NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_player_ordinal ON games(player_name, ordinal);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration: %w", err)
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions(id, document, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document=excluded.document,
			updated_at=excluded.updated_at`,
		string(session.ID), string(data), session.UpdatedAt)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE id=?`, string(id)).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal([]byte(document), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, string(id))
	return err
}

// Score operations

func (s *Storage) GetPlayerScore(ctx context.Context, name string) (*model.PlayerScore, error) {
	entry := model.NewPlayerScore()
	err := s.db.QueryRowContext(ctx,
		`SELECT total_points FROM players WHERE name=?`, name).Scan(&entry.TotalPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, points FROM games WHERE player_name=? ORDER BY ordinal`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record model.GameRecord
		var date string
		if err := rows.Scan(&date, &record.Points); err != nil {
			return nil, err
		}
		record.Date = model.Date(date)
		entry.Games = append(entry.Games, record)
	}
	return entry, rows.Err()
}

func (s *Storage) ListPlayerScores(ctx context.Context) (map[string]*model.PlayerScore, error) {
	result := make(map[string]*model.PlayerScore)

	rows, err := s.db.QueryContext(ctx, `SELECT name, total_points FROM players`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		entry := model.NewPlayerScore()
		if err := rows.Scan(&name, &entry.TotalPoints); err != nil {
			return nil, err
		}
		result[name] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	gameRows, err := s.db.QueryContext(ctx,
		`SELECT player_name, date, points FROM games ORDER BY player_name, ordinal`)
	if err != nil {
		return nil, err
	}
	defer gameRows.Close()
	for gameRows.Next() {
		var name, date string
		var points int
		if err := gameRows.Scan(&name, &date, &points); err != nil {
			return nil, err
		}
		if entry, ok := result[name]; ok {
			entry.Games = append(entry.Games, model.GameRecord{Date: model.Date(date), Points: points})
		}
	}
	return result, gameRows.Err()
}

// UpdatePlayerScores applies the whole batch in one transaction. Each
// upsert replaces the player's full game history, so the stored order
// always mirrors the caller's.
func (s *Storage) UpdatePlayerScores(ctx context.Context, set map[string]*model.PlayerScore, remove []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	defer tx.Rollback()

	for name, entry := range set {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO players(name, total_points) VALUES(?, ?)
			ON CONFLICT(name) DO UPDATE SET total_points=excluded.total_points`,
			name, entry.TotalPoints); err != nil {
			return fmt.Errorf("%w: upserting %q: %v", model.ErrPersistence, name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM games WHERE player_name=?`, name); err != nil {
			return fmt.Errorf("%w: clearing history for %q: %v", model.ErrPersistence, name, err)
		}
		for ordinal, record := range entry.Games {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO games(player_name, ordinal, date, points) VALUES(?, ?, ?, ?)`,
				name, ordinal, string(record.Date), record.Points); err != nil {
				return fmt.Errorf("%w: inserting game for %q: %v", model.ErrPersistence, name, err)
			}
		}
	}

	for _, name := range remove {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM games WHERE player_name=?`, name); err != nil {
			return fmt.Errorf("%w: removing history for %q: %v", model.ErrPersistence, name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM players WHERE name=?`, name); err != nil {
			return fmt.Errorf("%w: removing %q: %v", model.ErrPersistence, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}
