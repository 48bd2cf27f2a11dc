// Package scoreboard keeps the results of finished games in SQLite.
package scoreboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/coder/quartz"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrAlreadyRecorded is returned when a game id has already been stored.
var ErrAlreadyRecorded = errors.New("game already recorded")

const schema = `
CREATE TABLE IF NOT EXISTS results (
  game_id     TEXT PRIMARY KEY,
  player_one  TEXT NOT NULL,
  player_two  TEXT NOT NULL,
  score_one   INTEGER NOT NULL,
  score_two   INTEGER NOT NULL,
  winner      TEXT NOT NULL,
  finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_finished_at ON results (finished_at DESC);
`

// Result is one finished game.
type Result struct {
	GameID     string
	PlayerOne  string
	PlayerTwo  string
	ScoreOne   int
	ScoreTwo   int
	// Winner is empty for a draw.
	Winner     string
	FinishedAt time.Time
}

// Store persists results.
type Store struct {
	sqlDB *sql.DB
	clock quartz.Clock
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to stamp results that have no FinishedAt.
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and creates the schema if needed.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scoreboard path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record stores a finished game.
func (s *Store) Record(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("scoreboard is not configured")
	}
	if strings.TrimSpace(r.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	finishedAt := r.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = s.clock.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO results (
		   game_id, player_one, player_two, score_one, score_two, winner, finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.GameID,
		r.PlayerOne,
		r.PlayerTwo,
		r.ScoreOne,
		r.ScoreTwo,
		r.Winner,
		toMillis(finishedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("scoreboard is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, player_one, player_two, score_one, score_two, winner, finished_at
		   FROM results
		  ORDER BY finished_at DESC, game_id DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			finished int64
		)
		if err := rows.Scan(&r.GameID, &r.PlayerOne, &r.PlayerTwo, &r.ScoreOne, &r.ScoreTwo, &r.Winner, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.FinishedAt = fromMillis(finished)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
