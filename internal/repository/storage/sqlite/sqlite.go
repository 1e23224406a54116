package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	Connection *sql.DB
}

func New(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			name TEXT DEFAULT 'Player',
			wins INTEGER DEFAULT 0,
			losses INTEGER DEFAULT 0,
			draws INTEGER DEFAULT 0,
			current_streak INTEGER DEFAULT 0,
			longest_streak INTEGER DEFAULT 0,
			total_games INTEGER DEFAULT 0,
			tournament_wins INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS game_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			player1_id TEXT,
			player2_id TEXT,
			winner_id TEXT,
			game_mode TEXT,
			duration INTEGER,
			moves_count INTEGER,
			board_state TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := that.Connection.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("can't create table: %w", err)
		}
	}

	return nil
}

func (that *Storage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}
