package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

var ErrStatsNotFound = errors.New("stats not found")

type StatsRepository interface {
	Load(ctx context.Context, userID string) (*entity.Stats, error)
	ApplyDelta(ctx context.Context, userID string, delta entity.StatsDelta) error
	SetName(ctx context.Context, userID, name string) error
	DisplayName(ctx context.Context, userID string) (string, error)
}

type statsRepository struct {
	conn *sql.DB
}

func NewStatsRepository(conn *sql.DB) StatsRepository {
	return &statsRepository{
		conn: conn,
	}
}

func (that *statsRepository) Load(ctx context.Context, userID string) (*entity.Stats, error) {
	query := `SELECT user_id, name, wins, losses, draws, current_streak, longest_streak, total_games, tournament_wins
		FROM user_stats WHERE user_id = ?`

	var stats entity.Stats

	err := that.conn.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID, &stats.Name,
		&stats.Wins, &stats.Losses, &stats.Draws,
		&stats.CurrentStreak, &stats.LongestStreak,
		&stats.TotalGames, &stats.TournamentWins,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't load stats: %w", err)
	}

	return &stats, nil
}

// ApplyDelta upserts the user row and folds one game outcome into it.
// Streak columns derive from the delta: a win extends the streak, a loss
// resets it, a draw leaves it alone.
func (that *statsRepository) ApplyDelta(ctx context.Context, userID string, delta entity.StatsDelta) error {
	if err := that.ensureRow(ctx, userID); err != nil {
		return err
	}

	query := `UPDATE user_stats SET
			wins = wins + ?,
			losses = losses + ?,
			draws = draws + ?,
			tournament_wins = tournament_wins + ?,
			total_games = total_games + ?,
			current_streak = CASE WHEN ? > 0 THEN current_streak + 1 WHEN ? > 0 THEN 0 ELSE current_streak END,
			longest_streak = MAX(longest_streak, CASE WHEN ? > 0 THEN current_streak + 1 ELSE longest_streak END)
		WHERE user_id = ?`

	playedGames := delta.Wins + delta.Losses + delta.Draws

	_, err := that.conn.ExecContext(ctx, query,
		delta.Wins, delta.Losses, delta.Draws, delta.TournamentWins, playedGames,
		delta.Wins, delta.Losses, delta.Wins,
		userID,
	)
	if err != nil {
		return fmt.Errorf("can't apply stats delta: %w", err)
	}

	return nil
}

func (that *statsRepository) SetName(ctx context.Context, userID, name string) error {
	if err := that.ensureRow(ctx, userID); err != nil {
		return err
	}

	query := `UPDATE user_stats SET name = ? WHERE user_id = ?`

	if _, err := that.conn.ExecContext(ctx, query, name, userID); err != nil {
		return fmt.Errorf("can't set name: %w", err)
	}

	return nil
}

func (that *statsRepository) DisplayName(ctx context.Context, userID string) (string, error) {
	query := `SELECT name FROM user_stats WHERE user_id = ?`

	var name string

	err := that.conn.QueryRowContext(ctx, query, userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStatsNotFound
	}
	if err != nil {
		return "", fmt.Errorf("can't load display name: %w", err)
	}

	return name, nil
}

func (that *statsRepository) ensureRow(ctx context.Context, userID string) error {
	query := `INSERT INTO user_stats (user_id) VALUES (?) ON CONFLICT(user_id) DO NOTHING`

	if _, err := that.conn.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("can't ensure stats row: %w", err)
	}

	return nil
}
