package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

type HistoryRepository interface {
	Append(ctx context.Context, record *entity.HistoryRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Append(ctx context.Context, record *entity.HistoryRecord) error {
	query := `INSERT INTO game_history (session_id, player1_id, player2_id, winner_id, game_mode, duration, moves_count, board_state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.SessionID, record.Player1, record.Player2, record.WinnerID,
		record.Mode, record.Duration, record.MoveCount, record.BoardState,
	)
	if err != nil {
		return fmt.Errorf("can't append history record: %w", err)
	}

	return nil
}

func (that *historyRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error) {
	query := `SELECT session_id, player1_id, player2_id, winner_id, game_mode, duration, moves_count, board_state, created_at
		FROM game_history
		WHERE player1_id = ? OR player2_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list history: %w", err)
	}
	defer rows.Close()

	var records []entity.HistoryRecord

	for rows.Next() {
		var record entity.HistoryRecord
		if err = rows.Scan(
			&record.SessionID, &record.Player1, &record.Player2, &record.WinnerID,
			&record.Mode, &record.Duration, &record.MoveCount, &record.BoardState,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan history record: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't iterate history records: %w", err)
	}

	return records, nil
}
