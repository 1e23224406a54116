package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/repository"
)

const defaultDisplayName = "Player"

// StatsService is the read/query surface over the storage gateway.
type StatsService interface {
	GetStats(ctx context.Context, userID string) (*entity.Stats, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error)
	SetName(ctx context.Context, userID, name string) error
	DisplayName(ctx context.Context, userID string) string
}

type statsRepo interface {
	Load(ctx context.Context, userID string) (*entity.Stats, error)
	SetName(ctx context.Context, userID, name string) error
	DisplayName(ctx context.Context, userID string) (string, error)
}

type historyRepo interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error)
}

type statsService struct {
	statsRepo   statsRepo
	historyRepo historyRepo
}

func NewStatsService(statsRepo statsRepo, historyRepo historyRepo) StatsService {
	return &statsService{
		statsRepo:   statsRepo,
		historyRepo: historyRepo,
	}
}

// GetStats returns a zero-valued scoreboard for users that never played.
func (that *statsService) GetStats(ctx context.Context, userID string) (*entity.Stats, error) {
	stats, err := that.statsRepo.Load(ctx, userID)
	if errors.Is(err, repository.ErrStatsNotFound) {
		return &entity.Stats{UserID: userID, Name: defaultDisplayName}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not load stats: %w", err)
	}

	return stats, nil
}

func (that *statsService) GetHistory(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error) {
	records, err := that.historyRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list history: %w", err)
	}

	return records, nil
}

func (that *statsService) SetName(ctx context.Context, userID, name string) error {
	if err := that.statsRepo.SetName(ctx, userID, name); err != nil {
		return fmt.Errorf("could not set name: %w", err)
	}

	return nil
}

// DisplayName resolves a user's name, falling back to a generic label for
// the AI slot and unknown users.
func (that *statsService) DisplayName(ctx context.Context, userID string) string {
	if userID == entity.AIPlayerID {
		return "AI"
	}

	name, err := that.statsRepo.DisplayName(ctx, userID)
	if err != nil || name == "" {
		return defaultDisplayName
	}

	return name
}
