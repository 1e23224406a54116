package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

var ErrTournamentNotFound = errors.New("tournament snapshot not found")

// TournamentRepository mirrors tournaments into redis, completed ones
// included, for the historical query surface.
type TournamentRepository interface {
	CreateOrUpdate(ctx context.Context, tournament *entity.Tournament) error
	GetByID(ctx context.Context, id string) (*entity.Tournament, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbTournament struct {
	client *redis.Client
}

func NewTournamentRepository(client *redis.Client) TournamentRepository {
	return &dbTournament{
		client: client,
	}
}

func (that *dbTournament) CreateOrUpdate(ctx context.Context, tournament *entity.Tournament) error {
	tournamentJSON, err := json.Marshal(tournament)
	if err != nil {
		return fmt.Errorf("could not marshal tournament: %w", err)
	}

	tournamentKey := "tournament:" + tournament.ID
	if err = that.client.Set(ctx, tournamentKey, tournamentJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set tournament: %w", err)
	}

	return nil
}

func (that *dbTournament) GetByID(ctx context.Context, id string) (*entity.Tournament, error) {
	tournamentKey := "tournament:" + id

	response, err := that.client.Get(ctx, tournamentKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrTournamentNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get tournament by id: %w", err)
	}

	var existingTournament entity.Tournament
	if err = json.Unmarshal([]byte(response), &existingTournament); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tournament: %w", err)
	}

	return &existingTournament, nil
}

func (that *dbTournament) DeleteByID(ctx context.Context, id string) error {
	tournamentKey := "tournament:" + id

	if err := that.client.Del(ctx, tournamentKey).Err(); err != nil {
		return fmt.Errorf("failed to delete tournament by id: %w", err)
	}

	return nil
}
