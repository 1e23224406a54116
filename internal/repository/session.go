package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

var ErrSessionNotFound = errors.New("session snapshot not found")

// SessionRepository mirrors active sessions into redis so operators can
// inspect them. The in-memory registry stays authoritative.
type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	sessionKey := "session:" + session.ID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	sessionKey := "session:" + id

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var existingSession entity.Session
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	sessionKey := "session:" + id

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	return nil
}
