package repository

import (
	"testing"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a waiting session
	session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, session)

	// Then: no error should be returned, and the snapshot is stored
	require.NoError(t, err)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: an in-progress session with one move
		session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")
		session.SeatOpponent("bob")
		session.Board[4] = entity.MarkX
		session.Moves = append(session.Moves, entity.Move{Actor: "alice", Row: 1, Col: 1})

		err := sessionRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the snapshot round-trips with its board and history
		require.NoError(t, err)
		require.Equal(t, session.ID, retrieved.ID)
		require.Equal(t, session.Status, retrieved.Status)
		require.Equal(t, session.Board, retrieved.Board)
		require.Len(t, retrieved.Moves, 1)
		require.Equal(t, entity.MarkX, retrieved.Symbols["alice"])
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrSessionNotFound, err)
		assert.Nil(t, retrieved)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a stored session
	session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")
	err := sessionRepo.CreateOrUpdate(ctx, session)
	require.NoError(t, err)

	// When: DeleteByID is called with the existing ID
	err = sessionRepo.DeleteByID(ctx, session.ID)

	// Then: the snapshot is gone
	require.NoError(t, err)

	_, err = sessionRepo.GetByID(ctx, session.ID)
	require.Error(t, err)
	assert.Equal(t, ErrSessionNotFound, err)
}
