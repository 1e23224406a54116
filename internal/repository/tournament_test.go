package repository

import (
	"testing"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	tournamentRepo := NewTournamentRepository(st.Storage)

	// Given: a waiting tournament
	tournament := entity.NewTournament("t1", "Friday Cup", "alice", 8, "mug")

	// When: CreateOrUpdate is called
	err := tournamentRepo.CreateOrUpdate(ctx, tournament)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestTournamentRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		tournamentRepo := NewTournamentRepository(st.Storage)

		// Given: an active tournament with bracket state
		tournament := entity.NewTournament("t1", "Friday Cup", "alice", 8, "")
		tournament.Participants = append(tournament.Participants, "bob", "carol")
		tournament.Status = entity.TournamentActive
		tournament.Bracket[1] = []*entity.Match{
			{Player1: "alice", Player2: "bob", Status: entity.MatchPending, SessionID: "s1"},
		}
		tournament.Byes[1] = []string{"carol"}

		err := tournamentRepo.CreateOrUpdate(ctx, tournament)
		require.NoError(t, err)

		// When: GetByID is called with the existing ID
		retrieved, err := tournamentRepo.GetByID(ctx, tournament.ID)

		// Then: the bracket and byes round-trip intact
		require.NoError(t, err)
		require.Equal(t, tournament.ID, retrieved.ID)
		require.Equal(t, entity.TournamentActive, retrieved.Status)
		require.Len(t, retrieved.Bracket[1], 1)
		require.Equal(t, "s1", retrieved.Bracket[1][0].SessionID)
		require.Equal(t, []string{"carol"}, retrieved.Byes[1])
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		tournamentRepo := NewTournamentRepository(st.Storage)

		// When: GetByID is called with a non-existent ID
		retrieved, err := tournamentRepo.GetByID(ctx, "9999999")

		// Then: an ErrTournamentNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrTournamentNotFound, err)
		assert.Nil(t, retrieved)
	})
}

func TestTournamentRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	tournamentRepo := NewTournamentRepository(st.Storage)

	// Given: a stored tournament
	tournament := entity.NewTournament("t1", "Friday Cup", "alice", 8, "")
	err := tournamentRepo.CreateOrUpdate(ctx, tournament)
	require.NoError(t, err)

	// When: DeleteByID is called
	err = tournamentRepo.DeleteByID(ctx, tournament.ID)
	require.NoError(t, err)

	_, err = tournamentRepo.GetByID(ctx, tournament.ID)
	require.Error(t, err)
	assert.Equal(t, ErrTournamentNotFound, err)
}
