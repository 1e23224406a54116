package tictactoe

import (
	"testing"

	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *entity.Session {
	session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")
	session.SeatOpponent("bob")
	return session
}

func TestApplyMove(t *testing.T) {
	t.Run("ApplyMove", func(t *testing.T) {
		// Given: an in-progress session with alice to move
		session := newTestSession()

		// When: alice plays the center
		err := ApplyMove(session, "alice", 1, 1)
		require.NoError(t, err)

		// Then: the mark lands row-major and the turn flips to bob
		require.Equal(t, entity.MarkX, session.Board[4])
		require.Equal(t, "bob", session.Turn)
		require.Len(t, session.Moves, 1)
		require.Equal(t, entity.Move{Actor: "alice", Row: 1, Col: 1, At: session.Moves[0].At}, session.Moves[0])
	})

	t.Run("Error when game is not started", func(t *testing.T) {
		// Given: a session still waiting for an opponent
		session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")

		// When: alice tries to move
		err := ApplyMove(session, "alice", 0, 0)

		// Then: ErrGameIsNotStarted is returned and the board stays empty
		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
		require.Empty(t, session.Moves)
	})

	t.Run("Error when not your turn", func(t *testing.T) {
		session := newTestSession()

		// When: bob moves out of turn
		err := ApplyMove(session, "bob", 0, 0)

		// Then: ErrNotYourTurn is returned
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		session := newTestSession()

		require.NoError(t, ApplyMove(session, "alice", 0, 0))

		// When: bob plays the same cell
		err := ApplyMove(session, "bob", 0, 0)

		// Then: ErrCellOccupied is returned and the cell keeps alice's mark
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		require.Equal(t, entity.MarkX, session.Board[0])
	})

	t.Run("Error on out of range coordinates", func(t *testing.T) {
		session := newTestSession()

		err := ApplyMove(session, "alice", 3, 0)

		require.ErrorIs(t, err, ErrInvalidCell)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		session := newTestSession()
		session.Status = entity.StatusWon
		session.Winner = "alice"

		err := ApplyMove(session, "bob", 2, 2)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestApplyMove_Outcomes(t *testing.T) {
	t.Run("Top row win", func(t *testing.T) {
		// Given: alice holds two of the top row with scattered O marks
		session := newTestSession()
		session.Board = [9]string{
			entity.MarkX, entity.MarkX, entity.EmptyCell,
			entity.EmptyCell, entity.MarkO, entity.EmptyCell,
			entity.MarkO, entity.EmptyCell, entity.MarkO,
		}

		// When: alice completes the row
		err := ApplyMove(session, "alice", 0, 2)
		require.NoError(t, err)

		// Then: the session is won by alice and the turn is cleared
		require.Equal(t, entity.StatusWon, session.Status)
		require.Equal(t, "alice", session.Winner)
		require.Empty(t, session.Turn)
	})

	t.Run("Diagonal win", func(t *testing.T) {
		// Given: bob holds the anti-diagonal corners
		session := newTestSession()
		session.Turn = "bob"
		session.Board = [9]string{
			entity.MarkX, entity.MarkX, entity.MarkO,
			entity.EmptyCell, entity.EmptyCell, entity.MarkX,
			entity.MarkO, entity.EmptyCell, entity.EmptyCell,
		}

		// When: bob takes the center
		err := ApplyMove(session, "bob", 1, 1)
		require.NoError(t, err)

		require.Equal(t, entity.StatusWon, session.Status)
		require.Equal(t, "bob", session.Winner)
	})

	t.Run("Draw on full board", func(t *testing.T) {
		// Given: one empty cell left and no winning line available
		session := newTestSession()
		session.Board = [9]string{
			entity.MarkX, entity.MarkO, entity.MarkX,
			entity.MarkX, entity.MarkO, entity.MarkO,
			entity.MarkO, entity.MarkX, entity.EmptyCell,
		}

		// When: alice fills the last cell
		err := ApplyMove(session, "alice", 2, 2)
		require.NoError(t, err)

		// Then: the session ends drawn with no winner
		require.Equal(t, entity.StatusDrawn, session.Status)
		require.Empty(t, session.Winner)
		require.Empty(t, session.Turn)
	})
}

func TestUndo(t *testing.T) {
	t.Run("Undo removes one move per player", func(t *testing.T) {
		// Given: three moves on the board
		session := newTestSession()
		require.NoError(t, ApplyMove(session, "alice", 0, 0))
		require.NoError(t, ApplyMove(session, "bob", 1, 1))
		require.NoError(t, ApplyMove(session, "alice", 2, 2))

		// When: bob undoes
		err := Undo(session, "bob")
		require.NoError(t, err)

		// Then: the last two moves are gone and bob moves next
		require.Len(t, session.Moves, 1)
		require.Equal(t, entity.MarkX, session.Board[0])
		require.Equal(t, entity.EmptyCell, session.Board[4])
		require.Equal(t, entity.EmptyCell, session.Board[8])
		require.Equal(t, "bob", session.Turn)
	})

	t.Run("Error with fewer than two moves", func(t *testing.T) {
		session := newTestSession()
		require.NoError(t, ApplyMove(session, "alice", 0, 0))

		err := Undo(session, "bob")

		require.ErrorIs(t, err, apperror.ErrInsufficientHistory)
		require.Len(t, session.Moves, 1)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		session := newTestSession()
		session.Status = entity.StatusDrawn

		err := Undo(session, "alice")

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestResign(t *testing.T) {
	t.Run("Resign hands the win to the opponent", func(t *testing.T) {
		session := newTestSession()

		err := Resign(session, "alice")
		require.NoError(t, err)

		require.Equal(t, entity.StatusResigned, session.Status)
		require.Equal(t, "alice", session.ResignedBy)
		require.Equal(t, "bob", session.Winner)
		require.Empty(t, session.Turn)
	})

	t.Run("Error on finished game", func(t *testing.T) {
		session := newTestSession()
		session.Status = entity.StatusWon
		session.Winner = "bob"

		err := Resign(session, "alice")

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		require.Equal(t, "bob", session.Winner)
	})
}

func TestHasWin(t *testing.T) {
	board := [9]string{
		entity.MarkX, entity.MarkX, entity.MarkX,
		entity.EmptyCell, entity.MarkO, entity.EmptyCell,
		entity.MarkO, entity.EmptyCell, entity.MarkO,
	}

	assert.True(t, HasWin(board, entity.MarkX))
	assert.False(t, HasWin(board, entity.MarkO))
}

func TestCellIndex(t *testing.T) {
	// Then: coordinates map row-major onto the flat board
	require.Equal(t, 0, CellIndex(0, 0))
	require.Equal(t, 4, CellIndex(1, 1))
	require.Equal(t, 5, CellIndex(1, 2))
	require.Equal(t, 8, CellIndex(2, 2))
}
