package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	// Given: a fresh session created by alice
	session := NewSession("abc123", ModeVsFriend, "alice")

	// Then: alice is seated as X, it is her turn, and the session waits
	require.Equal(t, "abc123", session.ID)
	require.Equal(t, []string{"alice"}, session.Players)
	require.Equal(t, MarkX, session.Symbols["alice"])
	require.Equal(t, "alice", session.Turn)
	require.Equal(t, StatusWaiting, session.Status)
	require.Equal(t, HintAllowance, session.HintsLeft["alice"])
	assert.False(t, session.CreatedAt.IsZero())
}

func TestSession_SeatOpponent(t *testing.T) {
	// Given: a waiting session
	session := NewSession("abc123", ModeVsFriend, "alice")

	// When: bob takes the second seat
	session.SeatOpponent("bob")

	// Then: bob is O, the session is in progress, and alice still opens
	require.Equal(t, []string{"alice", "bob"}, session.Players)
	require.Equal(t, MarkO, session.Symbols["bob"])
	require.Equal(t, StatusInProgress, session.Status)
	require.Equal(t, "alice", session.Turn)
	require.Equal(t, HintAllowance, session.HintsLeft["bob"])
}

func TestSession_Opponent(t *testing.T) {
	session := NewSession("abc123", ModeVsFriend, "alice")

	// Then: no opponent while the seat is empty
	require.Empty(t, session.Opponent("alice"))

	session.SeatOpponent("bob")

	require.Equal(t, "bob", session.Opponent("alice"))
	require.Equal(t, "alice", session.Opponent("bob"))
}

func TestSession_IsTerminal(t *testing.T) {
	session := NewSession("abc123", ModeVsFriend, "alice")
	session.SeatOpponent("bob")

	require.False(t, session.IsTerminal())

	for _, status := range []string{StatusWon, StatusDrawn, StatusResigned} {
		session.Status = status
		require.True(t, session.IsTerminal(), status)
	}
}

func TestSession_Clone(t *testing.T) {
	// Given: an in-progress session with one move recorded
	session := NewSession("abc123", ModeVsFriend, "alice")
	session.SeatOpponent("bob")
	session.Board[4] = MarkX
	session.Moves = append(session.Moves, Move{Actor: "alice", Row: 1, Col: 1})
	session.TournamentRef = &TournamentRef{TournamentID: "t1", Round: 1, MatchIndex: 0}

	// When: the session is cloned and the clone mutated
	clone := session.Clone()
	clone.Board[0] = MarkO
	clone.Moves = append(clone.Moves, Move{Actor: "bob", Row: 0, Col: 0})
	clone.Symbols["carol"] = MarkO
	clone.HintsLeft["alice"] = 0
	clone.TournamentRef.Round = 2

	// Then: the original is untouched
	require.Equal(t, EmptyCell, session.Board[0])
	require.Len(t, session.Moves, 1)
	require.NotContains(t, session.Symbols, "carol")
	require.Equal(t, HintAllowance, session.HintsLeft["alice"])
	require.Equal(t, 1, session.TournamentRef.Round)
}

func TestSession_HumanPlayers(t *testing.T) {
	session := NewSession("abc123", ModeVsAI, "alice")
	session.SeatOpponent(AIPlayerID)

	// Then: the AI seat is excluded
	require.Equal(t, []string{"alice"}, session.HumanPlayers())
	assert.True(t, session.IsVsAI())
}
