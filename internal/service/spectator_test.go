package service

import (
	"testing"

	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchableSession() *entity.Session {
	session := entity.NewSession("abc123", entity.ModeVsFriend, "alice")
	session.SeatOpponent("bob")
	return session
}

func TestSpectatorRegistry_Attach(t *testing.T) {
	t.Run("Attach", func(t *testing.T) {
		registry := NewSpectatorRegistry()
		session := newWatchableSession()

		// When: carol attaches
		err := registry.Attach(session, "carol")
		require.NoError(t, err)

		// Then: she is listed as an observer
		require.Equal(t, []string{"carol"}, registry.ListFor(session.ID))
	})

	t.Run("Error on AI session", func(t *testing.T) {
		registry := NewSpectatorRegistry()
		session := entity.NewSession("abc123", entity.ModeVsAI, "alice")
		session.SeatOpponent(entity.AIPlayerID)

		err := registry.Attach(session, "carol")

		require.ErrorIs(t, err, apperror.ErrNotSpectatable)
	})

	t.Run("Error on terminal session", func(t *testing.T) {
		registry := NewSpectatorRegistry()
		session := newWatchableSession()
		session.Status = entity.StatusWon

		err := registry.Attach(session, "carol")

		require.ErrorIs(t, err, apperror.ErrNotSpectatable)
	})

	t.Run("Error on unknown session", func(t *testing.T) {
		registry := NewSpectatorRegistry()

		err := registry.Attach(nil, "carol")

		require.ErrorIs(t, err, apperror.ErrNotSpectatable)
	})
}

func TestSpectatorRegistry_Detach(t *testing.T) {
	registry := NewSpectatorRegistry()
	session := newWatchableSession()
	require.NoError(t, registry.Attach(session, "carol"))

	// When: carol detaches twice
	registry.Detach(session.ID, "carol")
	registry.Detach(session.ID, "carol")

	// Then: the observer set is empty and the second call was a no-op
	require.Empty(t, registry.ListFor(session.ID))
}

func TestSpectatorRegistry_BroadcastOn(t *testing.T) {
	registry := NewSpectatorRegistry()
	session := newWatchableSession()
	require.NoError(t, registry.Attach(session, "carol"))
	require.NoError(t, registry.Attach(session, "dave"))

	// When: a broadcast renders per observer
	instructions := registry.BroadcastOn(session.ID, func(observer string) entity.RenderInstruction {
		return entity.RenderInstruction{For: observer}
	})

	// Then: every observer got exactly one instruction
	require.Len(t, instructions, 2)

	observers := []string{instructions[0].For, instructions[1].For}
	assert.ElementsMatch(t, []string{"carol", "dave"}, observers)
}

func TestSpectatorRegistry_DropSession(t *testing.T) {
	registry := NewSpectatorRegistry()
	session := newWatchableSession()
	require.NoError(t, registry.Attach(session, "carol"))

	// When: the session's observer set is dropped
	registry.DropSession(session.ID)

	require.Empty(t, registry.ListFor(session.ID))
}
