package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memorySessionSnapshots is an in-memory stand-in for the redis session
// mirror.
type memorySessionSnapshots struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	deleted  []string
}

func newMemorySessionSnapshots() *memorySessionSnapshots {
	return &memorySessionSnapshots{sessions: make(map[string]*entity.Session)}
}

func (that *memorySessionSnapshots) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = session.Clone()

	return nil
}

func (that *memorySessionSnapshots) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)
	that.deleted = append(that.deleted, id)

	return nil
}

type memoryTournamentSnapshots struct {
	mu          sync.Mutex
	tournaments map[string]*entity.Tournament
}

func newMemoryTournamentSnapshots() *memoryTournamentSnapshots {
	return &memoryTournamentSnapshots{tournaments: make(map[string]*entity.Tournament)}
}

func (that *memoryTournamentSnapshots) CreateOrUpdate(_ context.Context, tournament *entity.Tournament) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.tournaments[tournament.ID] = tournament.Clone()

	return nil
}

// memoryStats records the deltas applied per user.
type memoryStats struct {
	mu     sync.Mutex
	deltas map[string][]entity.StatsDelta
}

func newMemoryStats() *memoryStats {
	return &memoryStats{deltas: make(map[string][]entity.StatsDelta)}
}

func (that *memoryStats) ApplyDelta(_ context.Context, userID string, delta entity.StatsDelta) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.deltas[userID] = append(that.deltas[userID], delta)

	return nil
}

func (that *memoryStats) deltasFor(userID string) []entity.StatsDelta {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.StatsDelta(nil), that.deltas[userID]...)
}

type memoryHistory struct {
	mu      sync.Mutex
	records []*entity.HistoryRecord
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{}
}

func (that *memoryHistory) Append(_ context.Context, record *entity.HistoryRecord) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.records = append(that.records, record)

	return nil
}

func (that *memoryHistory) all() []*entity.HistoryRecord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]*entity.HistoryRecord(nil), that.records...)
}
