package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/botwalain/tictactoe-tgbot/internal/ai"
	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/pkg"
	"github.com/botwalain/tictactoe-tgbot/internal/tictactoe"
)

const janitorInterval = time.Minute

type sessionSnapshotRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	DeleteByID(ctx context.Context, id string) error
}

type statsGateway interface {
	ApplyDelta(ctx context.Context, userID string, delta entity.StatsDelta) error
}

type historyGateway interface {
	Append(ctx context.Context, record *entity.HistoryRecord) error
}

// tournamentAdvancer receives terminal tournament sessions. Implemented by
// the tournament manager; wired after construction to break the cycle
// (the manager creates its match sessions through this registry).
type tournamentAdvancer interface {
	AdvanceFromSession(ctx context.Context, ref entity.TournamentRef, session *entity.Session)
}

// CreateSpec describes a session to be created. Opponent is set for
// pairings already decided (quick match, tournament match); friend
// sessions start with an empty second slot.
type CreateSpec struct {
	Creator       string
	Mode          string
	Difficulty    string
	Opponent      string
	TournamentRef *entity.TournamentRef
}

// MoveOutcome is the result of a mutating session operation. Spectators is
// populated on terminal transitions, where the registry entry (and its
// observer set) is already gone by the time the caller renders.
type MoveOutcome struct {
	Session    *entity.Session
	Spectators []string
}

// HintOutcome is a read-only suggestion from the exhaustive-search tier.
type HintOutcome struct {
	Row       int
	Col       int
	Remaining int
}

// SessionRegistry owns all active sessions and serializes every mutation
// per session id. Operations on different ids never block each other.
type SessionRegistry interface {
	Create(ctx context.Context, spec CreateSpec) (*entity.Session, error)
	Get(id string) (*entity.Session, error)
	JoinFriend(ctx context.Context, sessionID, joiner string) (*entity.Session, error)
	ApplyMove(ctx context.Context, sessionID, actor string, row, col int) (*MoveOutcome, error)
	Undo(ctx context.Context, sessionID, actor string) (*entity.Session, error)
	Resign(ctx context.Context, sessionID, actor string) (*MoveOutcome, error)
	Hint(ctx context.Context, sessionID, actor string) (*HintOutcome, error)
	Destroy(ctx context.Context, id string)
	AttachSpectator(sessionID, observer string) (*entity.Session, error)
	ListSpectatable() []*entity.Session
	SetTournamentAdvancer(advancer tournamentAdvancer)
	StartJanitor(ctx context.Context)
}

type sessionEntry struct {
	mu      sync.Mutex
	session *entity.Session
	engine  ai.Engine
}

type sessionRegistry struct {
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*sessionEntry

	hintEngine ai.Engine

	spectators SpectatorRegistry
	snapshots  sessionSnapshotRepo
	stats      statsGateway
	history    historyGateway
	advancer   tournamentAdvancer

	inviteTTL time.Duration
}

func NewSessionRegistry(
	logger *slog.Logger,
	spectators SpectatorRegistry,
	snapshots sessionSnapshotRepo,
	stats statsGateway,
	history historyGateway,
	inviteTTL time.Duration,
) SessionRegistry {
	hintEngine, _ := ai.ForDifficulty(entity.DifficultyHard)

	return &sessionRegistry{
		logger:     logger,
		entries:    make(map[string]*sessionEntry),
		hintEngine: hintEngine,
		spectators: spectators,
		snapshots:  snapshots,
		stats:      stats,
		history:    history,
		inviteTTL:  inviteTTL,
	}
}

func (that *sessionRegistry) SetTournamentAdvancer(advancer tournamentAdvancer) {
	that.advancer = advancer
}

func (that *sessionRegistry) Create(ctx context.Context, spec CreateSpec) (*entity.Session, error) {
	id, err := pkg.GenerateShortID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := entity.NewSession(id, spec.Mode, spec.Creator)
	session.TournamentRef = spec.TournamentRef

	var engine ai.Engine

	switch {
	case spec.Mode == entity.ModeVsAI:
		engine, err = ai.ForDifficulty(spec.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("failed to pick engine: %w", err)
		}

		session.Difficulty = spec.Difficulty
		session.SeatOpponent(entity.AIPlayerID)
	case spec.Opponent != "":
		session.SeatOpponent(spec.Opponent)
	}

	that.mu.Lock()
	that.entries[id] = &sessionEntry{session: session, engine: engine}
	that.mu.Unlock()

	that.saveSnapshot(ctx, session)

	return session.Clone(), nil
}

func (that *sessionRegistry) Get(id string) (*entity.Session, error) {
	entry, err := that.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.session.Clone(), nil
}

func (that *sessionRegistry) JoinFriend(ctx context.Context, sessionID, joiner string) (*entity.Session, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session

	if session.HasPlayer(joiner) {
		return nil, apperror.ErrSelfJoin
	}

	if !session.IsWaiting() || len(session.Players) >= 2 {
		return nil, apperror.ErrAlreadyFull
	}

	session.SeatOpponent(joiner)

	that.saveSnapshot(ctx, session)

	return session.Clone(), nil
}

func (that *sessionRegistry) ApplyMove(ctx context.Context, sessionID, actor string, row, col int) (*MoveOutcome, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session

	if err = tictactoe.ApplyMove(session, actor, row, col); err != nil {
		return nil, err
	}

	// Keep the session human-actionable: the engine replies inside the
	// same critical section, through the same validated path.
	if session.IsInProgress() && session.IsVsAI() && session.Turn == entity.AIPlayerID {
		if err = that.applyEngineMove(entry); err != nil {
			return nil, err
		}
	}

	if session.IsTerminal() {
		return that.finalize(ctx, session), nil
	}

	that.saveSnapshot(ctx, session)

	return &MoveOutcome{Session: session.Clone()}, nil
}

func (that *sessionRegistry) Undo(ctx context.Context, sessionID, actor string) (*entity.Session, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session

	if !session.HasPlayer(actor) {
		return nil, apperror.ErrNotYourTurn
	}

	if err = tictactoe.Undo(session, actor); err != nil {
		return nil, err
	}

	that.saveSnapshot(ctx, session)

	return session.Clone(), nil
}

func (that *sessionRegistry) Resign(ctx context.Context, sessionID, actor string) (*MoveOutcome, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session

	if !session.HasPlayer(actor) {
		return nil, apperror.ErrNotYourTurn
	}

	// Abandoning an invite nobody joined is a plain teardown; there is no
	// opponent to award and nothing to score or record.
	if session.IsWaiting() {
		session.Status = entity.StatusResigned
		session.ResignedBy = actor

		outcome := &MoveOutcome{Session: session.Clone()}
		that.Destroy(ctx, session.ID)

		return outcome, nil
	}

	if err = tictactoe.Resign(session, actor); err != nil {
		return nil, err
	}

	return that.finalize(ctx, session), nil
}

// Hint runs the exhaustive-search tier read-only against the actor's mark.
func (that *sessionRegistry) Hint(ctx context.Context, sessionID, actor string) (*HintOutcome, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	session := entry.session

	if !session.IsInProgress() {
		return nil, apperror.ErrGameIsNotStarted
	}

	if !session.HasPlayer(actor) {
		return nil, apperror.ErrNotYourTurn
	}

	if session.HintsLeft[actor] <= 0 {
		return nil, apperror.ErrExhaustedHints
	}

	cell, err := that.hintEngine.SelectMove(session.Board, session.Symbols[actor])
	if err != nil {
		return nil, fmt.Errorf("failed to compute hint: %w", err)
	}

	session.HintsLeft[actor]--

	that.saveSnapshot(ctx, session)

	return &HintOutcome{
		Row:       cell / entity.BoardSize,
		Col:       cell % entity.BoardSize,
		Remaining: session.HintsLeft[actor],
	}, nil
}

func (that *sessionRegistry) Destroy(ctx context.Context, id string) {
	that.mu.Lock()
	delete(that.entries, id)
	that.mu.Unlock()

	that.spectators.DropSession(id)
	that.deleteSnapshot(ctx, id)
}

// AttachSpectator subscribes observer under the session entry's lock, so a
// game finishing concurrently can never leave a watcher on a dead id.
func (that *sessionRegistry) AttachSpectator(sessionID, observer string) (*entity.Session, error) {
	entry, err := that.lookup(sessionID)
	if err != nil {
		return nil, apperror.ErrNotSpectatable
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err = that.spectators.Attach(entry.session, observer); err != nil {
		return nil, err
	}

	return entry.session.Clone(), nil
}

// ListSpectatable returns in-progress sessions between two human players.
func (that *sessionRegistry) ListSpectatable() []*entity.Session {
	that.mu.RLock()
	entries := make([]*sessionEntry, 0, len(that.entries))
	for _, entry := range that.entries {
		entries = append(entries, entry)
	}
	that.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(entries))

	for _, entry := range entries {
		entry.mu.Lock()
		if entry.session.IsInProgress() && !entry.session.IsVsAI() && len(entry.session.HumanPlayers()) == 2 {
			sessions = append(sessions, entry.session.Clone())
		}
		entry.mu.Unlock()
	}

	return sessions
}

// StartJanitor evicts friend sessions that never got a second participant
// within the invite TTL.
func (that *sessionRegistry) StartJanitor(ctx context.Context) {
	log := that.logger.With("component", "session-janitor")

	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, id := range that.expiredInvites() {
					log.Info("evicting expired invite", "sessionID", id)
					that.Destroy(ctx, id)
				}
			}
		}
	}()
}

// expiredInvites snapshots the entries under the registry lock and only then
// inspects each one. Holding the registry lock across entry locks would
// deadlock against a terminal transition, which holds its entry lock while
// Destroy waits for the registry.
func (that *sessionRegistry) expiredInvites() []string {
	that.mu.RLock()
	entries := make([]*sessionEntry, 0, len(that.entries))
	for _, entry := range that.entries {
		entries = append(entries, entry)
	}
	that.mu.RUnlock()

	deadline := time.Now().Add(-that.inviteTTL)

	var expired []string

	for _, entry := range entries {
		entry.mu.Lock()
		if entry.session.IsWaiting() && entry.session.Mode == entity.ModeVsFriend && entry.session.CreatedAt.Before(deadline) {
			expired = append(expired, entry.session.ID)
		}
		entry.mu.Unlock()
	}

	return expired
}

func (that *sessionRegistry) lookup(id string) (*sessionEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.entries[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return entry, nil
}

func (that *sessionRegistry) applyEngineMove(entry *sessionEntry) error {
	session := entry.session

	cell, err := entry.engine.SelectMove(session.Board, session.Symbols[entity.AIPlayerID])
	if err != nil {
		return fmt.Errorf("engine failed to pick a move: %w", err)
	}

	if err = tictactoe.ApplyMove(session, entity.AIPlayerID, cell/entity.BoardSize, cell%entity.BoardSize); err != nil {
		return fmt.Errorf("engine failed to make turn: %w", err)
	}

	return nil
}

// finalize runs the terminal side effects in order: history persistence,
// stats deltas, tournament advancement, spectator capture, registry
// removal. Persistence failures are logged and never roll back the result.
func (that *sessionRegistry) finalize(ctx context.Context, session *entity.Session) *MoveOutcome {
	log := that.logger.With("method", "finalize", "sessionID", session.ID)

	that.persistHistory(ctx, log, session)
	that.applyStats(ctx, log, session)

	if session.TournamentRef != nil && that.advancer != nil {
		that.advancer.AdvanceFromSession(ctx, *session.TournamentRef, session.Clone())
	}

	outcome := &MoveOutcome{
		Session:    session.Clone(),
		Spectators: that.spectators.ListFor(session.ID),
	}

	that.Destroy(ctx, session.ID)

	return outcome
}

func (that *sessionRegistry) persistHistory(ctx context.Context, log *slog.Logger, session *entity.Session) {
	boardJSON, err := json.Marshal(session.Board)
	if err != nil {
		log.Error("failed to marshal board", "error", err)
		boardJSON = []byte("[]")
	}

	record := &entity.HistoryRecord{
		SessionID:  session.ID,
		Player1:    session.Players[0],
		WinnerID:   session.Winner,
		Mode:       session.Mode,
		Duration:   int(time.Since(session.CreatedAt).Seconds()),
		MoveCount:  len(session.Moves),
		BoardState: string(boardJSON),
	}
	if len(session.Players) > 1 {
		record.Player2 = session.Players[1]
	}

	if err = that.history.Append(ctx, record); err != nil {
		log.Error("failed to append history record", "error", err)
	}
}

func (that *sessionRegistry) applyStats(ctx context.Context, log *slog.Logger, session *entity.Session) {
	for _, player := range session.HumanPlayers() {
		var delta entity.StatsDelta

		switch {
		case session.Status == entity.StatusDrawn:
			delta.Draws = 1
		case session.Winner == player:
			delta.Wins = 1
		default:
			delta.Losses = 1
		}

		if err := that.stats.ApplyDelta(ctx, player, delta); err != nil {
			log.Error("failed to update stats", "player", player, "error", err)
		}
	}
}

func (that *sessionRegistry) saveSnapshot(ctx context.Context, session *entity.Session) {
	if err := that.snapshots.CreateOrUpdate(ctx, session); err != nil {
		that.logger.Error("failed to save session snapshot", "sessionID", session.ID, "error", err)
	}
}

func (that *sessionRegistry) deleteSnapshot(ctx context.Context, id string) {
	if err := that.snapshots.DeleteByID(ctx, id); err != nil {
		that.logger.Error("failed to delete session snapshot", "sessionID", id, "error", err)
	}
}
