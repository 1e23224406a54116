package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/pkg"
)

type tournamentSnapshotRepo interface {
	CreateOrUpdate(ctx context.Context, tournament *entity.Tournament) error
}

type sessionCreator interface {
	Create(ctx context.Context, spec CreateSpec) (*entity.Session, error)
}

// TournamentManager owns the bracket aggregates and serializes mutations
// per tournament id. Completed tournaments are kept for historical query.
type TournamentManager interface {
	Create(ctx context.Context, creator, name string, maxPlayers int, prize string) (*entity.Tournament, error)
	Join(ctx context.Context, id, participant string) (*entity.Tournament, error)
	Start(ctx context.Context, id, requester string) (*entity.Tournament, error)
	Advance(ctx context.Context, id, matchWinner string) error
	Info(id string) (*entity.Tournament, error)
	ListActive() []entity.TournamentSummary

	AdvanceFromSession(ctx context.Context, ref entity.TournamentRef, session *entity.Session)
}

type tournamentEntry struct {
	mu         sync.Mutex
	tournament *entity.Tournament
}

type tournamentManager struct {
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*tournamentEntry

	sessions  sessionCreator
	snapshots tournamentSnapshotRepo
	stats     statsGateway

	admins map[string]struct{}
}

func NewTournamentManager(
	logger *slog.Logger,
	sessions sessionCreator,
	snapshots tournamentSnapshotRepo,
	stats statsGateway,
	adminIDs []string,
) TournamentManager {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &tournamentManager{
		logger:    logger,
		entries:   make(map[string]*tournamentEntry),
		sessions:  sessions,
		snapshots: snapshots,
		stats:     stats,
		admins:    admins,
	}
}

// Create registers a waiting tournament with the creator already joined.
// Only configured admins may open one.
func (that *tournamentManager) Create(ctx context.Context, creator, name string, maxPlayers int, prize string) (*entity.Tournament, error) {
	if !that.isAdmin(creator) {
		return nil, apperror.ErrUnauthorized
	}

	id, err := pkg.GenerateShortID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tournament id: %w", err)
	}

	tournament := entity.NewTournament(id, name, creator, maxPlayers, prize)

	that.mu.Lock()
	that.entries[id] = &tournamentEntry{tournament: tournament}
	that.mu.Unlock()

	that.saveSnapshot(ctx, tournament)

	return tournament.Clone(), nil
}

func (that *tournamentManager) Join(ctx context.Context, id, participant string) (*entity.Tournament, error) {
	entry, err := that.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	tournament := entry.tournament

	if !tournament.IsWaiting() {
		return nil, apperror.ErrAlreadyStarted
	}

	if len(tournament.Participants) >= tournament.MaxPlayers {
		return nil, apperror.ErrTournamentFull
	}

	if tournament.HasParticipant(participant) {
		return nil, apperror.ErrAlreadyJoined
	}

	tournament.Participants = append(tournament.Participants, participant)

	that.saveSnapshot(ctx, tournament)

	return tournament.Clone(), nil
}

// Start shuffles the participants, materializes round 1, and instantiates
// a session per match through the session registry.
func (that *tournamentManager) Start(ctx context.Context, id, requester string) (*entity.Tournament, error) {
	entry, err := that.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	tournament := entry.tournament

	if !tournament.IsWaiting() {
		return nil, apperror.ErrAlreadyStarted
	}

	if requester != tournament.Creator && !that.isAdmin(requester) {
		return nil, apperror.ErrUnauthorized
	}

	if len(tournament.Participants) < 2 {
		return nil, apperror.ErrInsufficientPlayers
	}

	pool := append([]string(nil), tournament.Participants...)
	rand.Shuffle(len(pool), func(i, j int) { //nolint: gosec // it's ok
		pool[i], pool[j] = pool[j], pool[i]
	})

	tournament.Status = entity.TournamentActive

	that.pairRound(ctx, tournament, pool, 1)

	that.saveSnapshot(ctx, tournament)

	return tournament.Clone(), nil
}

// Advance records a match winner and, once the round completes, either
// crowns the champion or generates the next round.
func (that *tournamentManager) Advance(ctx context.Context, id, matchWinner string) error {
	entry, err := that.lookup(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return that.advanceLocked(ctx, entry.tournament, matchWinner)
}

// AdvanceFromSession reacts to a terminal tournament session. A drawn match
// is replayed with a fresh session; a decided one advances the bracket.
func (that *tournamentManager) AdvanceFromSession(ctx context.Context, ref entity.TournamentRef, session *entity.Session) {
	log := that.logger.With("method", "AdvanceFromSession", "tournamentID", ref.TournamentID)

	entry, err := that.lookup(ref.TournamentID)
	if err != nil {
		log.Error("terminal session for unknown tournament", "sessionID", session.ID)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	tournament := entry.tournament

	if session.Winner == "" {
		that.replayMatch(ctx, tournament, ref)
		return
	}

	if err = that.advanceLocked(ctx, tournament, session.Winner); err != nil {
		log.Error("failed to advance tournament", "error", err)
	}
}

func (that *tournamentManager) Info(id string) (*entity.Tournament, error) {
	entry, err := that.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.tournament.Clone(), nil
}

// ListActive returns waiting and active tournaments, newest first.
func (that *tournamentManager) ListActive() []entity.TournamentSummary {
	that.mu.RLock()
	entries := make([]*tournamentEntry, 0, len(that.entries))
	for _, entry := range that.entries {
		entries = append(entries, entry)
	}
	that.mu.RUnlock()

	summaries := make([]entity.TournamentSummary, 0, len(entries))

	for _, entry := range entries {
		entry.mu.Lock()
		tournament := entry.tournament
		if !tournament.IsCompleted() {
			summaries = append(summaries, entity.TournamentSummary{
				ID:             tournament.ID,
				Name:           tournament.Name,
				Creator:        tournament.Creator,
				Status:         tournament.Status,
				CurrentPlayers: len(tournament.Participants),
				MaxPlayers:     tournament.MaxPlayers,
				Prize:          tournament.Prize,
				CreatedAt:      tournament.CreatedAt,
			})
		}
		entry.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CreatedAt.After(summaries[j].CreatedAt) })

	return summaries
}

func (that *tournamentManager) lookup(id string) (*tournamentEntry, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.entries[id]
	if !ok {
		return nil, apperror.ErrTournamentNotFound
	}

	return entry, nil
}

func (that *tournamentManager) isAdmin(id string) bool {
	_, ok := that.admins[id]
	return ok
}

func (that *tournamentManager) advanceLocked(ctx context.Context, tournament *entity.Tournament, matchWinner string) error {
	if !tournament.IsActive() {
		return apperror.ErrTournamentNotActive
	}

	round := tournament.CurrentRound

	for _, match := range tournament.Bracket[round] {
		if match.Status == entity.MatchCompleted {
			continue
		}
		if match.Player1 == matchWinner || match.Player2 == matchWinner {
			match.Winner = matchWinner
			match.Status = entity.MatchCompleted
			break
		}
	}

	if tournament.RoundComplete(round) {
		that.closeRound(ctx, tournament, round)
	}

	that.saveSnapshot(ctx, tournament)

	return nil
}

// closeRound promotes the survivor pool: a single survivor completes the
// tournament, otherwise the next round is paired from byes and winners.
func (that *tournamentManager) closeRound(ctx context.Context, tournament *entity.Tournament, round int) {
	survivors := tournament.Survivors(round)

	if len(survivors) == 1 {
		tournament.Status = entity.TournamentCompleted
		tournament.Champion = survivors[0]

		delta := entity.StatsDelta{TournamentWins: 1}
		if err := that.stats.ApplyDelta(ctx, tournament.Champion, delta); err != nil {
			that.logger.Error("failed to record tournament win", "champion", tournament.Champion, "error", err)
		}

		return
	}

	tournament.CurrentRound = round + 1

	that.pairRound(ctx, tournament, survivors, tournament.CurrentRound)
}

// pairRound pairs the pool consecutively into matches for the round; an
// odd pool carries its last entry as a bye into the next round.
func (that *tournamentManager) pairRound(ctx context.Context, tournament *entity.Tournament, pool []string, round int) {
	for i := 0; i+1 < len(pool); i += 2 {
		tournament.Bracket[round] = append(tournament.Bracket[round], &entity.Match{
			Player1: pool[i],
			Player2: pool[i+1],
			Status:  entity.MatchPending,
		})
	}

	if len(pool)%2 == 1 {
		tournament.Byes[round] = append(tournament.Byes[round], pool[len(pool)-1])
	}

	for index, match := range tournament.Bracket[round] {
		that.openMatchSession(ctx, tournament, round, index, match)
	}
}

func (that *tournamentManager) openMatchSession(ctx context.Context, tournament *entity.Tournament, round, index int, match *entity.Match) {
	session, err := that.sessions.Create(ctx, CreateSpec{
		Creator:  match.Player1,
		Opponent: match.Player2,
		Mode:     entity.ModeGroupTable,
		TournamentRef: &entity.TournamentRef{
			TournamentID: tournament.ID,
			Round:        round,
			MatchIndex:   index,
		},
	})
	if err != nil {
		that.logger.Error("failed to open match session",
			"tournamentID", tournament.ID, "round", round, "match", index, "error", err)
		return
	}

	match.SessionID = session.ID
}

// replayMatch reopens a drawn match with a fresh session.
func (that *tournamentManager) replayMatch(ctx context.Context, tournament *entity.Tournament, ref entity.TournamentRef) {
	matches := tournament.Bracket[ref.Round]
	if ref.MatchIndex >= len(matches) {
		return
	}

	match := matches[ref.MatchIndex]
	if match.Status == entity.MatchCompleted {
		return
	}

	that.openMatchSession(ctx, tournament, ref.Round, ref.MatchIndex, match)
	that.saveSnapshot(ctx, tournament)
}

func (that *tournamentManager) saveSnapshot(ctx context.Context, tournament *entity.Tournament) {
	if err := that.snapshots.CreateOrUpdate(ctx, tournament); err != nil {
		that.logger.Error("failed to save tournament snapshot", "tournamentID", tournament.ID, "error", err)
	}
}
