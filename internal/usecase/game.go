package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/service"
)

// GameUseCase routes inbound events into the registries and answers with
// render instructions for every affected observer. It is the seam the
// external transport dispatcher attaches to.
type GameUseCase interface {
	StartSession(ctx context.Context, requester, mode, difficulty string) ([]entity.RenderInstruction, error)
	JoinFriendSession(ctx context.Context, sessionID, joiner string) ([]entity.RenderInstruction, error)
	SubmitMove(ctx context.Context, sessionID, actor string, row, col int) ([]entity.RenderInstruction, error)
	RequestHint(ctx context.Context, sessionID, actor string) (*service.HintOutcome, error)
	RequestUndo(ctx context.Context, sessionID, actor string) ([]entity.RenderInstruction, error)
	Resign(ctx context.Context, sessionID, actor string) ([]entity.RenderInstruction, error)

	EnqueueQuickMatch(ctx context.Context, requester string) ([]entity.RenderInstruction, error)
	CancelQuickMatch(requester string) bool

	CreateTournament(ctx context.Context, creator, name string, maxPlayers int, prize string) (*entity.Tournament, error)
	JoinTournament(ctx context.Context, tournamentID, participant string) (*entity.Tournament, error)
	StartTournament(ctx context.Context, tournamentID, requester string) (*entity.Tournament, error)
	GetTournament(tournamentID string) (*entity.Tournament, error)
	ListActiveTournaments() []entity.TournamentSummary

	AttachSpectator(ctx context.Context, sessionID, observer string) ([]entity.RenderInstruction, error)
	DetachSpectator(sessionID, observer string)
	ListSpectatableSessions(ctx context.Context) []SpectatableSession

	GetStats(ctx context.Context, userID string) (*entity.Stats, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error)
	SetDisplayName(ctx context.Context, userID, name string) error
}

// SpectatableSession is the listing shape for the spectate menu.
type SpectatableSession struct {
	ID         string   `json:"id"`
	Players    []string `json:"players"`
	Spectators int      `json:"spectators"`
	Mode       string   `json:"mode"`
}

type gameUseCase struct {
	logger *slog.Logger

	sessions    service.SessionRegistry
	matchmaking service.MatchmakingQueue
	tournaments service.TournamentManager
	spectators  service.SpectatorRegistry
	stats       service.StatsService
}

func New(
	logger *slog.Logger,
	sessions service.SessionRegistry,
	matchmaking service.MatchmakingQueue,
	tournaments service.TournamentManager,
	spectators service.SpectatorRegistry,
	stats service.StatsService,
) GameUseCase {
	return &gameUseCase{
		logger:      logger,
		sessions:    sessions,
		matchmaking: matchmaking,
		tournaments: tournaments,
		spectators:  spectators,
		stats:       stats,
	}
}

func (that *gameUseCase) StartSession(ctx context.Context, requester, mode, difficulty string) ([]entity.RenderInstruction, error) {
	session, err := that.sessions.Create(ctx, service.CreateSpec{
		Creator:    requester,
		Mode:       mode,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return that.renderForPlayers(ctx, session), nil
}

func (that *gameUseCase) JoinFriendSession(ctx context.Context, sessionID, joiner string) ([]entity.RenderInstruction, error) {
	session, err := that.sessions.JoinFriend(ctx, sessionID, joiner)
	if err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	return that.renderForPlayers(ctx, session), nil
}

func (that *gameUseCase) SubmitMove(ctx context.Context, sessionID, actor string, row, col int) ([]entity.RenderInstruction, error) {
	outcome, err := that.sessions.ApplyMove(ctx, sessionID, actor, row, col)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return that.renderForAll(ctx, outcome), nil
}

func (that *gameUseCase) RequestHint(ctx context.Context, sessionID, actor string) (*service.HintOutcome, error) {
	hint, err := that.sessions.Hint(ctx, sessionID, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to compute hint: %w", err)
	}

	return hint, nil
}

func (that *gameUseCase) RequestUndo(ctx context.Context, sessionID, actor string) ([]entity.RenderInstruction, error) {
	session, err := that.sessions.Undo(ctx, sessionID, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to undo: %w", err)
	}

	instructions := that.renderForPlayers(ctx, session)
	instructions = append(instructions, that.renderForSpectators(ctx, session)...)

	return instructions, nil
}

func (that *gameUseCase) Resign(ctx context.Context, sessionID, actor string) ([]entity.RenderInstruction, error) {
	outcome, err := that.sessions.Resign(ctx, sessionID, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to resign: %w", err)
	}

	return that.renderForAll(ctx, outcome), nil
}

// EnqueueQuickMatch pairs the requester with the oldest waiting player, or
// parks the requester in the queue when nobody else is waiting.
func (that *gameUseCase) EnqueueQuickMatch(ctx context.Context, requester string) ([]entity.RenderInstruction, error) {
	opponent, ok := that.matchmaking.TryMatch(requester)
	if !ok {
		return []entity.RenderInstruction{that.renderQueueWait(requester)}, nil
	}

	session, err := that.sessions.Create(ctx, service.CreateSpec{
		Creator:  requester,
		Opponent: opponent,
		Mode:     entity.ModeQuickMatch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quick match session: %w", err)
	}

	return that.renderForPlayers(ctx, session), nil
}

func (that *gameUseCase) CancelQuickMatch(requester string) bool {
	return that.matchmaking.Dequeue(requester)
}

func (that *gameUseCase) CreateTournament(ctx context.Context, creator, name string, maxPlayers int, prize string) (*entity.Tournament, error) {
	tournament, err := that.tournaments.Create(ctx, creator, name, maxPlayers, prize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	return tournament, nil
}

func (that *gameUseCase) JoinTournament(ctx context.Context, tournamentID, participant string) (*entity.Tournament, error) {
	tournament, err := that.tournaments.Join(ctx, tournamentID, participant)
	if err != nil {
		return nil, fmt.Errorf("failed to join tournament: %w", err)
	}

	return tournament, nil
}

func (that *gameUseCase) StartTournament(ctx context.Context, tournamentID, requester string) (*entity.Tournament, error) {
	tournament, err := that.tournaments.Start(ctx, tournamentID, requester)
	if err != nil {
		return nil, fmt.Errorf("failed to start tournament: %w", err)
	}

	return tournament, nil
}

func (that *gameUseCase) GetTournament(tournamentID string) (*entity.Tournament, error) {
	tournament, err := that.tournaments.Info(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	return tournament, nil
}

func (that *gameUseCase) ListActiveTournaments() []entity.TournamentSummary {
	return that.tournaments.ListActive()
}

func (that *gameUseCase) AttachSpectator(ctx context.Context, sessionID, observer string) ([]entity.RenderInstruction, error) {
	session, err := that.sessions.AttachSpectator(sessionID, observer)
	if err != nil {
		return nil, fmt.Errorf("failed to attach spectator: %w", err)
	}

	return []entity.RenderInstruction{that.renderFor(ctx, session, observer)}, nil
}

func (that *gameUseCase) DetachSpectator(sessionID, observer string) {
	that.spectators.Detach(sessionID, observer)
}

func (that *gameUseCase) ListSpectatableSessions(ctx context.Context) []SpectatableSession {
	sessions := that.sessions.ListSpectatable()

	listings := make([]SpectatableSession, 0, len(sessions))

	for _, session := range sessions {
		players := make([]string, 0, 2)
		for _, player := range session.HumanPlayers() {
			players = append(players, that.stats.DisplayName(ctx, player))
		}

		listings = append(listings, SpectatableSession{
			ID:         session.ID,
			Players:    players,
			Spectators: len(that.spectators.ListFor(session.ID)),
			Mode:       session.Mode,
		})
	}

	return listings
}

func (that *gameUseCase) GetStats(ctx context.Context, userID string) (*entity.Stats, error) {
	stats, err := that.stats.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *gameUseCase) GetHistory(ctx context.Context, userID string, limit int) ([]entity.HistoryRecord, error) {
	records, err := that.stats.GetHistory(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	return records, nil
}

func (that *gameUseCase) SetDisplayName(ctx context.Context, userID, name string) error {
	if err := that.stats.SetName(ctx, userID, name); err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}

	return nil
}
