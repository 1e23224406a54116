package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/botwalain/tictactoe-tgbot/internal/config"
	"github.com/botwalain/tictactoe-tgbot/internal/repository"
	"github.com/botwalain/tictactoe-tgbot/internal/repository/storage"
	"github.com/botwalain/tictactoe-tgbot/internal/repository/storage/sqlite"
	"github.com/botwalain/tictactoe-tgbot/internal/service"
	"github.com/botwalain/tictactoe-tgbot/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// Dispatcher is the external transport that feeds inbound events into the
// use case. The core never formats platform markup, so the dispatcher owns
// parsing and delivery on its side of the seam.
type Dispatcher interface {
	Run(ctx context.Context, game usecase.GameUseCase) error
}

// RunApp - wires the storages, registries and the use case, hands the use
// case to the dispatcher and blocks until the process is signalled to stop.
func RunApp(logger *slog.Logger, conf *config.Config, dispatcher Dispatcher) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
	tournamentRepo := repository.NewTournamentRepository(redisStorage.Connection)
	statsRepo := repository.NewStatsRepository(sqliteStorage.Connection)
	historyRepo := repository.NewHistoryRepository(sqliteStorage.Connection)

	spectators := service.NewSpectatorRegistry()
	matchmaking := service.NewMatchmakingQueue()
	sessions := service.NewSessionRegistry(logger, spectators, sessionRepo, statsRepo, historyRepo, conf.InviteTTL)
	tournaments := service.NewTournamentManager(logger, sessions, tournamentRepo, statsRepo, conf.AdminIDs)
	sessions.SetTournamentAdvancer(tournaments)
	sessions.StartJanitor(ctx)

	stats := service.NewStatsService(statsRepo, historyRepo)

	gameUseCase := usecase.New(logger, sessions, matchmaking, tournaments, spectators, stats)

	if dispatcher == nil {
		log.Info("Application started without a dispatcher")
		<-ctx.Done()
		log.Info("Application context canceled, shutting down")
		return nil
	}

	dispatchErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting dispatcher")
		if dispatchErr := dispatcher.Run(ctx, gameUseCase); dispatchErr != nil {
			log.Error("dispatcher error", "error", dispatchErr)
			dispatchErrCh <- dispatchErr
		}
	}()

	select {
	case err = <-dispatchErrCh:
		return fmt.Errorf("dispatcher error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
