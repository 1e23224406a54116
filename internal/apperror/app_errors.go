package apperror

import "errors"

var (
	ErrGameFinished        = errors.New("game is already finished")
	ErrGameIsNotStarted    = errors.New("game is not started")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrCellOccupied        = errors.New("cell is already occupied")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInsufficientHistory = errors.New("not enough moves to undo")
	ErrExhaustedHints      = errors.New("no hints left")
	ErrNotSpectatable      = errors.New("session cannot be spectated")
	ErrAlreadyFull         = errors.New("session is already full")
	ErrSelfJoin            = errors.New("cannot join your own session")

	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrAlreadyStarted      = errors.New("tournament has already started")
	ErrTournamentFull      = errors.New("tournament is full")
	ErrAlreadyJoined       = errors.New("already joined this tournament")
	ErrUnauthorized        = errors.New("only the creator or an admin can do this")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start")
	ErrTournamentNotActive = errors.New("tournament is not active")
)
