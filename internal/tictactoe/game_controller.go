package tictactoe

import (
	"errors"
	"fmt"
	"time"

	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

var (
	ErrInvalidCell = errors.New("invalid cell coordinates")

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// ApplyMove validates and applies one move for actor, appends it to the
// session history, and resolves the outcome before the turn flips.
func ApplyMove(session *entity.Session, actor string, row, col int) error {
	if session.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if session.IsWaiting() {
		return apperror.ErrGameIsNotStarted
	}

	if err := validateMove(session, actor, row, col); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	session.Board[CellIndex(row, col)] = session.Symbols[actor]
	session.Moves = append(session.Moves, entity.Move{Actor: actor, Row: row, Col: col, At: time.Now()})

	resolveMove(session, actor)

	return nil
}

// Undo removes the last two moves (one per player), clears their cells, and
// hands the turn back to the requester.
func Undo(session *entity.Session, actor string) error {
	if session.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if len(session.Moves) < 2 {
		return apperror.ErrInsufficientHistory
	}

	for i := 0; i < 2; i++ {
		last := session.Moves[len(session.Moves)-1]
		session.Board[CellIndex(last.Row, last.Col)] = entity.EmptyCell
		session.Moves = session.Moves[:len(session.Moves)-1]
	}

	session.Turn = actor

	return nil
}

// Resign terminates the session with the non-resigning player as winner.
func Resign(session *entity.Session, actor string) error {
	if session.IsTerminal() {
		return apperror.ErrGameFinished
	}

	session.Status = entity.StatusResigned
	session.ResignedBy = actor
	session.Winner = session.Opponent(actor)
	session.Turn = ""

	return nil
}

// CellIndex maps 3x3 coordinates onto the row-major board array.
func CellIndex(row, col int) int {
	return row*entity.BoardSize + col
}

// HasWin reports whether mark holds a full row, column, or diagonal.
func HasWin(board [9]string, mark string) bool {
	for _, combo := range WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}
	return false
}

// IsFull reports whether every cell carries a mark.
func IsFull(board [9]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}
	return true
}

func validateMove(session *entity.Session, actor string, row, col int) error {
	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return fmt.Errorf("%w: row %d col %d", ErrInvalidCell, row, col)
	}

	if session.Turn != actor {
		return apperror.ErrNotYourTurn
	}

	if session.Board[CellIndex(row, col)] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// resolveMove checks the acting player's lines, then the draw condition,
// and only flips the turn when the game continues.
func resolveMove(session *entity.Session, actor string) {
	switch {
	case HasWin(session.Board, session.Symbols[actor]):
		session.Status = entity.StatusWon
		session.Winner = actor
		session.Turn = ""
	case IsFull(session.Board):
		session.Status = entity.StatusDrawn
		session.Turn = ""
	default:
		session.Turn = session.Opponent(actor)
	}
}
