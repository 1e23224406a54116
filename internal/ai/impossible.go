package ai

import "github.com/botwalain/tictactoe-tgbot/internal/entity"

const centerCell = 4

// impossibleEngine is the exhaustive search with a fixed opening: claim the
// center on its first move when it is still free.
type impossibleEngine struct {
	minimax minimaxEngine
}

func (that *impossibleEngine) SelectMove(board [9]string, mark string) (int, error) {
	if isOpening(board) && board[centerCell] == entity.EmptyCell {
		return centerCell, nil
	}
	return that.minimax.SelectMove(board, mark)
}

// isOpening reports whether at most one mark is on the board, i.e. the
// engine is making its first move.
func isOpening(board [9]string) bool {
	marks := 0
	for _, cell := range board {
		if cell != entity.EmptyCell {
			marks++
		}
	}
	return marks <= 1
}
