package ai

import (
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/tictactoe"
)

// minimaxEngine plays the exhaustive adversarial search. It never loses:
// the 9-cell tree is searched to the end, preferring fast wins and slow
// losses. Ties break to the first best cell in row-major order.
type minimaxEngine struct{}

func (that *minimaxEngine) SelectMove(board [9]string, mark string) (int, error) {
	cells := emptyCells(board)
	if len(cells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	opponent := toggleMark(mark)

	bestScore := -100
	bestCell := cells[0]

	for _, cell := range cells {
		board[cell] = mark
		score := minimax(board, 1, false, mark, opponent)
		board[cell] = entity.EmptyCell

		if score > bestScore {
			bestScore = score
			bestCell = cell
		}
	}

	return bestCell, nil
}

func minimax(board [9]string, depth int, maximizing bool, mark, opponent string) int {
	switch {
	case tictactoe.HasWin(board, mark):
		return 10 - depth
	case tictactoe.HasWin(board, opponent):
		return depth - 10
	case tictactoe.IsFull(board):
		return 0
	}

	if maximizing {
		best := -100
		for i, cell := range board {
			if cell != entity.EmptyCell {
				continue
			}
			board[i] = mark
			if score := minimax(board, depth+1, false, mark, opponent); score > best {
				best = score
			}
			board[i] = entity.EmptyCell
		}
		return best
	}

	best := 100
	for i, cell := range board {
		if cell != entity.EmptyCell {
			continue
		}
		board[i] = opponent
		if score := minimax(board, depth+1, true, mark, opponent); score < best {
			best = score
		}
		board[i] = entity.EmptyCell
	}
	return best
}
