package ai

import (
	"errors"
	"fmt"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

var (
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Engine selects a cell for mark on the given board. Engines never mutate
// the board they are handed.
type Engine interface {
	SelectMove(board [9]string, mark string) (int, error)
}

// ForDifficulty returns the engine for one of the four tiers.
func ForDifficulty(difficulty string) (Engine, error) {
	switch difficulty {
	case entity.DifficultyEasy:
		return &randomEngine{}, nil
	case entity.DifficultyMedium:
		return &mediumEngine{}, nil
	case entity.DifficultyHard:
		return &minimaxEngine{}, nil
	case entity.DifficultyImpossible:
		return &impossibleEngine{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDifficulty, difficulty)
	}
}

func emptyCells(board [9]string) []int {
	cells := make([]int, 0, len(board))
	for i, cell := range board {
		if cell == entity.EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func toggleMark(mark string) string {
	if mark == entity.MarkX {
		return entity.MarkO
	}
	return entity.MarkX
}
