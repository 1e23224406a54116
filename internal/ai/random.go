package ai

import "math/rand"

// randomEngine picks uniformly among the empty cells.
type randomEngine struct{}

func (that *randomEngine) SelectMove(board [9]string, _ string) (int, error) {
	cells := emptyCells(board)
	if len(cells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	return cells[rand.Intn(len(cells))], nil //nolint: gosec // it's ok
}
