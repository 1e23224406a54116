package ai

import "math/rand"

// optimalShare is the fraction of medium-tier moves played optimally;
// the rest fall back to a random cell.
const optimalShare = 0.7

type mediumEngine struct {
	minimax minimaxEngine
	random  randomEngine
}

func (that *mediumEngine) SelectMove(board [9]string, mark string) (int, error) {
	if rand.Float64() < optimalShare { //nolint: gosec // it's ok
		return that.minimax.SelectMove(board, mark)
	}
	return that.random.SelectMove(board, mark)
}
