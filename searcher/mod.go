package searcher

import (
	"math"

	"tictactoe/game"
)

// Hyperparameters for MCTS

const DefaultExploration = 1.4 // Exploration constant C
const DefaultSimulations = 1000

const WIN = 1.0
const LOSS = -WIN
const DRAW = 0.0

// Guide biases the rollout policy with a learned table. BestMove reports the
// move the table rates highest for key, or false when key has not been seen.
type Guide interface {
	BestMove(key game.StateKey, mover game.Symbol) (game.Move, bool)
}

// ucb1 = value/visits + c*sqrt(ln(parentVisits)/visits)
func ucb1(value float64, visits, parentVisits int, c float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return value/float64(visits) + c*math.Sqrt(math.Log(float64(parentVisits))/float64(visits))
}

// outcome scores a finished rollout from the AI seat.
func outcome(g *game.Game) float64 {
	switch g.Winner() {
	case g.AI:
		return WIN
	case g.Human:
		return LOSS
	default:
		return DRAW
	}
}
