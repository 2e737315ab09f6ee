package agent

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/table"
	"tictactoe/utils"
)

const (
	DefaultIterations = 10000
	DefaultTolerance  = 1e-6
	StepPenalty       = -0.1
)

// ValueIteration refines a value table over the states it has seen and plays
// greedily against a one-step lookahead.
type ValueIteration struct {
	v        *table.ValueTable
	rng      *rand.Rand
	settings Settings
}

func NewValueIteration(v *table.ValueTable, rng *rand.Rand, options ...Option) *ValueIteration {
	return &ValueIteration{
		v:   v,
		rng: rng,
		settings: newSettings(Settings{
			Discount:   0.9,
			RandomRate: 0.4,
		}, options),
	}
}

func (a *ValueIteration) Table() *table.ValueTable {
	return a.v
}

// Observe registers the current position so later sweeps refine it.
func (a *ValueIteration) Observe(g *game.Game) {
	a.v.Register(g.Key())
}

// Iterate runs up to iterations in-place sweeps over every known state and
// stops once the largest change falls below tolerance. It returns the number
// of sweeps run and the last sweep's largest change.
func (a *ValueIteration) Iterate(g *game.Game, iterations int, tolerance float64) (int, float64, error) {
	a.Observe(g)
	keys := a.v.Keys()

	sweeps := 0
	delta := 0.0
	for sweeps < iterations {
		sweeps++
		delta = 0
		for _, key := range keys {
			board, err := game.Decode(key)
			if err != nil {
				return sweeps, delta, err
			}
			old := a.v.Get(key)
			moves := board.LegalMoves()
			if len(moves) > 0 {
				best := math.Inf(-1)
				for _, move := range moves {
					q, err := a.QValue(g, key, move)
					if err != nil {
						return sweeps, delta, err
					}
					best = math.Max(best, q)
				}
				a.v.Set(key, best)
			}
			delta = math.Max(delta, math.Abs(old-a.v.Get(key)))
		}
		if delta < tolerance {
			break
		}
	}

	log.Debug().Int("states", len(keys)).Int("sweeps", sweeps).Float64("delta", delta).Msg("value iteration")
	return sweeps, delta, nil
}

// Lookahead plays move for g's mover on a copy of the board behind key and
// scores the result: 1 for a mover win, -1 for a human win, 0 for a full board
// and a small penalty otherwise.
func (a *ValueIteration) Lookahead(g *game.Game, key game.StateKey, move game.Move) (game.StateKey, float64, error) {
	board, err := game.Decode(key)
	if err != nil {
		return "", 0, err
	}
	if err := board.Apply(move, g.Current); err != nil {
		return "", 0, err
	}

	next := game.Encode(board)
	switch winner := board.Winner(); {
	case winner == g.Current:
		return next, 1, nil
	case winner == g.Human:
		return next, -1, nil
	case board.Full():
		return next, 0, nil
	default:
		return next, StepPenalty, nil
	}
}

// QValue is the lookahead reward plus the discounted stored value of the successor.
func (a *ValueIteration) QValue(g *game.Game, key game.StateKey, move game.Move) (float64, error) {
	next, reward, err := a.Lookahead(g, key, move)
	if err != nil {
		return 0, err
	}
	return reward + a.settings.Discount*a.v.Get(next), nil
}

func (a *ValueIteration) FindMove(g *game.Game) (game.Move, error) {
	moves, err := legalMoves(g)
	if err != nil {
		return game.Move{}, err
	}
	if a.rng.Float64() < a.settings.RandomRate {
		return utils.Choice(a.rng, moves), nil
	}
	return a.bestMove(g, moves)
}

// bestMove returns the first move with the highest lookahead value.
func (a *ValueIteration) bestMove(g *game.Game, moves []game.Move) (game.Move, error) {
	key := g.Key()
	best := moves[0]
	bestValue := math.Inf(-1)
	for _, move := range moves {
		q, err := a.QValue(g, key, move)
		if err != nil {
			return game.Move{}, err
		}
		if q > bestValue {
			best, bestValue = move, q
		}
	}
	return best, nil
}
