package agent

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/table"
	"tictactoe/utils"
)

const MinEpsilon = 0.01

// QLearning explores epsilon-greedily and exploits with an MCTS guided by its
// own Q-table.
type QLearning struct {
	q        *table.QTable
	rng      *rand.Rand
	settings Settings
	epsilon  float64
	last     searcher.SearchMetrics
}

func NewQLearning(q *table.QTable, rng *rand.Rand, options ...Option) *QLearning {
	s := newSettings(Settings{
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      1.0,
		EpsilonDecay: 0.995,
		Simulations:  searcher.DefaultSimulations,
		Exploration:  searcher.DefaultExploration,
	}, options)
	return &QLearning{q: q, rng: rng, settings: s, epsilon: s.Epsilon}
}

func (a *QLearning) Epsilon() float64 {
	return a.epsilon
}

func (a *QLearning) Table() *table.QTable {
	return a.q
}

func (a *QLearning) SearchMetrics() searcher.SearchMetrics {
	return a.last
}

func (a *QLearning) FindMove(g *game.Game) (game.Move, error) {
	a.last = searcher.SearchMetrics{}
	moves, err := legalMoves(g)
	if err != nil {
		return game.Move{}, err
	}

	var move game.Move
	if a.rng.Float64() < a.epsilon {
		move = utils.Choice(a.rng, moves)
	} else {
		move = a.exploit(g, moves)
	}

	a.epsilon = math.Max(a.epsilon*a.settings.EpsilonDecay, MinEpsilon)
	return move, nil
}

// exploit asks MCTS for a candidate, then picks at random among the moves
// whose Q-value equals the candidate's.
func (a *QLearning) exploit(g *game.Game, moves []game.Move) game.Move {
	m := newMCTS(a.q, a.rng, a.settings)
	candidate, ok := m.Search(g)
	a.last = m.Metrics()
	if !ok {
		return utils.Choice(a.rng, moves)
	}

	key := g.Key()
	target := a.q.Get(key, candidate)
	ties := make([]game.Move, 0, len(moves))
	for _, move := range moves {
		if a.q.Get(key, move) == target {
			ties = append(ties, move)
		}
	}
	log.Debug().Stringer("candidate", candidate).Int("ties", len(ties)).Msg("q-learning exploit")
	return utils.Choice(a.rng, ties)
}

// Update applies one Q-learning step to (prev, action). g is the position
// after the transition and decides whether the episode has ended.
func (a *QLearning) Update(g *game.Game, prev game.StateKey, action game.Move, reward float64, next game.StateKey) error {
	target := reward
	if !g.IsOver() {
		board, err := game.Decode(next)
		if err != nil {
			return err
		}
		target += a.settings.Discount * a.q.MaxOver(next, board.LegalMoves())
	}

	alpha := a.settings.LearningRate
	value := (1-alpha)*a.q.Get(prev, action) + alpha*target
	a.q.Set(prev, action, value)
	return nil
}
