package agent

import (
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/table"
	"tictactoe/utils"
)

// Greedy always plays a highest-valued move of its Q-table, breaking ties at
// random, and learns from the reward that follows its last move.
type Greedy struct {
	q         *table.QTable
	rng       *rand.Rand
	settings  Settings
	lastState game.StateKey
	lastMove  game.Move
	hasLast   bool
}

func NewGreedy(q *table.QTable, rng *rand.Rand, options ...Option) *Greedy {
	return &Greedy{
		q:   q,
		rng: rng,
		settings: newSettings(Settings{
			LearningRate: 0.5,
			Discount:     0.9,
		}, options),
	}
}

func (a *Greedy) Table() *table.QTable {
	return a.q
}

func (a *Greedy) FindMove(g *game.Game) (game.Move, error) {
	moves, err := legalMoves(g)
	if err != nil {
		return game.Move{}, err
	}
	key := g.Key()
	a.ensure(key, moves)

	best := a.q.MaxOver(key, moves)
	ties := make([]game.Move, 0, len(moves))
	for _, move := range moves {
		if a.q.Get(key, move) == best {
			ties = append(ties, move)
		}
	}

	move := utils.Choice(a.rng, ties)
	a.lastState, a.lastMove, a.hasLast = key, move, true
	return move, nil
}

// Update moves the value of the last chosen move towards reward plus the
// discounted best value of next.
func (a *Greedy) Update(reward float64, next game.StateKey) error {
	if !a.hasLast {
		return nil
	}
	board, err := game.Decode(next)
	if err != nil {
		return err
	}
	moves := board.LegalMoves()
	a.ensure(next, moves)

	old := a.q.Get(a.lastState, a.lastMove)
	target := reward + a.settings.Discount*a.q.MaxOver(next, moves)
	a.q.Set(a.lastState, a.lastMove, old+a.settings.LearningRate*(target-old))
	return nil
}

// Forget drops the remembered move at the end of an episode.
func (a *Greedy) Forget() {
	a.hasLast = false
}

func (a *Greedy) ensure(key game.StateKey, moves []game.Move) {
	if a.q.Has(key) {
		return
	}
	for _, move := range moves {
		a.q.Set(key, move, 0)
	}
}
