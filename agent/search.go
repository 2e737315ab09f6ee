package agent

import (
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/searcher"
)

// Search plays the move found by MCTS with rollouts guided by a learned table.
type Search struct {
	guide    searcher.Guide
	rng      *rand.Rand
	settings Settings
	last     searcher.SearchMetrics
}

func NewSearch(guide searcher.Guide, rng *rand.Rand, options ...Option) *Search {
	return &Search{
		guide: guide,
		rng:   rng,
		settings: newSettings(Settings{
			Simulations: searcher.DefaultSimulations,
			Exploration: searcher.DefaultExploration,
		}, options),
	}
}

func (a *Search) SearchMetrics() searcher.SearchMetrics {
	return a.last
}

func (a *Search) FindMove(g *game.Game) (game.Move, error) {
	a.last = searcher.SearchMetrics{}
	if _, err := legalMoves(g); err != nil {
		return game.Move{}, err
	}
	m := newMCTS(a.guide, a.rng, a.settings)
	move, ok := m.Search(g)
	a.last = m.Metrics()
	if !ok {
		return game.Move{}, ErrNoMoves
	}
	return move, nil
}
