package agent

import (
	"golang.org/x/exp/rand"

	"tictactoe/game"
	"tictactoe/utils"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandom returns an agent that plays a uniformly random legal move.
func NewRandom(rng *rand.Rand) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(g *game.Game) (game.Move, error) {
	moves, err := legalMoves(g)
	if err != nil {
		return game.Move{}, err
	}
	return utils.Choice(a.rng, moves), nil
}
