package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tictactoe/agent"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

// Local plays one game between two in-process agents, one per seat.
type Local struct {
	Game   *game.Game
	Agents map[game.Symbol]agent.Agent
	// OnMove, when set, is called after every applied move.
	OnMove func(g *game.Game, mover game.Symbol, move game.Move)
}

func NewLocal(g *game.Game, ai, human agent.Agent) *Local {
	if ai == nil || human == nil {
		panic("both seats need an agent")
	}
	return &Local{
		Game:   g,
		Agents: map[game.Symbol]agent.Agent{g.AI: ai, g.Human: human},
	}
}

// Run executes the game loop from the current position until it is over.
func (e *Local) Run() (Result, error) {
	var result Result
	log.Debug().Str("first", e.Game.Current.String()).Msg("game started")

	for !e.Game.IsOver() && result.Moves < MaxMoves {
		mover := e.Game.Current
		move, err := e.Agents[mover].FindMove(e.Game)
		if err != nil {
			return result, fmt.Errorf("player %v failed to move: %w", mover, err)
		}
		if err := e.Game.Play(move); err != nil {
			return result, fmt.Errorf("player %v played %v: %w", mover, move, err)
		}
		result.Moves++
		result.History = append(result.History, move)
		if e.OnMove != nil {
			e.OnMove(e.Game, mover, move)
		}
	}

	result.Status, result.Winner = e.Game.Board.Status()
	log.Debug().Str("outcome", result.Label()).Int("moves", result.Moves).Msg("game over")
	return result, nil
}

// PlayMatch plays games between ai and human from a reset board and tallies
// the outcomes from the AI seat.
func PlayMatch(ctx context.Context, g *game.Game, ai, human agent.Agent, games int) (metrics.Summary, error) {
	c := metrics.NewCollector()
	c.Start(metrics.RunConfig{BoardSize: g.Board.Size(), Episodes: games})

	for i := 1; i <= games; i++ {
		if err := ctx.Err(); err != nil {
			return c.Complete(), err
		}
		g.Reset()
		result, err := NewLocal(g, ai, human).Run()
		if err != nil {
			return c.Complete(), err
		}
		c.AddEpisode(metrics.EpisodeRecord{
			Episode: i,
			Winner:  result.Label(),
			Reward:  g.Reward(),
			Moves:   result.Moves,
		})
	}
	g.Reset()
	return c.Complete(), nil
}
