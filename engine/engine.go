package engine

import "tictactoe/game"

// MaxMoves bounds a single game; a board never needs more moves than cells.
const MaxMoves = 7 * 7

type Engine interface {
	// Run plays a game until it is won or drawn
	Run() (Result, error)
}

type Result struct {
	Winner  game.Symbol
	Status  game.Status
	Moves   int
	History []game.Move
}

// Label names the outcome as recorded in training metrics.
func (r Result) Label() string {
	if r.Status == game.Draw {
		return "draw"
	}
	return r.Winner.String()
}
