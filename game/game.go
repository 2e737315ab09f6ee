package game

import "fmt"

// Game is a position: the board, the player to move and the fixed AI/human seats.
type Game struct {
	Board   *Board
	Current Symbol
	AI      Symbol
	Human   Symbol
	first   Symbol
}

// NewGame returns an empty game where first moves first.
func NewGame(size int, ai, human, first Symbol) (*Game, error) {
	if err := checkSeats(ai, human, first); err != nil {
		return nil, err
	}
	board, err := NewBoard(size)
	if err != nil {
		return nil, err
	}
	return &Game{Board: board, Current: first, AI: ai, Human: human, first: first}, nil
}

// FromKey builds a position from a state key with current to move.
func FromKey(key StateKey, ai, human, current Symbol) (*Game, error) {
	if err := checkSeats(ai, human, current); err != nil {
		return nil, err
	}
	board, err := Decode(key)
	if err != nil {
		return nil, err
	}
	return &Game{Board: board, Current: current, AI: ai, Human: human, first: current}, nil
}

func checkSeats(ai, human, current Symbol) error {
	if ai != X && ai != O || human != X && human != O || ai == human {
		return fmt.Errorf("%w: ai=%q human=%q", ErrInvalidSymbol, ai, human)
	}
	if current != ai && current != human {
		return fmt.Errorf("%w: mover %q is not seated", ErrInvalidSymbol, current)
	}
	return nil
}

// Opponent returns the other seated symbol.
func (g *Game) Opponent(s Symbol) Symbol {
	if s == g.AI {
		return g.Human
	}
	return g.AI
}

// Play applies move for the current mover and passes the turn.
func (g *Game) Play(move Move) error {
	if err := g.Board.Apply(move, g.Current); err != nil {
		return err
	}
	g.Current = g.Opponent(g.Current)
	return nil
}

func (g *Game) Copy() *Game {
	return &Game{
		Board:   g.Board.Copy(),
		Current: g.Current,
		AI:      g.AI,
		Human:   g.Human,
		first:   g.first,
	}
}

func (g *Game) LegalMoves() []Move {
	return g.Board.LegalMoves()
}

func (g *Game) IsOver() bool {
	return g.Board.IsTerminal()
}

// Winner returns the winning symbol or Empty.
func (g *Game) Winner() Symbol {
	return g.Board.Winner()
}

func (g *Game) Key() StateKey {
	return Encode(g.Board)
}

// Reward scores the position from the AI seat: 1 for an AI win, -1 for a
// human win and 0 for draws and unfinished games.
func (g *Game) Reward() float64 {
	switch g.Winner() {
	case g.AI:
		return 1
	case g.Human:
		return -1
	default:
		return 0
	}
}

// Reset clears the board and hands the move back to the starting player.
func (g *Game) Reset() {
	for i := range g.Board.cells {
		g.Board.cells[i] = Empty
	}
	g.Current = g.first
}
