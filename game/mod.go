package game

import (
	"errors"
	"fmt"
	"strings"
)

// Symbol is the content of a single board cell.
type Symbol byte

const (
	Empty Symbol = ' '
	X     Symbol = 'X'
	O     Symbol = 'O'
)

func (s Symbol) String() string {
	return string(s)
}

// Valid reports whether s is one of the three cell symbols.
func (s Symbol) Valid() bool {
	return s == Empty || s == X || s == O
}

// ParseSymbol reads a player symbol, ignoring case and surrounding space.
func ParseSymbol(s string) (Symbol, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}
	return Empty, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
}

// PlayableSizes are the board sizes agents train and play on.
var PlayableSizes = []int{3, 5, 7}

// CheckPlayable reports ErrInvalidSize for sizes outside PlayableSizes.
func CheckPlayable(size int) error {
	for _, s := range PlayableSizes {
		if s == size {
			return nil
		}
	}
	return fmt.Errorf("%w: %d is not one of %v", ErrInvalidSize, size, PlayableSizes)
}

type Status int

const (
	Ongoing Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidStateKey = errors.New("invalid state key")
	ErrInvalidSize     = errors.New("invalid board size")
	ErrInvalidSymbol   = errors.New("invalid player symbol")
)
