package game

import (
	"fmt"
	"strings"
)

// Board is a square tic-tac-toe grid stored row-major.
type Board struct {
	size  int
	cells []Symbol
}

// NewBoard returns an empty board with the given side length.
func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	cells := make([]Symbol, size*size)
	for i := range cells {
		cells[i] = Empty
	}
	return &Board{size: size, cells: cells}, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) inBounds(m Move) bool {
	return m.Row >= 0 && m.Row < b.size && m.Col >= 0 && m.Col < b.size
}

// At returns the symbol at (row, col). It panics on out-of-bounds access.
func (b *Board) At(row, col int) Symbol {
	if !b.inBounds(Move{Row: row, Col: col}) {
		panic(fmt.Sprintf("cell (%d, %d) out of bounds for size %d", row, col, b.size))
	}
	return b.cells[row*b.size+col]
}

// Apply places symbol on the cell named by m.
func (b *Board) Apply(m Move, symbol Symbol) error {
	if symbol != X && symbol != O {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	if !b.inBounds(m) {
		return fmt.Errorf("%w: %v out of bounds for size %d", ErrInvalidMove, m, b.size)
	}
	i := m.Row*b.size + m.Col
	if b.cells[i] != Empty {
		return fmt.Errorf("%w: %v is occupied by %v", ErrInvalidMove, m, b.cells[i])
	}
	b.cells[i] = symbol
	return nil
}

// Undo clears the cell named by m.
func (b *Board) Undo(m Move) {
	if b.inBounds(m) {
		b.cells[m.Row*b.size+m.Col] = Empty
	}
}

func (b *Board) Copy() *Board {
	cells := make([]Symbol, len(b.cells))
	copy(cells, b.cells)
	return &Board{size: b.size, cells: cells}
}

// LegalMoves returns every empty cell in row-major order.
func (b *Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b.cells))
	for i, cell := range b.cells {
		if cell == Empty {
			moves = append(moves, Move{Row: i / b.size, Col: i % b.size})
		}
	}
	return moves
}

func (b *Board) IsLegal(m Move) bool {
	return b.inBounds(m) && b.cells[m.Row*b.size+m.Col] == Empty
}

func (b *Board) Full() bool {
	for _, cell := range b.cells {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Winner returns the symbol occupying a full row, column or diagonal, or Empty.
// Rows are checked first, then columns, then the two diagonals.
func (b *Board) Winner() Symbol {
	n := b.size
	line := func(start, step int) Symbol {
		first := b.cells[start]
		if first == Empty {
			return Empty
		}
		for k := 1; k < n; k++ {
			if b.cells[start+k*step] != first {
				return Empty
			}
		}
		return first
	}

	for r := 0; r < n; r++ {
		if s := line(r*n, 1); s != Empty {
			return s
		}
	}
	for c := 0; c < n; c++ {
		if s := line(c, n); s != Empty {
			return s
		}
	}
	if s := line(0, n+1); s != Empty {
		return s
	}
	if n > 1 {
		return line(n-1, n-1)
	}
	return Empty
}

// Status reports whether the board is still ongoing, won (with the winner), or drawn.
func (b *Board) Status() (Status, Symbol) {
	if w := b.Winner(); w != Empty {
		return Won, w
	}
	if b.Full() {
		return Draw, Empty
	}
	return Ongoing, Empty
}

func (b *Board) IsTerminal() bool {
	status, _ := b.Status()
	return status != Ongoing
}

// Count returns how many cells hold symbol.
func (b *Board) Count(symbol Symbol) int {
	count := 0
	for _, cell := range b.cells {
		if cell == symbol {
			count++
		}
	}
	return count
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.size != other.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the board as rows of cells separated by bars.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		row := make([]string, b.size)
		for c := 0; c < b.size; c++ {
			row[c] = b.At(r, c).String()
		}
		sb.WriteString(strings.Join(row, "|"))
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("-", 2*b.size-1))
		sb.WriteByte('\n')
	}
	return sb.String()
}
